package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/glidebook/glidebook/pkg/logging"
)

func TestHandler_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM providers WHERE business_id = \$1`).
		WithArgs("biz-1").
		WillReturnRows(providerRows().
			AddRow("p1", "biz-1", "", "Ann", "Lee", "", ""))

	h := NewHandler(NewRepositoryWithDB(mock), logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/providers?businessId=biz-1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Providers) != 1 {
		t.Fatalf("got %d providers, want 1", len(resp.Providers))
	}
	if resp.Providers[0].Name != "Ann Lee" {
		t.Errorf("name = %q, want the derived display name", resp.Providers[0].Name)
	}
}

func TestHandler_List_RequiresBusinessID(t *testing.T) {
	h := NewHandler(NewRepositoryWithDB(nil), logging.New("error"))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/providers", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
