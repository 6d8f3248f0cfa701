package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/glidebook/glidebook/pkg/logging"
)

type fakePricingMirror struct {
	puts []PricingParameter
}

func (f *fakePricingMirror) PutPricingParameter(ctx context.Context, p PricingParameter) error {
	f.puts = append(f.puts, p)
	return nil
}

func newPricingRouter(t *testing.T, mirror Mirror) (*chi.Mux, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	h := NewHandler(NewRepositoryWithDB(mock), mirror, logging.New("error"))
	r := chi.NewRouter()
	r.Get("/api/pricing-parameters", h.ListParameters)
	r.Post("/api/pricing-parameters", h.SaveParameter)
	r.Put("/api/pricing-parameters/{parameterID}", h.SaveParameter)
	r.Delete("/api/pricing-parameters/{parameterID}", h.DeleteParameter)
	r.Post("/api/extras", h.SaveExtra)
	r.Post("/api/industry-frequency", h.SaveFrequency)
	r.Post("/api/locations", h.SaveLocation)
	return r, mock
}

func emptyParameterRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "business_id", "industry_id", "name", "category", "price", "duration_minutes",
		"active", "service_category_ids", "provider_ids", "created_at", "updated_at",
	})
}

func TestSaveParameterCreates(t *testing.T) {
	mirror := &fakePricingMirror{}
	r, mock := newPricingRouter(t, mirror)

	mock.ExpectQuery(`SELECT .+ FROM pricing_parameters`).
		WithArgs("biz-1", "ind-1").
		WillReturnRows(emptyParameterRows())
	mock.ExpectExec(`INSERT INTO pricing_parameters`).
		WithArgs(pgxmock.AnyArg(), "biz-1", "ind-1", "Bedrooms", "home",
			25.0, 0, false, []string{}, []string{}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest(http.MethodPost,
		"/api/pricing-parameters?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"name":"Bedrooms","category":"home","price":25}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var saved PricingParameter
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.ID == "" || saved.BusinessID != "biz-1" || saved.IndustryID != "ind-1" {
		t.Errorf("saved = %+v", saved)
	}
	if len(mirror.puts) != 1 {
		t.Errorf("mirror puts = %d, want 1", len(mirror.puts))
	}
}

func TestSaveParameterDuplicateNameRejectedBeforeWrite(t *testing.T) {
	r, mock := newPricingRouter(t, nil)

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM pricing_parameters`).
		WithArgs("biz-1", "ind-1").
		WillReturnRows(emptyParameterRows().AddRow(
			"p1", "biz-1", "ind-1", "Bedrooms", "home", 25.0, 30,
			true, []string{}, []string{}, now, now,
		))
	// No INSERT expectation: a duplicate must never reach the database.

	req := httptest.NewRequest(http.MethodPost,
		"/api/pricing-parameters?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"name":"bedrooms","category":"home"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestSaveParameterRequiresScope(t *testing.T) {
	r, _ := newPricingRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/pricing-parameters?businessId=biz-1",
		strings.NewReader(`{"name":"Bedrooms","category":"home"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without industryId", rec.Code)
	}
}

func TestSaveExtra(t *testing.T) {
	r, mock := newPricingRouter(t, nil)

	mock.ExpectExec(`INSERT INTO extras`).
		WithArgs(pgxmock.AnyArg(), "biz-1", "ind-1", "Inside Oven", "", 35.0,
			0, "", false, []string{"f1", "f2"}, []string{}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest(http.MethodPost,
		"/api/extras?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"name":"Inside Oven","price":35,"frequencyIds":["f1","f2"]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSaveFrequencyMissingName(t *testing.T) {
	r, _ := newPricingRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost,
		"/api/industry-frequency?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"discountPercent":10}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSaveLocationWithSpots(t *testing.T) {
	r, mock := newPricingRouter(t, nil)

	mock.ExpectExec(`INSERT INTO locations`).
		WithArgs(pgxmock.AnyArg(), "biz-1", "ind-1", "Downtown", "", "",
			false, []string{}, pgxmock.AnyArg(), []string{}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest(http.MethodPost,
		"/api/locations?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"name":"Downtown","spots":[{"id":"s1","label":"Morning","start":"08:00","capacity":2}]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var saved Location
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(saved.Spots) != 1 || saved.Spots[0].Label != "Morning" {
		t.Errorf("spots = %+v", saved.Spots)
	}
}
