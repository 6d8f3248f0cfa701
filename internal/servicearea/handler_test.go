package servicearea

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/glidebook/glidebook/internal/pricing"
	"github.com/glidebook/glidebook/pkg/logging"
)

type fakeResolver struct {
	zips []string
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, shape Shape) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.zips, nil
}

type fakeLocationStore struct {
	businessID string
	locationID string
	zips       []string
	err        error
}

func (f *fakeLocationStore) UpdateLocationZips(ctx context.Context, businessID, industryID, id string, zips []string) error {
	if f.err != nil {
		return f.err
	}
	f.businessID = businessID
	f.locationID = id
	f.zips = zips
	return nil
}

func newAreaRouter(resolver Resolver, store LocationStore) *chi.Mux {
	h := NewHandler(resolver, store, logging.New("error"))
	r := chi.NewRouter()
	r.Post("/api/service-areas/{locationID}/resolve", h.Resolve)
	return r
}

const polygonBody = `{"shape":{"type":"polygon","points":[{"lat":33.74,"lng":-84.39},{"lat":33.76,"lng":-84.39},{"lat":33.75,"lng":-84.37}]}}`

func TestResolveStoresZips(t *testing.T) {
	store := &fakeLocationStore{}
	r := newAreaRouter(&fakeResolver{zips: []string{"30303"}}, store)

	req := httptest.NewRequest(http.MethodPost,
		"/api/service-areas/l1/resolve?businessId=biz-1&industryId=ind-1",
		strings.NewReader(polygonBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp resolveAreaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.ZipCodes) != 1 || resp.ZipCodes[0] != "30303" {
		t.Errorf("zips = %v", resp.ZipCodes)
	}
	if store.locationID != "l1" || store.businessID != "biz-1" {
		t.Errorf("store received %q/%q", store.businessID, store.locationID)
	}
}

func TestResolveGeocoderFailureSkipsStore(t *testing.T) {
	store := &fakeLocationStore{}
	r := newAreaRouter(&fakeResolver{err: errors.New("geocoder unreachable")}, store)

	req := httptest.NewRequest(http.MethodPost,
		"/api/service-areas/l1/resolve?businessId=biz-1&industryId=ind-1",
		strings.NewReader(polygonBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if store.zips != nil {
		t.Error("store written despite geocoder failure")
	}
}

func TestResolveInvalidShape(t *testing.T) {
	r := newAreaRouter(&fakeResolver{}, &fakeLocationStore{})

	req := httptest.NewRequest(http.MethodPost,
		"/api/service-areas/l1/resolve?businessId=biz-1&industryId=ind-1",
		strings.NewReader(`{"shape":{"type":"polygon","points":[]}}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResolveUnknownLocation(t *testing.T) {
	r := newAreaRouter(&fakeResolver{zips: []string{"30303"}}, &fakeLocationStore{err: pricing.ErrNotFound})

	req := httptest.NewRequest(http.MethodPost,
		"/api/service-areas/ghost/resolve?businessId=biz-1&industryId=ind-1",
		strings.NewReader(polygonBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
