package media

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/glidebook/glidebook/pkg/logging"
)

func newMediaRouter(t *testing.T) (*chi.Mux, *fakeS3) {
	t.Helper()
	s3c := newFakeS3()
	h := NewHandler(NewStore(s3c, "glidebook-media", logging.New("error")), logging.New("error"))

	r := chi.NewRouter()
	r.Post("/api/admin/media/{kind}", h.Upload)
	r.Get("/api/admin/media/{kind}/{mediaID}", h.Serve)
	r.Delete("/api/admin/media/{kind}/{mediaID}", h.Delete)
	return r, s3c
}

func TestHandlerUploadAndServe(t *testing.T) {
	r, s3c := newMediaRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/locations?businessId=biz-1",
		strings.NewReader("png-bytes"))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := created["id"]
	if id == "" {
		t.Fatal("expected generated id in upload response")
	}
	if _, ok := s3c.objects["media/biz-1/locations/"+id]; !ok {
		t.Errorf("object not stored; keys = %v", s3c.objects)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/media/locations/"+id+"?businessId=biz-1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rec.Code)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("served body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("served content type = %q", ct)
	}
}

func TestHandlerUploadRequiresBusinessID(t *testing.T) {
	r, _ := newMediaRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/locations", strings.NewReader("x"))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without businessId", rec.Code)
	}
}

func TestHandlerUploadRejectsNonImage(t *testing.T) {
	r, s3c := newMediaRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/locations?businessId=biz-1",
		strings.NewReader("<html>"))
	req.Header.Set("Content-Type", "text/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-image upload", rec.Code)
	}
	if len(s3c.objects) != 0 {
		t.Errorf("nothing should be stored, got %v", s3c.objects)
	}
}

func TestHandlerServeAbsent(t *testing.T) {
	r, _ := newMediaRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/media/extras/ghost?businessId=biz-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown object", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	r, s3c := newMediaRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/extras?businessId=biz-1",
		strings.NewReader("jpg"))
	req.Header.Set("Content-Type", "image/jpeg")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete,
		"/api/admin/media/extras/"+created["id"]+"?businessId=biz-1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if len(s3c.objects) != 0 {
		t.Errorf("object should be gone, got %v", s3c.objects)
	}

	req = httptest.NewRequest(http.MethodGet,
		"/api/admin/media/extras/"+created["id"]+"?businessId=biz-1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}
