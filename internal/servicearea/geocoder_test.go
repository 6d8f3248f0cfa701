package servicearea

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glidebook/glidebook/pkg/logging"
)

func polygon() Shape {
	return Shape{Type: "polygon", Points: []Point{
		{Lat: 33.74, Lng: -84.39},
		{Lat: 33.76, Lng: -84.39},
		{Lat: 33.75, Lng: -84.37},
	}}
}

func TestGeocoderResolve(t *testing.T) {
	var gotAuth string
	var gotBody resolveRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/resolve" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(resolveResponse{ZipCodes: []string{"30303", "30305"}})
	}))
	defer server.Close()

	g, err := NewGeocoder(GeocoderConfig{BaseURL: server.URL, APIKey: "test-key", Logger: logging.New("error")})
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}

	zips, err := g.Resolve(context.Background(), polygon())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(zips) != 2 || zips[0] != "30303" {
		t.Errorf("zips = %v", zips)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if len(gotBody.Shape.Points) != 3 {
		t.Errorf("posted shape = %+v", gotBody.Shape)
	}
}

func TestGeocoderResolveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boundary too large", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	g, err := NewGeocoder(GeocoderConfig{BaseURL: server.URL, Logger: logging.New("error")})
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}

	_, err = g.Resolve(context.Background(), polygon())
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestShapeValidation(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		ok    bool
	}{
		{"valid polygon", polygon(), true},
		{"degenerate polygon", Shape{Type: "polygon", Points: []Point{{Lat: 1, Lng: 1}}}, false},
		{"valid circle", Shape{Type: "circle", Points: []Point{{Lat: 33.74, Lng: -84.39}}, RadiusMeters: 5000}, true},
		{"circle without radius", Shape{Type: "circle", Points: []Point{{Lat: 33.74, Lng: -84.39}}}, false},
		{"unknown type", Shape{Type: "line", Points: []Point{{}, {}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewGeocoderRequiresBaseURL(t *testing.T) {
	if _, err := NewGeocoder(GeocoderConfig{}); err == nil {
		t.Fatal("expected an error without a base URL")
	}
}
