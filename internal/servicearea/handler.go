package servicearea

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glidebook/glidebook/internal/pricing"
	"github.com/glidebook/glidebook/pkg/logging"
)

// Resolver turns a drawn shape into zip codes.
type Resolver interface {
	Resolve(ctx context.Context, shape Shape) ([]string, error)
}

// LocationStore persists the resolved zip list onto a location.
type LocationStore interface {
	UpdateLocationZips(ctx context.Context, businessID, industryID, id string, zips []string) error
}

// Handler handles service-area requests.
type Handler struct {
	resolver Resolver
	store    LocationStore
	logger   *logging.Logger
}

// NewHandler creates a service-area handler.
func NewHandler(resolver Resolver, store LocationStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{resolver: resolver, store: store, logger: logger}
}

type resolveAreaRequest struct {
	Shape Shape `json:"shape"`
}

type resolveAreaResponse struct {
	ZipCodes []string `json:"zipCodes"`
}

// Resolve handles POST /api/service-areas/{locationID}/resolve
// The shape is resolved remotely first; the zip list is stored on the
// location only after the geocoder answers.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	industryID := r.URL.Query().Get("industryId")
	if businessID == "" || industryID == "" {
		http.Error(w, "missing businessId or industryId", http.StatusBadRequest)
		return
	}
	locationID := chi.URLParam(r, "locationID")

	var req resolveAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Shape.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	zips, err := h.resolver.Resolve(r.Context(), req.Shape)
	if err != nil {
		h.logger.Error("service area resolve failed", "location_id", locationID, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := h.store.UpdateLocationZips(r.Context(), businessID, industryID, locationID, zips); err != nil {
		if errors.Is(err, pricing.ErrNotFound) {
			http.Error(w, "location not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to store service area", "location_id", locationID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolveAreaResponse{ZipCodes: zips})
}
