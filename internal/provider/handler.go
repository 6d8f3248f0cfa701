package provider

import (
	"encoding/json"
	"net/http"

	"github.com/glidebook/glidebook/pkg/logging"
)

// Handler handles HTTP requests for providers
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new providers handler
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the wire shape for the provider listing.
type ListResponse struct {
	Providers []Provider `json:"providers"`
}

// List handles GET /api/admin/providers?businessId=<id>
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}

	providers, err := h.repo.ListByBusiness(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list providers", "error", err, "business_id", businessID)
		http.Error(w, "failed to list providers", http.StatusInternalServerError)
		return
	}

	// The console expects the display name in the name field even when only
	// first/last names are stored.
	for i := range providers {
		providers[i].Name = providers[i].DisplayName()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Providers: providers})
}
