package customer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glidebook/glidebook/pkg/logging"
)

// Mirror is the opportunistic secondary store. Writes go through after the
// database acknowledges; a mirror failure is logged, never surfaced.
type Mirror interface {
	PutCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, businessID, id string) error
}

// Handler handles HTTP requests for customers.
type Handler struct {
	repo   *Repository
	mirror Mirror
	logger *logging.Logger
}

// NewHandler creates a new customers handler. mirror may be nil.
func NewHandler(repo *Repository, mirror Mirror, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, mirror: mirror, logger: logger}
}

// List handles GET /api/admin/customers?businessId=<id>
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}

	customers, err := h.repo.List(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list customers", "business_id", businessID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"lastUpdated": time.Now().UTC(),
		"customers":   customers,
	})
}

// Get handles GET /api/admin/customers/{customerID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "customerID")

	c, err := h.repo.Get(r.Context(), businessID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Create handles POST /api/admin/customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}

	var c Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if c.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.BusinessID = businessID
	if c.Status == "" {
		c.Status = "active"
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}

	if err := h.repo.Upsert(r.Context(), &c); err != nil {
		h.logger.Error("failed to save customer", "business_id", businessID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.mirrorPut(r.Context(), c)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

type updateFlagsRequest struct {
	Status  *string `json:"status"`
	Blocked *bool   `json:"blocked"`
}

// Update handles PUT /api/admin/customers/{customerID}
// Only status and the block flag are written; anything else in the body is
// ignored.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "customerID")

	var req updateFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status == nil && req.Blocked == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	current, err := h.repo.Get(r.Context(), businessID, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if current == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	status := current.Status
	if req.Status != nil {
		status = *req.Status
	}
	blocked := current.Blocked
	if req.Blocked != nil {
		blocked = *req.Blocked
	}

	if err := h.repo.UpdateFlags(r.Context(), businessID, id, status, blocked); err != nil {
		if err == ErrNotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update customer", "business_id", businessID, "customer_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	current.Status = status
	current.Blocked = blocked
	h.mirrorPut(r.Context(), *current)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "saved"})
}

// Delete handles DELETE /api/admin/customers/{customerID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "customerID")

	if err := h.repo.Delete(r.Context(), businessID, id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.mirror != nil {
		if err := h.mirror.DeleteCustomer(r.Context(), businessID, id); err != nil {
			h.logger.Warn("customer mirror delete failed", "customer_id", id, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

func (h *Handler) mirrorPut(ctx context.Context, c Customer) {
	if h.mirror == nil {
		return
	}
	if err := h.mirror.PutCustomer(ctx, c); err != nil {
		h.logger.Warn("customer mirror write failed", "customer_id", c.ID, "error", err)
	}
}
