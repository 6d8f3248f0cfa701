package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glidebook/glidebook/internal/provider"
	"github.com/glidebook/glidebook/internal/tenancy"
	"github.com/glidebook/glidebook/pkg/logging"
)

// Handler exposes the booking console endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger

	// now is swappable for deterministic tests.
	now func() time.Time

	calendarMaxVisible int
}

// NewHandler creates a bookings handler.
func NewHandler(service *Service, calendarMaxVisible int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:            service,
		logger:             logger,
		now:                time.Now,
		calendarMaxVisible: calendarMaxVisible,
	}
}

func businessIDFrom(r *http.Request) string {
	if id, ok := tenancy.BusinessIDFromContext(r.Context()); ok {
		return id
	}
	return r.URL.Query().Get("businessId")
}

// ListResponse is the wire shape for a tab listing.
type ListResponse struct {
	Tab      Bucket         `json:"tab"`
	Bookings []Booking      `json:"bookings"`
	Counts   map[Bucket]int `json:"counts"`
}

// List handles GET /api/admin/bookings?businessId=&tab=&q=&status=
// A tab switch is served from the in-memory snapshot; refresh=true forces a
// re-fetch (used when switching businesses).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFrom(r)
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	bucket, ok := ParseBucket(q.Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", http.StatusBadRequest)
		return
	}

	var status Status
	if raw := q.Get("status"); raw != "" {
		parsed, err := ParseStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}

	if q.Get("refresh") == "true" {
		if _, err := h.service.Load(r.Context(), businessID); err != nil {
			h.logger.Error("failed to refresh bookings", "business_id", businessID, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	today := h.now()
	visible, err := h.service.Visible(r.Context(), businessID, bucket, today, q.Get("q"), status)
	if err != nil {
		h.logger.Error("failed to list bookings", "business_id", businessID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	counts, err := h.service.Counts(r.Context(), businessID, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Tab: bucket, Bookings: visible, Counts: counts})
}

// Calendar handles GET /api/admin/bookings/calendar?businessId=&year=&month=
// month is zero-based, matching the console.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFrom(r)
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}

	today := h.now()
	year := today.Year()
	month := int(today.Month()) - 1
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 11 {
			http.Error(w, "invalid month; must be 0-11", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	grid, err := h.service.Calendar(r.Context(), businessID, year, month, today, h.calendarMaxVisible)
	if err != nil {
		h.logger.Error("failed to project calendar", "business_id", businessID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grid)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus handles PATCH /api/admin/bookings/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFrom(r)
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	bookingID := chi.URLParam(r, "bookingID")

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	target, err := ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ChangeStatus(r.Context(), businessID, bookingID, target); err != nil {
		h.writeMutationError(w, businessID, bookingID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "saved"})
}

type assignProviderRequest struct {
	ProviderID string `json:"providerId"`
}

// AssignProvider handles POST /api/admin/bookings/{id}/assign
func (h *Handler) AssignProvider(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFrom(r)
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	bookingID := chi.URLParam(r, "bookingID")

	var req assignProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProviderID == "" {
		http.Error(w, "missing providerId", http.StatusBadRequest)
		return
	}

	updated, err := h.service.AssignProvider(r.Context(), businessID, bookingID, req.ProviderID)
	if err != nil {
		h.writeMutationError(w, businessID, bookingID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// writeMutationError maps service failures onto the console contract: the
// underlying message is always surfaced so the UI can show it in a toast.
func (h *Handler) writeMutationError(w http.ResponseWriter, businessID, bookingID string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, provider.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrMissingBusiness):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrTerminalAssignment):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("booking mutation failed", "business_id", businessID, "booking_id", bookingID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
