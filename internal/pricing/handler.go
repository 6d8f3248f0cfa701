package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glidebook/glidebook/internal/tenancy"
	"github.com/glidebook/glidebook/pkg/logging"
)

// Mirror is the opportunistic secondary store for pricing parameters.
type Mirror interface {
	PutPricingParameter(ctx context.Context, p PricingParameter) error
}

// Handler serves the pricing configuration endpoints. The four resources
// share one create-or-update contract keyed by business + industry scope.
type Handler struct {
	repo   *Repository
	mirror Mirror
	logger *logging.Logger
}

// NewHandler creates a pricing handler. mirror may be nil.
func NewHandler(repo *Repository, mirror Mirror, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, mirror: mirror, logger: logger}
}

type scope struct {
	businessID string
	industryID string
}

func scopeFrom(r *http.Request) (scope, bool) {
	s := scope{
		businessID: r.URL.Query().Get("businessId"),
		industryID: r.URL.Query().Get("industryId"),
	}
	if s.businessID == "" {
		if id, ok := tenancy.BusinessIDFromContext(r.Context()); ok {
			s.businessID = id
		}
	}
	if s.industryID == "" {
		if id, ok := tenancy.IndustryIDFromContext(r.Context()); ok {
			s.industryID = id
		}
	}
	return s, s.businessID != "" && s.industryID != ""
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrMissingScope):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("pricing request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListParameters handles GET /api/pricing-parameters?businessId=&industryId=
func (h *Handler) ListParameters(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}
	params, err := h.repo.ListParameters(r.Context(), s.businessID, s.industryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pricingParameters": params})
}

// SaveParameter handles POST /api/pricing-parameters and
// PUT /api/pricing-parameters/{id}. Validation, including the duplicate-name
// scan over the stored siblings, runs before any write.
func (h *Handler) SaveParameter(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}

	var p PricingParameter
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "parameterID"); id != "" {
		p.ID = id
	}
	created := p.ID == ""
	if created {
		p.ID = uuid.NewString()
	}
	p.BusinessID = s.businessID
	p.IndustryID = s.industryID
	if p.ServiceCategoryIDs == nil {
		p.ServiceCategoryIDs = []string{}
	}
	if p.ProviderIDs == nil {
		p.ProviderIDs = []string{}
	}

	siblings, err := h.repo.ListParameters(r.Context(), s.businessID, s.industryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := ValidateParameter(p, siblings); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.repo.UpsertParameter(r.Context(), &p); err != nil {
		h.writeError(w, err)
		return
	}
	if h.mirror != nil {
		if err := h.mirror.PutPricingParameter(r.Context(), p); err != nil {
			h.logger.Warn("pricing mirror write failed", "parameter_id", p.ID, "error", err)
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, p)
}

// DeleteParameter handles DELETE /api/pricing-parameters/{id}
func (h *Handler) DeleteParameter(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}
	id := chi.URLParam(r, "parameterID")
	if err := h.repo.DeleteParameter(r.Context(), s.businessID, s.industryID, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListExtras handles GET /api/extras?businessId=&industryId=
func (h *Handler) ListExtras(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}
	extras, err := h.repo.ListExtras(r.Context(), s.businessID, s.industryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"extras": extras})
}

// SaveExtra handles POST /api/extras and PUT /api/extras/{id}
func (h *Handler) SaveExtra(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}

	var e Extra
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "extraID"); id != "" {
		e.ID = id
	}
	created := e.ID == ""
	if created {
		e.ID = uuid.NewString()
	}
	e.BusinessID = s.businessID
	e.IndustryID = s.industryID
	if e.FrequencyIDs == nil {
		e.FrequencyIDs = []string{}
	}
	if e.ProviderIDs == nil {
		e.ProviderIDs = []string{}
	}

	if err := ValidateExtra(e); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.repo.UpsertExtra(r.Context(), &e); err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, e)
}

// ListFrequencies handles GET /api/industry-frequency?businessId=&industryId=
func (h *Handler) ListFrequencies(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}
	freqs, err := h.repo.ListFrequencies(r.Context(), s.businessID, s.industryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"frequencies": freqs})
}

// SaveFrequency handles POST /api/industry-frequency and
// PUT /api/industry-frequency/{id}
func (h *Handler) SaveFrequency(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}

	var f Frequency
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "frequencyID"); id != "" {
		f.ID = id
	}
	created := f.ID == ""
	if created {
		f.ID = uuid.NewString()
	}
	f.BusinessID = s.businessID
	f.IndustryID = s.industryID
	if f.ExtraIDs == nil {
		f.ExtraIDs = []string{}
	}

	if err := ValidateFrequency(f); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.repo.UpsertFrequency(r.Context(), &f); err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, f)
}

// ListLocations handles GET /api/locations?businessId=&industryId=
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}
	locations, err := h.repo.ListLocations(r.Context(), s.businessID, s.industryID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

// SaveLocation handles POST /api/locations and PUT /api/locations/{id}
func (h *Handler) SaveLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := scopeFrom(r)
	if !ok {
		h.writeError(w, ErrMissingScope)
		return
	}

	var l Location
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "locationID"); id != "" {
		l.ID = id
	}
	created := l.ID == ""
	if created {
		l.ID = uuid.NewString()
	}
	l.BusinessID = s.businessID
	l.IndustryID = s.industryID
	if l.ZipCodes == nil {
		l.ZipCodes = []string{}
	}
	if l.Spots == nil {
		l.Spots = []Spot{}
	}
	if l.ProviderIDs == nil {
		l.ProviderIDs = []string{}
	}

	if err := ValidateLocation(l); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.repo.UpsertLocation(r.Context(), &l); err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, l)
}
