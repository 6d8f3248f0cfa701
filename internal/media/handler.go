package media

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glidebook/glidebook/pkg/logging"
)

// Handler serves image upload and retrieval for locations and extras.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a media handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Upload handles POST /api/admin/media/{kind}?businessId=<id>
// The request body is the image itself; Content-Type names the format.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	kind := chi.URLParam(r, "kind")

	id, err := h.store.Put(r.Context(), businessID, kind, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		h.logger.Error("media upload failed", "business_id", businessID, "kind", kind, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// Serve handles GET /api/admin/media/{kind}/{mediaID}?businessId=<id>
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "mediaID")

	obj, err := h.store.Get(r.Context(), businessID, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.Error("media fetch failed", "key", objectKey(businessID, kind, id), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	io.Copy(w, obj.Body)
}

// Delete handles DELETE /api/admin/media/{kind}/{mediaID}?businessId=<id>
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, "missing businessId", http.StatusBadRequest)
		return
	}
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "mediaID")

	if err := h.store.Delete(r.Context(), businessID, kind, id); err != nil {
		h.logger.Error("media delete failed", "key", objectKey(businessID, kind, id), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}
