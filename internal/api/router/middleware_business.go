package router

import (
	"net/http"
	"strings"

	"github.com/glidebook/glidebook/internal/tenancy"
)

const (
	businessHeader = "X-Business-Id"
	industryHeader = "X-Industry-Id"
)

// requireBusinessID enforces business scope for tenant API requests. The
// scope comes from the X-Business-Id header, falling back to the businessId
// query parameter the console sends.
func requireBusinessID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		businessID := strings.TrimSpace(r.Header.Get(businessHeader))
		if businessID == "" {
			businessID = strings.TrimSpace(r.URL.Query().Get("businessId"))
		}
		if businessID == "" {
			http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithBusinessID(r.Context(), businessID)
		if industryID := strings.TrimSpace(r.Header.Get(industryHeader)); industryID != "" {
			ctx = tenancy.WithIndustryID(ctx, industryID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
