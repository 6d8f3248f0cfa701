// Package tenancy propagates the tenant scope (business, and optionally the
// industry vertical within it) through request contexts.
package tenancy

import "context"

type ctxKey string

const (
	businessKey ctxKey = "glidebook.business_id"
	industryKey ctxKey = "glidebook.industry_id"
)

// WithBusinessID stores the business id in context.
func WithBusinessID(ctx context.Context, businessID string) context.Context {
	return context.WithValue(ctx, businessKey, businessID)
}

// BusinessIDFromContext extracts the business id if present.
func BusinessIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(businessKey)
	if val == nil {
		return "", false
	}
	businessID, ok := val.(string)
	return businessID, ok && businessID != ""
}

// WithIndustryID stores the industry id in context.
func WithIndustryID(ctx context.Context, industryID string) context.Context {
	return context.WithValue(ctx, industryKey, industryID)
}

// IndustryIDFromContext extracts the industry id if present.
func IndustryIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(industryKey)
	if val == nil {
		return "", false
	}
	industryID, ok := val.(string)
	return industryID, ok && industryID != ""
}
