package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type providerDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for providers.
type Repository struct {
	db providerDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("provider: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for tests.
func NewRepositoryWithDB(db providerDB) *Repository {
	return &Repository{db: db}
}

const providerColumns = `id, business_id, name, first_name, last_name, email, phone`

// ListByBusiness returns every provider for a business, ordered by name.
func (r *Repository) ListByBusiness(ctx context.Context, businessID string) ([]Provider, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+providerColumns+`
		FROM providers WHERE business_id = $1
		ORDER BY name, first_name, last_name`, businessID)
	if err != nil {
		return nil, fmt.Errorf("provider: list: %w", err)
	}
	defer rows.Close()

	out := []Provider{}
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.FirstName, &p.LastName, &p.Email, &p.Phone); err != nil {
			return nil, fmt.Errorf("provider: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID returns one provider scoped to the business.
func (r *Repository) GetByID(ctx context.Context, businessID, providerID string) (*Provider, error) {
	var p Provider
	err := r.db.QueryRow(ctx, `
		SELECT `+providerColumns+`
		FROM providers WHERE business_id = $1 AND id = $2`, businessID, providerID).
		Scan(&p.ID, &p.BusinessID, &p.Name, &p.FirstName, &p.LastName, &p.Email, &p.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("provider: get: %w", err)
	}
	return &p, nil
}
