package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pricingDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists pricing configuration. Every record is keyed by
// business_id + industry_id; all reads are scoped to that pair.
type Repository struct {
	db pricingDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("pricing: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for tests.
func NewRepositoryWithDB(db pricingDB) *Repository {
	return &Repository{db: db}
}

// ListParameters returns every pricing parameter in the tenant scope.
func (r *Repository) ListParameters(ctx context.Context, businessID, industryID string) ([]PricingParameter, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, industry_id, name, category, price, duration_minutes,
		       active, service_category_ids, provider_ids, created_at, updated_at
		FROM pricing_parameters
		WHERE business_id = $1 AND industry_id = $2
		ORDER BY category, name`, businessID, industryID)
	if err != nil {
		return nil, fmt.Errorf("pricing: list parameters: %w", err)
	}
	defer rows.Close()

	out := []PricingParameter{}
	for rows.Next() {
		var p PricingParameter
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.IndustryID, &p.Name, &p.Category,
			&p.Price, &p.DurationMinutes, &p.Active, &p.ServiceCategoryIDs, &p.ProviderIDs,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pricing: scan parameter: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertParameter creates or replaces one pricing parameter.
func (r *Repository) UpsertParameter(ctx context.Context, p *PricingParameter) error {
	now := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO pricing_parameters (id, business_id, industry_id, name, category,
		    price, duration_minutes, active, service_category_ids, provider_ids,
		    created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		ON CONFLICT (id) DO UPDATE SET
		    name=EXCLUDED.name, category=EXCLUDED.category, price=EXCLUDED.price,
		    duration_minutes=EXCLUDED.duration_minutes, active=EXCLUDED.active,
		    service_category_ids=EXCLUDED.service_category_ids,
		    provider_ids=EXCLUDED.provider_ids, updated_at=$11`,
		p.ID, p.BusinessID, p.IndustryID, p.Name, p.Category,
		p.Price, p.DurationMinutes, p.Active, p.ServiceCategoryIDs, p.ProviderIDs, now)
	if err != nil {
		return fmt.Errorf("pricing: upsert parameter: %w", err)
	}
	return nil
}

// DeleteParameter removes one pricing parameter from the tenant scope.
func (r *Repository) DeleteParameter(ctx context.Context, businessID, industryID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM pricing_parameters
		WHERE business_id = $1 AND industry_id = $2 AND id = $3`, businessID, industryID, id)
	if err != nil {
		return fmt.Errorf("pricing: delete parameter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExtras returns every extra in the tenant scope.
func (r *Repository) ListExtras(ctx context.Context, businessID, industryID string) ([]Extra, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, industry_id, name, description, price, duration_minutes,
		       image_id, active, frequency_ids, provider_ids, created_at, updated_at
		FROM extras
		WHERE business_id = $1 AND industry_id = $2
		ORDER BY name`, businessID, industryID)
	if err != nil {
		return nil, fmt.Errorf("pricing: list extras: %w", err)
	}
	defer rows.Close()

	out := []Extra{}
	for rows.Next() {
		var e Extra
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.IndustryID, &e.Name, &e.Description,
			&e.Price, &e.DurationMinutes, &e.ImageID, &e.Active, &e.FrequencyIDs,
			&e.ProviderIDs, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pricing: scan extra: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertExtra creates or replaces one extra.
func (r *Repository) UpsertExtra(ctx context.Context, e *Extra) error {
	now := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO extras (id, business_id, industry_id, name, description, price,
		    duration_minutes, image_id, active, frequency_ids, provider_ids,
		    created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
		ON CONFLICT (id) DO UPDATE SET
		    name=EXCLUDED.name, description=EXCLUDED.description, price=EXCLUDED.price,
		    duration_minutes=EXCLUDED.duration_minutes, image_id=EXCLUDED.image_id,
		    active=EXCLUDED.active, frequency_ids=EXCLUDED.frequency_ids,
		    provider_ids=EXCLUDED.provider_ids, updated_at=$12`,
		e.ID, e.BusinessID, e.IndustryID, e.Name, e.Description, e.Price,
		e.DurationMinutes, e.ImageID, e.Active, e.FrequencyIDs, e.ProviderIDs, now)
	if err != nil {
		return fmt.Errorf("pricing: upsert extra: %w", err)
	}
	return nil
}

// ListFrequencies returns every frequency in the tenant scope.
func (r *Repository) ListFrequencies(ctx context.Context, businessID, industryID string) ([]Frequency, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, industry_id, name, discount_percent, repeat_every_days,
		       active, extra_ids, created_at, updated_at
		FROM industry_frequencies
		WHERE business_id = $1 AND industry_id = $2
		ORDER BY repeat_every_days`, businessID, industryID)
	if err != nil {
		return nil, fmt.Errorf("pricing: list frequencies: %w", err)
	}
	defer rows.Close()

	out := []Frequency{}
	for rows.Next() {
		var f Frequency
		if err := rows.Scan(&f.ID, &f.BusinessID, &f.IndustryID, &f.Name, &f.DiscountPercent,
			&f.RepeatEveryDays, &f.Active, &f.ExtraIDs, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pricing: scan frequency: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpsertFrequency creates or replaces one frequency.
func (r *Repository) UpsertFrequency(ctx context.Context, f *Frequency) error {
	now := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO industry_frequencies (id, business_id, industry_id, name,
		    discount_percent, repeat_every_days, active, extra_ids, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		ON CONFLICT (id) DO UPDATE SET
		    name=EXCLUDED.name, discount_percent=EXCLUDED.discount_percent,
		    repeat_every_days=EXCLUDED.repeat_every_days, active=EXCLUDED.active,
		    extra_ids=EXCLUDED.extra_ids, updated_at=$9`,
		f.ID, f.BusinessID, f.IndustryID, f.Name,
		f.DiscountPercent, f.RepeatEveryDays, f.Active, f.ExtraIDs, now)
	if err != nil {
		return fmt.Errorf("pricing: upsert frequency: %w", err)
	}
	return nil
}

// ListLocations returns every location in the tenant scope. Spots travel as a
// jsonb column.
func (r *Repository) ListLocations(ctx context.Context, businessID, industryID string) ([]Location, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, industry_id, name, address, image_id, active,
		       zip_codes, spots, provider_ids, created_at, updated_at
		FROM locations
		WHERE business_id = $1 AND industry_id = $2
		ORDER BY name`, businessID, industryID)
	if err != nil {
		return nil, fmt.Errorf("pricing: list locations: %w", err)
	}
	defer rows.Close()

	out := []Location{}
	for rows.Next() {
		var l Location
		var spots []byte
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.IndustryID, &l.Name, &l.Address,
			&l.ImageID, &l.Active, &l.ZipCodes, &spots, &l.ProviderIDs,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pricing: scan location: %w", err)
		}
		if len(spots) > 0 {
			if err := json.Unmarshal(spots, &l.Spots); err != nil {
				return nil, fmt.Errorf("pricing: decode spots: %w", err)
			}
		}
		if l.Spots == nil {
			l.Spots = []Spot{}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpsertLocation creates or replaces one location.
func (r *Repository) UpsertLocation(ctx context.Context, l *Location) error {
	spots, err := json.Marshal(l.Spots)
	if err != nil {
		return fmt.Errorf("pricing: encode spots: %w", err)
	}
	now := time.Now()
	_, err = r.db.Exec(ctx, `
		INSERT INTO locations (id, business_id, industry_id, name, address, image_id,
		    active, zip_codes, spots, provider_ids, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		ON CONFLICT (id) DO UPDATE SET
		    name=EXCLUDED.name, address=EXCLUDED.address, image_id=EXCLUDED.image_id,
		    active=EXCLUDED.active, zip_codes=EXCLUDED.zip_codes, spots=EXCLUDED.spots,
		    provider_ids=EXCLUDED.provider_ids, updated_at=$11`,
		l.ID, l.BusinessID, l.IndustryID, l.Name, l.Address, l.ImageID,
		l.Active, l.ZipCodes, spots, l.ProviderIDs, now)
	if err != nil {
		return fmt.Errorf("pricing: upsert location: %w", err)
	}
	return nil
}

// UpdateLocationZips writes just the resolved zip list for one location.
func (r *Repository) UpdateLocationZips(ctx context.Context, businessID, industryID, id string, zips []string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE locations SET zip_codes = $1, updated_at = $2
		WHERE business_id = $3 AND industry_id = $4 AND id = $5`,
		zips, time.Now(), businessID, industryID, id)
	if err != nil {
		return fmt.Errorf("pricing: update location zips: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
