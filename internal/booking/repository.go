package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type bookingDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for bookings. This core never deletes a
// booking; rows are created by the customer-facing booking flow and only
// mutated here.
type Repository struct {
	db bookingDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for tests.
func NewRepositoryWithDB(db bookingDB) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `id, business_id, customer_name, customer_email, customer_phone,
	       service_name, address, date, time, status, amount, payment_method,
	       notes, provider_id, assigned_provider, created_at, updated_at`

// ListByBusiness returns every booking for a business ordered by date
// descending, newest created first within a day.
func (r *Repository) ListByBusiness(ctx context.Context, businessID string) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE business_id = $1
		ORDER BY date DESC, created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("booking: list: %w", err)
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.BusinessID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.ServiceName, &b.Address, &b.Date, &b.Time, &b.Status, &b.Amount, &b.PaymentMethod,
			&b.Notes, &b.ProviderID, &b.ProviderName, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus writes the status column for one booking.
func (r *Repository) UpdateStatus(ctx context.Context, businessID, bookingID string, status Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE business_id = $2 AND id = $3`, status, businessID, bookingID)
	if err != nil {
		return fmt.Errorf("booking: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignProvider writes provider id, denormalized display name, and the
// confirmed status in one update.
func (r *Repository) AssignProvider(ctx context.Context, businessID, bookingID, providerID, displayName string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET provider_id = $1, assigned_provider = $2, status = $3, updated_at = now()
		WHERE business_id = $4 AND id = $5`,
		providerID, displayName, StatusConfirmed, businessID, bookingID)
	if err != nil {
		return fmt.Errorf("booking: assign provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
