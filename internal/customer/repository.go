package customer

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const customerColumns = `id, business_id, name, email, phone, address,
	       status, blocked, tags, notes, created_at, updated_at`

// Repository provides persistence for customers.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new customer repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns every customer of a business, most recently updated first.
func (r *Repository) List(ctx context.Context, businessID string) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers WHERE business_id = $1 ORDER BY updated_at DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.Status, &c.Blocked, pq.Array(&c.Tags), &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		out = append(out, c)
	}
	if out == nil {
		out = []Customer{}
	}
	return out, rows.Err()
}

// Get returns one customer scoped to the business, nil when absent.
func (r *Repository) Get(ctx context.Context, businessID, id string) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers WHERE business_id = $1 AND id = $2`, businessID, id).Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.Status, &c.Blocked, pq.Array(&c.Tags), &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

// Upsert creates or replaces a customer record.
func (r *Repository) Upsert(ctx context.Context, c *Customer) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, business_id, name, email, phone, address,
		    status, blocked, tags, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		ON CONFLICT (id) DO UPDATE SET
		    name=EXCLUDED.name, email=EXCLUDED.email, phone=EXCLUDED.phone,
		    address=EXCLUDED.address, status=EXCLUDED.status, blocked=EXCLUDED.blocked,
		    tags=EXCLUDED.tags, notes=EXCLUDED.notes, updated_at=$11`,
		c.ID, c.BusinessID, c.Name, c.Email, c.Phone, c.Address,
		c.Status, c.Blocked, pq.Array(c.Tags), c.Notes, now)
	return err
}

// UpdateFlags writes just the status and block flag for one customer.
func (r *Repository) UpdateFlags(ctx context.Context, businessID, id, status string, blocked bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET status = $1, blocked = $2, updated_at = $3
		WHERE business_id = $4 AND id = $5`,
		status, blocked, time.Now(), businessID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a customer.
func (r *Repository) Delete(ctx context.Context, businessID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE business_id = $1 AND id = $2`, businessID, id)
	return err
}
