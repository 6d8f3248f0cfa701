// Package mirror keeps an opportunistic Redis copy of non-booking entities.
// The mirror is never authoritative: it is written after the database
// acknowledges and read only as a fallback when the database is unreachable.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/glidebook/glidebook/internal/customer"
	"github.com/glidebook/glidebook/internal/pricing"
)

// ErrMiss indicates the mirror has no copy of the requested entity.
var ErrMiss = redis.Nil

// Store mirrors customers and pricing parameters.
type Store struct {
	redis *redis.Client
}

// NewStore creates a mirror store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func customerKey(businessID, id string) string {
	return fmt.Sprintf("mirror:customer:%s:%s", businessID, id)
}

func customerIndexKey(businessID string) string {
	return fmt.Sprintf("mirror:customers:%s", businessID)
}

func parameterKey(businessID, industryID, id string) string {
	return fmt.Sprintf("mirror:pricing:%s:%s:%s", businessID, industryID, id)
}

// PutCustomer stores one customer copy and indexes it for listing.
func (s *Store) PutCustomer(ctx context.Context, c customer.Customer) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("mirror: marshal customer: %w", err)
	}
	if err := s.redis.Set(ctx, customerKey(c.BusinessID, c.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("mirror: put customer: %w", err)
	}
	if err := s.redis.SAdd(ctx, customerIndexKey(c.BusinessID), c.ID).Err(); err != nil {
		return fmt.Errorf("mirror: index customer: %w", err)
	}
	return nil
}

// GetCustomer reads one mirrored customer. Returns ErrMiss when absent.
func (s *Store) GetCustomer(ctx context.Context, businessID, id string) (*customer.Customer, error) {
	data, err := s.redis.Get(ctx, customerKey(businessID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: get customer: %w", err)
	}
	var c customer.Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("mirror: unmarshal customer: %w", err)
	}
	return &c, nil
}

// ListCustomers reads every mirrored customer of a business. Entries whose
// payload has been evicted are skipped.
func (s *Store) ListCustomers(ctx context.Context, businessID string) ([]customer.Customer, error) {
	ids, err := s.redis.SMembers(ctx, customerIndexKey(businessID)).Result()
	if err != nil {
		return nil, fmt.Errorf("mirror: list customers: %w", err)
	}

	out := []customer.Customer{}
	for _, id := range ids {
		c, err := s.GetCustomer(ctx, businessID, id)
		if err == ErrMiss {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// DeleteCustomer removes one mirrored customer.
func (s *Store) DeleteCustomer(ctx context.Context, businessID, id string) error {
	if err := s.redis.Del(ctx, customerKey(businessID, id)).Err(); err != nil {
		return fmt.Errorf("mirror: delete customer: %w", err)
	}
	if err := s.redis.SRem(ctx, customerIndexKey(businessID), id).Err(); err != nil {
		return fmt.Errorf("mirror: unindex customer: %w", err)
	}
	return nil
}

// PutPricingParameter stores one pricing parameter copy.
func (s *Store) PutPricingParameter(ctx context.Context, p pricing.PricingParameter) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("mirror: marshal pricing parameter: %w", err)
	}
	if err := s.redis.Set(ctx, parameterKey(p.BusinessID, p.IndustryID, p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("mirror: put pricing parameter: %w", err)
	}
	return nil
}

// GetPricingParameter reads one mirrored pricing parameter. Returns ErrMiss
// when absent.
func (s *Store) GetPricingParameter(ctx context.Context, businessID, industryID, id string) (*pricing.PricingParameter, error) {
	data, err := s.redis.Get(ctx, parameterKey(businessID, industryID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: get pricing parameter: %w", err)
	}
	var p pricing.PricingParameter
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("mirror: unmarshal pricing parameter: %w", err)
	}
	return &p, nil
}
