package booking

import (
	"strconv"
	"strings"
	"time"
)

// Status is the closed set of booking lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusQuote     Status = "quote"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusDraft, StatusQuote, StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether a status ends the booking lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// legalTransitions is the explicit status transition table. The console
// historically allowed any status to become any other; the table keeps live
// statuses freely interchangeable but guards the terminal ones. The single
// escape hatch is reopening a cancelled booking back to pending.
var legalTransitions = map[Status]map[Status]bool{
	StatusDraft:     {StatusQuote: true, StatusPending: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true},
	StatusQuote:     {StatusDraft: true, StatusPending: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true},
	StatusPending:   {StatusDraft: true, StatusQuote: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true},
	StatusConfirmed: {StatusDraft: true, StatusQuote: true, StatusPending: true, StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {},
	StatusCancelled: {StatusPending: true},
}

// CanTransition reports whether from may legally become to. A no-op
// transition (from == to) is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := legalTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// Booking represents one scheduled or requested service appointment.
// Date carries the calendar day as an ISO yyyy-MM-dd string; no time zone
// conversion is ever applied to it. Time is free text as entered.
type Booking struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	ServiceName   string    `json:"service_name"`
	Address       string    `json:"address,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time,omitempty"`
	Status        Status    `json:"status"`
	Amount        string    `json:"amount,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ProviderID    string    `json:"provider_id,omitempty"`
	ProviderName  string    `json:"assigned_provider,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AmountValue renders the amount as a number, zero when absent or
// non-numeric.
func (b Booking) AmountValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(b.Amount), 64)
	if err != nil {
		return 0
	}
	return v
}

// Unassigned reports whether the booking has neither a provider reference
// nor a denormalized provider name.
func (b Booking) Unassigned() bool {
	return b.ProviderID == "" && b.ProviderName == ""
}

// DateOf formats a wall-clock instant as the ISO day string the rest of the
// package compares against.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
