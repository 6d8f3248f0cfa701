package provider

import "strings"

// Provider is a staff member eligible for assignment to bookings.
type Provider struct {
	ID         string `json:"id"`
	BusinessID string `json:"-"`
	Name       string `json:"name"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// DisplayName prefers the explicit name, falling back to "First Last".
func (p Provider) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
