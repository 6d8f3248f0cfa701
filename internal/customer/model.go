package customer

import "time"

// Customer is a person who has booked or registered with a business.
type Customer struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	Blocked    bool      `json:"blocked"`
	Tags       []string  `json:"tags"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
