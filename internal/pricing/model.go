package pricing

import "time"

// PricingParameter is one configurable pricing variable for an industry,
// for example square footage or bedroom count.
type PricingParameter struct {
	ID                 string    `json:"id"`
	BusinessID         string    `json:"businessId"`
	IndustryID         string    `json:"industryId"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Price              float64   `json:"price"`
	DurationMinutes    int       `json:"durationMinutes"`
	Active             bool      `json:"active"`
	ServiceCategoryIDs []string  `json:"serviceCategoryIds"`
	ProviderIDs        []string  `json:"providerIds"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Extra is an add-on service offered alongside a base booking.
type Extra struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"businessId"`
	IndustryID      string    `json:"industryId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	ImageID         string    `json:"imageId"`
	Active          bool      `json:"active"`
	FrequencyIDs    []string  `json:"frequencyIds"`
	ProviderIDs     []string  `json:"providerIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Frequency is a recurrence option with its discount.
type Frequency struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"businessId"`
	IndustryID      string    `json:"industryId"`
	Name            string    `json:"name"`
	DiscountPercent float64   `json:"discountPercent"`
	RepeatEveryDays int       `json:"repeatEveryDays"`
	Active          bool      `json:"active"`
	ExtraIDs        []string  `json:"extraIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Spot is a bookable time offering at a location, either an exact time or
// an arrival window.
type Spot struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Capacity int    `json:"capacity"`
}

// Location is a service location with its bookable spots.
type Location struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	IndustryID  string    `json:"industryId"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	ImageID     string    `json:"imageId"`
	Active      bool      `json:"active"`
	ZipCodes    []string  `json:"zipCodes"`
	Spots       []Spot    `json:"spots"`
	ProviderIDs []string  `json:"providerIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
