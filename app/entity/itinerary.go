package entity

import "time"

// Itinerary is a saved day-by-day travel plan owned by one user.
// Days are stored as a single JSON column; the structure mirrors what the
// planner generates.
type Itinerary struct {
	ID          string
	UserID      string
	Name        string
	Country     string
	Duration    int
	TravelStyle string
	BudgetLevel string
	Days        []ItineraryDay
	SavedAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ItineraryDay struct {
	Day        int        `json:"day"`
	City       string     `json:"city"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	Time              string  `json:"time"`
	EstimatedCost     float64 `json:"estimatedCost"`
	TravelTimeMinutes int     `json:"travelTimeMinutes"`
}
