package dto

import (
	"time"

	"github.com/aitp-labs/aitp-server/app/entity"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// UserView is the sanitized profile shape; the password hash never leaves
// the service layer.
type UserView struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type RegisterResponse struct {
	Message string    `json:"message"`
	User    *UserView `json:"user"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    *UserView `json:"user"`
}

// MeResponse always answers 200; a missing session is User == nil, not an
// error.
type MeResponse struct {
	User *UserView `json:"user"`
}

type ItineraryView struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Country     string                `json:"country"`
	Duration    int                   `json:"duration"`
	TravelStyle string                `json:"travelStyle"`
	BudgetLevel string                `json:"budgetLevel"`
	Days        []entity.ItineraryDay `json:"days"`
	SavedAt     time.Time             `json:"savedAt"`
}

func NewItineraryView(itinerary *entity.Itinerary) *ItineraryView {
	return &ItineraryView{
		ID:          itinerary.ID,
		Name:        itinerary.Name,
		Country:     itinerary.Country,
		Duration:    itinerary.Duration,
		TravelStyle: itinerary.TravelStyle,
		BudgetLevel: itinerary.BudgetLevel,
		Days:        itinerary.Days,
		SavedAt:     itinerary.SavedAt,
	}
}

func NewItineraryViews(itineraries []*entity.Itinerary) []*ItineraryView {
	views := make([]*ItineraryView, 0, len(itineraries))
	for _, itinerary := range itineraries {
		views = append(views, NewItineraryView(itinerary))
	}
	return views
}

type SaveItineraryResponse struct {
	Success   bool           `json:"success"`
	Itinerary *ItineraryView `json:"itinerary"`
}

type GenerateItineraryResponse struct {
	Days []entity.ItineraryDay `json:"days"`
}
