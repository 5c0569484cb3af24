package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aitp-labs/aitp-server/app/entity"

	"github.com/google/uuid"
)

var ErrItineraryNotFound = errors.New("itinerary not found")

type itineraryRepository interface {
	Create(ctx context.Context, itinerary *entity.Itinerary) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Itinerary, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// SaveItineraryInput is a generated plan the user chose to keep.
type SaveItineraryInput struct {
	Name        string
	Country     string
	Duration    int
	TravelStyle string
	BudgetLevel string
	Days        []entity.ItineraryDay
}

type ItineraryService interface {
	List(ctx context.Context, userID string) ([]*entity.Itinerary, error)
	Save(ctx context.Context, userID string, input SaveItineraryInput) (*entity.Itinerary, error)
	Delete(ctx context.Context, id, userID string) error
}

type itineraryService struct {
	repo itineraryRepository
	now  func() time.Time
}

func NewItineraryService(repo itineraryRepository) ItineraryService {
	return &itineraryService{repo: repo, now: time.Now}
}

func (s *itineraryService) List(ctx context.Context, userID string) ([]*entity.Itinerary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *itineraryService) Save(ctx context.Context, userID string, input SaveItineraryInput) (*entity.Itinerary, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("%s - %d days", input.Country, input.Duration)
	}

	now := s.now()
	itinerary := &entity.Itinerary{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Country:     input.Country,
		Duration:    input.Duration,
		TravelStyle: input.TravelStyle,
		BudgetLevel: input.BudgetLevel,
		Days:        input.Days,
		SavedAt:     now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, itinerary); err != nil {
		return nil, err
	}
	return itinerary, nil
}

func (s *itineraryService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItineraryNotFound
	}
	return nil
}
