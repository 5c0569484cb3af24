package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/aitp-labs/aitp-server/app/entity"
)

type ItineraryRepository struct {
	db querier
}

func NewItineraryRepository(db querier) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) Create(ctx context.Context, itinerary *entity.Itinerary) error {
	days, err := json.Marshal(itinerary.Days)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO itineraries (id, user_id, name, country, duration, travel_style, budget_level, days, saved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		itinerary.ID,
		itinerary.UserID,
		itinerary.Name,
		itinerary.Country,
		itinerary.Duration,
		itinerary.TravelStyle,
		itinerary.BudgetLevel,
		days,
		itinerary.SavedAt,
		itinerary.CreatedAt,
		itinerary.UpdatedAt,
	)
	return err
}

// ListByUser returns the user's itineraries, most recently saved first.
func (r *ItineraryRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Itinerary, error) {
	query := `
		SELECT id, user_id, name, country, duration, travel_style, budget_level, days, saved_at, created_at, updated_at
		FROM itineraries WHERE user_id = ? ORDER BY saved_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itineraries := []*entity.Itinerary{}
	for rows.Next() {
		itinerary, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, rows.Err()
}

func (r *ItineraryRepository) FindByID(ctx context.Context, id string) (*entity.Itinerary, error) {
	query := `
		SELECT id, user_id, name, country, duration, travel_style, budget_level, days, saved_at, created_at, updated_at
		FROM itineraries WHERE id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanItinerary(rows)
}

// Delete removes an itinerary only if it belongs to the given user and
// reports whether a row was deleted.
func (r *ItineraryRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := `DELETE FROM itineraries WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanItinerary(rows *sql.Rows) (*entity.Itinerary, error) {
	itinerary := &entity.Itinerary{}
	var days []byte
	err := rows.Scan(
		&itinerary.ID,
		&itinerary.UserID,
		&itinerary.Name,
		&itinerary.Country,
		&itinerary.Duration,
		&itinerary.TravelStyle,
		&itinerary.BudgetLevel,
		&days,
		&itinerary.SavedAt,
		&itinerary.CreatedAt,
		&itinerary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &itinerary.Days); err != nil {
			return nil, err
		}
	}
	return itinerary, nil
}
