package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aitp-labs/aitp-server/app/cache"
	"github.com/aitp-labs/aitp-server/app/entity"

	"github.com/sirupsen/logrus"
)

var ErrPlanGeneration = errors.New("itinerary generation failed")

const planCacheTTL = 24 * time.Hour

type generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// PlanRequest describes the trip to generate.
type PlanRequest struct {
	Country     string
	Days        int
	TravelStyle string
	BudgetLevel string
}

type PlannerService interface {
	GenerateItinerary(ctx context.Context, req PlanRequest) ([]entity.ItineraryDay, error)
}

type plannerService struct {
	ai    generator
	cache *cache.Client
}

func NewPlannerService(ai generator, planCache *cache.Client) PlannerService {
	return &plannerService{ai: ai, cache: planCache}
}

func (s *plannerService) GenerateItinerary(ctx context.Context, req PlanRequest) ([]entity.ItineraryDay, error) {
	key := planCacheKey(req)

	if cached, _ := s.cache.Get(ctx, key); cached != nil {
		var days []entity.ItineraryDay
		if err := json.Unmarshal(cached, &days); err == nil {
			logrus.WithField("country", req.Country).Debug("Itinerary served from cache")
			return days, nil
		}
	}

	answer, err := s.ai.GenerateJSON(ctx, itineraryPrompt(req))
	if err != nil {
		logrus.WithError(err).WithField("country", req.Country).Error("Model call failed")
		return nil, ErrPlanGeneration
	}

	var plan struct {
		Days []entity.ItineraryDay `json:"days"`
	}
	if err := json.Unmarshal([]byte(answer), &plan); err != nil {
		logrus.WithError(err).Error("Model returned malformed itinerary JSON")
		return nil, ErrPlanGeneration
	}
	if len(plan.Days) == 0 {
		return nil, ErrPlanGeneration
	}

	if encoded, err := json.Marshal(plan.Days); err == nil {
		_ = s.cache.Set(ctx, key, encoded, planCacheTTL)
	}

	return plan.Days, nil
}

func planCacheKey(req PlanRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%s",
		strings.ToLower(req.Country), req.Days,
		strings.ToLower(req.TravelStyle), strings.ToLower(req.BudgetLevel))))
	return "itinerary:" + hex.EncodeToString(sum[:])
}

func itineraryPrompt(req PlanRequest) string {
	return fmt.Sprintf(`
You are an expert travel planner. Generate a detailed day-by-day itinerary for:
- Country: %s
- Duration: %d days
- Travel style: %s
- Budget level: %s

Rules:
1. Respond ONLY with valid JSON. No explanations.
2. Every day must include 2-4 activities.
3. Each activity must include:
   - name
   - description
   - lat (latitude)
   - lng (longitude)
   - time (start time)
   - estimatedCost
   - travelTimeMinutes (travel time between previous activity)
4. Optimize routes logically (no jumping places).
5. Use budgetLevel to choose expensive / cheap places.

Return format:
{
  "days": [...]
}
`, req.Country, req.Days, req.TravelStyle, req.BudgetLevel)
}
