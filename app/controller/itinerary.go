package controller

import (
	"errors"
	"net/http"

	"github.com/aitp-labs/aitp-server/app/dto"
	"github.com/aitp-labs/aitp-server/app/middleware"
	"github.com/aitp-labs/aitp-server/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ItineraryController struct {
	itineraryService service.ItineraryService
}

func NewItineraryController(itineraryService service.ItineraryService) *ItineraryController {
	return &ItineraryController{itineraryService: itineraryService}
}

// currentUserID reads the identity the route guard stored on the context.
// Guarded routes always have it; an empty value means the route was wired
// without the guard, which is a server bug and reported as such.
func currentUserID(ctx echo.Context) (string, bool) {
	userID, _ := ctx.Get(middleware.ContextUserID).(string)
	return userID, userID != ""
}

func (c *ItineraryController) List(ctx echo.Context) error {
	userID, ok := currentUserID(ctx)
	if !ok {
		return internalError(ctx)
	}

	itineraries, err := c.itineraryService.List(ctx.Request().Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list itineraries")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, dto.NewItineraryViews(itineraries))
}

func (c *ItineraryController) Save(ctx echo.Context) error {
	userID, ok := currentUserID(ctx)
	if !ok {
		return internalError(ctx)
	}

	req := &dto.SaveItineraryRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind save itinerary request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.WithField("user_id", userID).Debug("Save itinerary validation failed")
		return validationError(ctx, err)
	}

	itinerary, err := c.itineraryService.Save(ctx.Request().Context(), userID, service.SaveItineraryInput{
		Name:        req.Name,
		Country:     req.Country,
		Duration:    req.Duration,
		TravelStyle: req.TravelStyle,
		BudgetLevel: req.BudgetLevel,
		Days:        req.Days,
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to save itinerary")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      userID,
		"itinerary_id": itinerary.ID,
	}).Info("Itinerary saved")

	return ctx.JSON(http.StatusCreated, dto.SaveItineraryResponse{
		Success:   true,
		Itinerary: dto.NewItineraryView(itinerary),
	})
}

func (c *ItineraryController) Delete(ctx echo.Context) error {
	userID, ok := currentUserID(ctx)
	if !ok {
		return internalError(ctx)
	}

	id := ctx.Param("id")
	if id == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "itinerary id is required"})
	}

	err := c.itineraryService.Delete(ctx.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrItineraryNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Itinerary not found."})
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":      userID,
			"itinerary_id": id,
		}).Error("Failed to delete itinerary")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      userID,
		"itinerary_id": id,
	}).Info("Itinerary deleted")

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Itinerary deleted."})
}
