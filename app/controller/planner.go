package controller

import (
	"errors"
	"net/http"

	"github.com/aitp-labs/aitp-server/app/dto"
	"github.com/aitp-labs/aitp-server/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type PlannerController struct {
	plannerService service.PlannerService
}

func NewPlannerController(plannerService service.PlannerService) *PlannerController {
	return &PlannerController{plannerService: plannerService}
}

func (c *PlannerController) Generate(ctx echo.Context) error {
	userID, ok := currentUserID(ctx)
	if !ok {
		return internalError(ctx)
	}

	req := &dto.GenerateItineraryRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind generate itinerary request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.WithField("user_id", userID).Debug("Generate itinerary validation failed")
		return validationError(ctx, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"country": req.Country,
		"days":    req.Days,
	}).Info("Itinerary generation requested")

	days, err := c.plannerService.GenerateItinerary(ctx.Request().Context(), service.PlanRequest{
		Country:     req.Country,
		Days:        req.Days,
		TravelStyle: req.TravelStyle,
		BudgetLevel: req.BudgetLevel,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanGeneration) {
			return ctx.JSON(http.StatusBadGateway, dto.MessageResponse{
				Message: "Failed to generate itinerary. Please try again.",
			})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Itinerary generation failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, dto.GenerateItineraryResponse{Days: days})
}
