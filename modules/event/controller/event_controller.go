package controller

import (
	"net/http"

	"weekend-match-api/core/controller"
	"weekend-match-api/core/errors"
	"weekend-match-api/modules/event/dto"
	"weekend-match-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// EventController handles slot HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// EnsureEvent handles POST /events/ensure
func (c *EventController) EnsureEvent(ctx echo.Context) error {
	if _, err := c.CurrentUserID(ctx); err != nil {
		return err
	}

	var req dto.EnsureSlotRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	id, appErr := c.EventService.EnsureSlot(ctx.Request().Context(), req.City, req.Day)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.JSON(http.StatusOK, dto.EnsureSlotResponse{EventID: id.String()})
}

// GetWeekendEvents handles GET /events/weekend?city=
func (c *EventController) GetWeekendEvents(ctx echo.Context) error {
	city := ctx.QueryParam("city")
	if city == "" {
		return c.BadRequest(errors.ErrInvalidInput, "city query parameter is required")
	}

	result, appErr := c.EventService.GetWeekendEvents(ctx.Request().Context(), city)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
