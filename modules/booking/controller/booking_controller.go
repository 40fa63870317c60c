package controller

import (
	"weekend-match-api/core/controller"
	"weekend-match-api/core/errors"
	"weekend-match-api/modules/booking/dto"
	"weekend-match-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	controller.BaseController
	BookingService service.BookingService
}

func NewBookingController(svc service.BookingService) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

// CreateBooking handles POST /bookings
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateBookingRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	id, appErr := c.BookingService.CreatePendingBooking(ctx.Request().Context(), userID, eventID, req.Day)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.CreateBookingResponse{BookingID: id.String()}, "Booking created")
}

// GetActiveBooking handles GET /bookings/active
func (c *BookingController) GetActiveBooking(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	booking, appErr := c.BookingService.GetActiveWeekendBooking(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToBookingResponse(booking), "Success")
}
