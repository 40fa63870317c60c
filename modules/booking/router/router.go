package router

import (
	"weekend-match-api/core/middleware"
	"weekend-match-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	Controller *controller.BookingController
}

func NewBookingRouter(ctrl *controller.BookingController) *BookingRouter {
	return &BookingRouter{Controller: ctrl}
}

func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	bookings := e.Group("/api/v1/bookings", mw.AuthMiddleware())
	bookings.POST("", r.Controller.CreateBooking)
	bookings.GET("/active", r.Controller.GetActiveBooking)
}
