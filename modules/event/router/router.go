package router

import (
	"weekend-match-api/core/middleware"
	"weekend-match-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles slot routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers slot routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	eventRoutes := e.Group("/api/v1/events", mw.AuthMiddleware())

	eventRoutes.POST("/ensure", r.EventController.EnsureEvent)
	eventRoutes.GET("/weekend", r.EventController.GetWeekendEvents)
}
