package event

import (
	"weekend-match-api/core/cache"
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/middleware"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/event/controller"
	"weekend-match-api/modules/event/repository"
	"weekend-match-api/modules/event/router"
	"weekend-match-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// NewService wires the slot service from shared infrastructure
func NewService(db database.IDatabase, locker cache.Locker, publisher mq.Publisher, cfg *config.Config) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	return service.NewEventService(repo, locker, publisher, service.Options{
		Location:   cfg.Location(),
		Capacity:   cfg.Event.Capacity,
		CloseAfter: cfg.Event.CloseAfter,
	})
}

// Init initializes the event module and registers routes
func Init(e *echo.Echo, mw *middleware.Middleware, svc service.EventServiceInterface) {
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
