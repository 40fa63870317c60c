package booking

import (
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/middleware"
	"weekend-match-api/core/mq"
	"weekend-match-api/modules/booking/controller"
	"weekend-match-api/modules/booking/repository"
	"weekend-match-api/modules/booking/router"
	"weekend-match-api/modules/booking/service"
	eventRepository "weekend-match-api/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// NewService wires the booking ledger against the slot store
func NewService(db database.IDatabase, publisher mq.Publisher, cfg *config.Config) service.BookingService {
	repo := repository.NewBookingRepository(db)
	events := eventRepository.NewEventRepository(db)
	return service.NewBookingService(repo, events, publisher, cfg.Location(), nil)
}

func Init(e *echo.Echo, mw *middleware.Middleware, svc service.BookingService) {
	ctrl := controller.NewBookingController(svc)
	router.NewBookingRouter(ctrl).Setup(e, mw)
}
