package notification

import (
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/middleware"
	bookingRepository "weekend-match-api/modules/booking/repository"
	"weekend-match-api/modules/notification/controller"
	"weekend-match-api/modules/notification/repository"
	"weekend-match-api/modules/notification/router"
	"weekend-match-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// NewService wires the notification service and its reminder source
func NewService(db database.IDatabase, cfg *config.Config) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	bookings := bookingRepository.NewBookingRepository(db)
	return service.NewNotificationService(repo, bookings, cfg.Location(), nil)
}

func Init(e *echo.Echo, mw *middleware.Middleware, svc *service.NotificationService) {
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)
}
