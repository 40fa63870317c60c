package group

import (
	"weekend-match-api/core/cache"
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/middleware"
	"weekend-match-api/core/mq"
	eventRepository "weekend-match-api/modules/event/repository"
	"weekend-match-api/modules/group/controller"
	"weekend-match-api/modules/group/repository"
	"weekend-match-api/modules/group/router"
	"weekend-match-api/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the group module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, locker cache.Locker, publisher mq.Publisher, cfg *config.Config) {
	repo := repository.NewGroupRepository(db)
	events := eventRepository.NewEventRepository(db)
	svc := service.NewGroupService(repo, events, locker, publisher, cfg.Location())
	ctrl := controller.NewGroupController(svc)

	router.NewGroupRouter(ctrl).Setup(e, mw)
}
