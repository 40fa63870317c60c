package match

import (
	"weekend-match-api/core/database"
	"weekend-match-api/core/middleware"
	groupRepository "weekend-match-api/modules/group/repository"
	"weekend-match-api/modules/match/controller"
	"weekend-match-api/modules/match/repository"
	"weekend-match-api/modules/match/router"
	"weekend-match-api/modules/match/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the compatibility module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	profiles := repository.NewProfileRepository(db)
	groups := groupRepository.NewGroupRepository(db)
	svc := service.NewMatchService(profiles, groups)
	ctrl := controller.NewMatchController(svc)

	router.NewMatchRouter(ctrl).Setup(e, mw)
}
