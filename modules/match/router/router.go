package router

import (
	"weekend-match-api/core/middleware"
	"weekend-match-api/modules/match/controller"

	"github.com/labstack/echo/v4"
)

type MatchRouter struct {
	MatchController *controller.MatchController
}

func NewMatchRouter(ctrl *controller.MatchController) *MatchRouter {
	return &MatchRouter{MatchController: ctrl}
}

func (r *MatchRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	auth := mw.AuthMiddleware()
	e.GET("/api/v1/groups/:id/compatibility", r.MatchController.GetCompatibility, auth)
	e.PUT("/api/v1/preferences", r.MatchController.UpsertPreferences, auth)
}
