package router

import (
	"weekend-match-api/core/middleware"
	"weekend-match-api/modules/group/controller"

	"github.com/labstack/echo/v4"
)

type GroupRouter struct {
	GroupController *controller.GroupController
}

func NewGroupRouter(ctrl *controller.GroupController) *GroupRouter {
	return &GroupRouter{GroupController: ctrl}
}

func (r *GroupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	e.POST("/api/v1/events/group", r.GroupController.EnsureGroup, mw.AuthMiddleware())
}
