package controller

import (
	"net/http"

	"weekend-match-api/core/controller"
	"weekend-match-api/core/errors"
	"weekend-match-api/modules/group/dto"
	"weekend-match-api/modules/group/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type GroupController struct {
	controller.BaseController
	GroupService service.GroupServiceInterface
}

func NewGroupController(svc service.GroupServiceInterface) *GroupController {
	return &GroupController{
		BaseController: controller.NewBaseController(),
		GroupService:   svc,
	}
}

// EnsureGroup handles POST /events/group
func (c *GroupController) EnsureGroup(ctx echo.Context) error {
	if _, err := c.CurrentUserID(ctx); err != nil {
		return err
	}

	var req dto.EnsureGroupRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	result, appErr := c.GroupService.EnsureGroupAndConversation(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.JSON(http.StatusOK, result)
}
