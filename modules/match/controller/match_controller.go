package controller

import (
	"weekend-match-api/core/controller"
	"weekend-match-api/core/errors"
	"weekend-match-api/modules/match/dto"
	"weekend-match-api/modules/match/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MatchController struct {
	controller.BaseController
	MatchService service.MatchServiceInterface
}

func NewMatchController(svc service.MatchServiceInterface) *MatchController {
	return &MatchController{
		BaseController: controller.NewBaseController(),
		MatchService:   svc,
	}
}

// GetCompatibility handles GET /groups/:id/compatibility
func (c *MatchController) GetCompatibility(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	groupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid group id")
	}

	result, appErr := c.MatchService.ExplainGroup(ctx.Request().Context(), groupID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpsertPreferences handles PUT /preferences
func (c *MatchController) UpsertPreferences(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertPreferencesRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	profile, appErr := c.MatchService.UpsertPreferences(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, profile, "Preferences saved")
}
