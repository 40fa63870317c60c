package middleware

import (
	"errors"
	"net/http"
	"strings"

	"weekend-match-api/core/constants"
	"weekend-match-api/core/controller"
	apperrors "weekend-match-api/core/errors"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	verifier utils.TokenVerifier
}

func NewMiddleware(verifier utils.TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// AuthMiddleware verifies the bearer token and stores *utils.TokenClaims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(constants.AuthorizationHeader)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					apperrors.ErrMissingAuthorizationHeader, "missing authorization header")
			}
			if !strings.HasPrefix(header, constants.BearerPrefix) {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					apperrors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
			claims, err := m.verifier.Verify(c.Request().Context(), token)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:Verify", "error", err)
				if errors.Is(err, utils.ErrTokenExpired) {
					return controller.NewErrorResponse(http.StatusUnauthorized,
						apperrors.ErrTokenExpired, "token expired")
				}
				return controller.NewErrorResponse(http.StatusUnauthorized,
					apperrors.ErrUnauthorized, "invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
