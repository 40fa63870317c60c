package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"weekend-match-api/core/app"
	"weekend-match-api/core/constants"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/middleware"
	"weekend-match-api/core/utils"
	"weekend-match-api/core/validator"
	"weekend-match-api/modules/booking"
	"weekend-match-api/modules/event"
	"weekend-match-api/modules/group"
	"weekend-match-api/modules/match"
	"weekend-match-api/modules/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New builds the echo instance with every module registered.
func New(a *app.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: utils.GenerateID,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(constants.ContextRequestID, id)
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.ContextTimeout(constants.DefaultRequestTimeout))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		if err := a.DB.SQLx().PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(a.Verifier)

	event.Init(e, mw, event.NewService(a.DB, a.Locker, a.Publisher, a.Config))
	booking.Init(e, mw, booking.NewService(a.DB, a.Publisher, a.Config))
	group.Init(e, a.DB, mw, a.Locker, a.Publisher, a.Config)
	match.Init(e, a.DB, mw)
	notification.Init(e, mw, notification.NewService(a.DB, a.Config))

	return e
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, a *app.App) error {
	e := New(a)
	addr := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
