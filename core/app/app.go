package app

import (
	"context"
	"fmt"

	"weekend-match-api/core/cache"
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/mq"
	"weekend-match-api/core/obs"
	"weekend-match-api/core/utils"
)

// App holds the shared infrastructure the HTTP server and the task worker build on.
type App struct {
	Config    *config.Config
	DB        database.IDatabase
	Cache     cache.Cache
	Locker    cache.Locker
	Publisher mq.Publisher
	Verifier  utils.TokenVerifier

	shutdownTracer func(context.Context) error
}

// Bootstrap loads config and connects to Postgres. Redis, RabbitMQ and tracing are
// optional: when they are unavailable the app runs with their no-op fallbacks.
func Bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Locker:    cache.NoopLocker{},
		Publisher: mq.NoopPublisher{},
	}

	if rc, err := cache.NewRedisCache(cfg.Redis); err != nil {
		logger.Warn("App:Bootstrap:Redis unavailable, locks disabled", "error", err)
	} else {
		a.Cache = rc
		a.Locker = rc
	}

	if cfg.MQ.URL != "" {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			logger.Warn("App:Bootstrap:MQ unavailable, events disabled", "error", err)
		} else {
			a.Publisher = pub
		}
	}

	a.shutdownTracer, err = obs.InitTracer(ctx, cfg.Tracing, cfg.App.Env)
	if err != nil {
		logger.Warn("App:Bootstrap:Tracing disabled", "error", err)
		a.shutdownTracer = func(context.Context) error { return nil }
	}

	if cfg.Auth.JWKSURL != "" {
		v, err := utils.NewJWKSVerifier(ctx, cfg.Auth.JWKSURL, cfg.Auth.Issuer)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("jwks verifier: %w", err)
		}
		a.Verifier = v
	} else {
		a.Verifier = utils.NewHMACVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	}

	return a, nil
}

// Close releases every connection opened by Bootstrap.
func (a *App) Close(ctx context.Context) {
	if err := a.shutdownTracer(ctx); err != nil {
		logger.Warn("App:Close:Tracer", "error", err)
	}
	if err := a.Publisher.Close(); err != nil {
		logger.Warn("App:Close:Publisher", "error", err)
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			logger.Warn("App:Close:Cache", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		logger.Warn("App:Close:Database", "error", err)
	}
}
