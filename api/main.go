package api

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/cache"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/logger"
	"github.com/hlra-health/profilesync/metrics"
	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/profiles/synchronizer"
	"github.com/hlra-health/profilesync/remote"
	"github.com/hlra-health/profilesync/session"
	"github.com/hlra-health/profilesync/store"
)

func Start(e *echo.Echo, cfg *config.Config, log *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.HttpAddress); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
					log.Errorw("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// SetReady marks the service as ready on start. Taking the session makes fx build the
// session and everything behind it first, the profile cache included, so the start
// hooks creating the mongo indexes run before this one.
func SetReady(healthCheck *HealthCheck, _ *session.Session, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			healthCheck.SetReady(true)
			return nil
		},
	})
}

// Dependencies returns the dependency graph of the service. The mongo and redis
// clients are only part of the graph when the configured cache backend needs them.
func Dependencies() []fx.Option {
	deps := []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			config.NewConfig,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
		metrics.Module,
		auth.Module,
		remote.Module,
		cache.Module,
		synchronizer.Module,
		notifications.Module,
		session.Module,
	}

	cfg, err := config.NewConfig()
	if err != nil {
		// The error is reported by the config provider when the graph is built
		return deps
	}
	switch cfg.CacheBackend {
	case config.CacheBackendMongo:
		deps = append(deps, store.Module)
	case config.CacheBackendRedis:
		deps = append(deps, cache.RedisModule)
	}
	return deps
}

func MainLoop() {
	fx.New(
		append(Dependencies(),
			fx.Invoke(SetReady),
			fx.Invoke(Start),
		)...,
	).Run()
}
