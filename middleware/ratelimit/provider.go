package ratelimit

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/config"
	"go.uber.org/fx"
)

// Limiter is the shared middleware for credential routes, or nil when rate
// limiting is disabled.
type Limiter echo.MiddlewareFunc

func ProvideLimiter(lc fx.Lifecycle, cfg *config.Config) (Limiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	store, err := NewStore(&cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	if closer, ok := store.(interface{ Close() }); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				closer.Close()
				return nil
			},
		})
	}

	return Limiter(Middleware(&Config{
		Store:     store,
		Rate:      cfg.RateLimit.Rate,
		Period:    cfg.RateLimit.Period,
		CountMode: cfg.RateLimit.CountMode,
	})), nil
}

var Module = fx.Options(
	fx.Provide(ProvideLimiter),
)
