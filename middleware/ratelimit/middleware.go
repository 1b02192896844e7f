package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/config"
)

const MsgTooManyRequests = "Too many requests"

type Config struct {
	Store          Store
	Rate           int
	Period         time.Duration
	CountMode      config.CountingMode
	KeyGenerator   func(c echo.Context) string
	OnLimitReached func(c echo.Context) error
}

func Middleware(cfg *Config) echo.MiddlewareFunc {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}

	if cfg.Rate <= 0 {
		cfg.Rate = 20
	}

	if cfg.Period <= 0 {
		cfg.Period = time.Minute
	}

	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultKeyGenerator
	}

	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = DefaultOnLimitReached
	}

	if cfg.CountMode == "" {
		cfg.CountMode = config.CountAll
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.KeyGenerator(c)
			resetTime := time.Now().Add(cfg.Period)

			count, existingResetTime, exists := cfg.Store.Get(key)
			if exists {
				resetTime = existingResetTime
			}

			// Check and increment happen in one store call.
			if cfg.CountMode == config.CountAll {
				count = cfg.Store.Increment(key, resetTime)
				if count > cfg.Rate {
					setHeaders(c, cfg.Rate, 0, resetTime)
					return cfg.OnLimitReached(c)
				}
				setHeaders(c, cfg.Rate, cfg.Rate-count, resetTime)
				return next(c)
			}

			if count >= cfg.Rate {
				setHeaders(c, cfg.Rate, 0, resetTime)
				return cfg.OnLimitReached(c)
			}

			setHeaders(c, cfg.Rate, cfg.Rate-count, resetTime)
			err := next(c)

			// Errors are rendered after the middleware chain unwinds, so a
			// returned error is the failure signal rather than the status.
			failed := err != nil || c.Response().Status >= http.StatusBadRequest
			if (cfg.CountMode == config.CountFailures) == failed {
				cfg.Store.Increment(key, resetTime)
			}

			return err
		}
	}
}

func setHeaders(c echo.Context, limit, remaining int, resetTime time.Time) {
	header := c.Response().Header()
	header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	header.Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
}

func DefaultKeyGenerator(c echo.Context) string {
	realIP := c.RealIP()

	if realIP == "" || realIP == "unknown" {
		realIP = "fallback"
	}

	return "rate_limit:" + realIP
}

// DefaultOnLimitReached answers with the API's usual error envelope.
func DefaultOnLimitReached(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"error": MsgTooManyRequests})
}
