package ratelimit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/greenpoll/config"
	"go.uber.org/fx/fxtest"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func failingHandler(c echo.Context) error {
	return errors.New("invalid login")
}

func serve(t *testing.T, mw echo.MiddlewareFunc, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	err := mw(handler)(e.NewContext(req, rec))
	return rec, err
}

func assertLimited(t *testing.T, rec *httptest.ResponseRecorder, err error) {
	t.Helper()

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, MsgTooManyRequests, body["error"])
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		Middleware(cfg)

		assert.NotNil(t, cfg.Store)
		assert.Equal(t, 20, cfg.Rate)
		assert.Equal(t, time.Minute, cfg.Period)
		assert.Equal(t, config.CountAll, cfg.CountMode)
		assert.NotNil(t, cfg.KeyGenerator)
		assert.NotNil(t, cfg.OnLimitReached)
	})

	t.Run("headers", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 5})

		rec, err := serve(t, mw, okHandler)
		require.NoError(t, err)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("count all", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 2})

		for i := 0; i < 2; i++ {
			_, err := serve(t, mw, failingHandler)
			require.Error(t, err)
		}

		rec, err := serve(t, mw, okHandler)
		assertLimited(t, rec, err)
	})

	t.Run("count failures ignores successes", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 2, CountMode: config.CountFailures})

		for i := 0; i < 5; i++ {
			_, err := serve(t, mw, okHandler)
			require.NoError(t, err)
		}

		for i := 0; i < 2; i++ {
			_, err := serve(t, mw, failingHandler)
			require.Error(t, err)
		}

		rec, err := serve(t, mw, okHandler)
		assertLimited(t, rec, err)
	})

	t.Run("count success ignores failures", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 1, CountMode: config.CountSuccess})

		for i := 0; i < 3; i++ {
			_, err := serve(t, mw, failingHandler)
			require.Error(t, err)
		}

		_, err := serve(t, mw, okHandler)
		require.NoError(t, err)

		rec, err := serve(t, mw, okHandler)
		assertLimited(t, rec, err)
	})

	t.Run("keys are per client", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 1})
		e := echo.New()

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderXRealIP, ip)
			rec := httptest.NewRecorder()
			require.NoError(t, mw(okHandler)(e.NewContext(req, rec)))
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("window resets", func(t *testing.T) {
		mw := Middleware(&Config{Store: NewMemoryStore(), Rate: 1, Period: 50 * time.Millisecond})

		_, err := serve(t, mw, okHandler)
		require.NoError(t, err)
		rec, err := serve(t, mw, okHandler)
		assertLimited(t, rec, err)

		time.Sleep(60 * time.Millisecond)

		rec, err = serve(t, mw, okHandler)
		require.NoError(t, err)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Contains(t, rec.Body.String(), "success")
	})

	t.Run("concurrent burst stays within rate", func(t *testing.T) {
		for _, store := range []Store{NewMemoryStore(), NewLRUStore(10, time.Minute)} {
			mw := Middleware(&Config{Store: store, Rate: 5})

			var passed atomic.Int32
			counting := func(c echo.Context) error {
				passed.Add(1)
				return okHandler(c)
			}

			var wg sync.WaitGroup
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := serve(t, mw, counting)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(5), passed.Load(), "%T", store)
		}
	})
}

func TestDefaultKeyGenerator(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "192.168.1.9")

	assert.Equal(t, "rate_limit:192.168.1.9", DefaultKeyGenerator(e.NewContext(req, httptest.NewRecorder())))
}

func TestProvideLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		limiter, err := ProvideLimiter(lc, &config.Config{RateLimit: config.RateLimitConfig{Enabled: false}})
		require.NoError(t, err)
		assert.Nil(t, limiter)
	})

	t.Run("lru store", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		limiter, err := ProvideLimiter(lc, &config.Config{RateLimit: config.RateLimitConfig{
			Enabled: true, Store: "lru", Rate: 1, Period: time.Minute, CountMode: config.CountAll, LRUSize: 10,
		}})
		require.NoError(t, err)
		require.NotNil(t, limiter)

		_, err = serve(t, echo.MiddlewareFunc(limiter), okHandler)
		require.NoError(t, err)
		rec, err := serve(t, echo.MiddlewareFunc(limiter), okHandler)
		assertLimited(t, rec, err)
	})

	t.Run("memory store is closed on stop", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		_, err := ProvideLimiter(lc, &config.Config{RateLimit: config.RateLimitConfig{
			Enabled: true, Store: "memory", Rate: 1, Period: time.Minute,
		}})
		require.NoError(t, err)
		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("unknown store", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		_, err := ProvideLimiter(lc, &config.Config{RateLimit: config.RateLimitConfig{Enabled: true, Store: "redis"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported rate limit store")
	})
}
