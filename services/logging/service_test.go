package logging

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedService(level zapcore.Level) (*Service, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return NewFromZap(zap.New(core)), recorded
}

func TestNewService(t *testing.T) {
	t.Run("json configuration", func(t *testing.T) {
		service, err := NewService(Config{Level: Info, Format: "json", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, service.Logger())
		assert.NotNil(t, service.Sugar())
	})

	t.Run("console format", func(t *testing.T) {
		service, err := NewService(Config{Level: Debug, Format: "console", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, service.Logger())
	})

	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "greenpoll.log")

		service, err := NewService(Config{Level: Info, Format: "json", OutputPath: logFile})
		require.NoError(t, err)

		service.Info("poll created")
		require.NoError(t, service.Sync())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "poll created")
	})

	t.Run("respects level", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "warn.log")

		service, err := NewService(Config{Level: Warn, Format: "json", OutputPath: logFile})
		require.NoError(t, err)

		service.Info("hidden")
		service.Warn("shown")
		require.NoError(t, service.Sync())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "shown")
	})
}

func TestService_LoggingMethods(t *testing.T) {
	service, recorded := newObservedService(zapcore.DebugLevel)

	tests := []struct {
		name  string
		log   func(string, ...zap.Field)
		level zapcore.Level
	}{
		{"Debug", service.Debug, zapcore.DebugLevel},
		{"Info", service.Info, zapcore.InfoLevel},
		{"Warn", service.Warn, zapcore.WarnLevel},
		{"Error", service.Error, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.log("message", zap.Uint("user_id", 7))

			logs := recorded.TakeAll()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, "message", logs[0].Message)
			assert.Equal(t, uint64(7), logs[0].ContextMap()["user_id"])
		})
	}
}

func TestService_NamedAndWith(t *testing.T) {
	service, recorded := newObservedService(zapcore.InfoLevel)

	service.Named("auth").With(zap.String("component", "tokens")).Info("pruned")

	logs := recorded.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, "auth", logs[0].LoggerName)
	assert.Equal(t, "tokens", logs[0].ContextMap()["component"])
}

func TestService_NilSafety(t *testing.T) {
	var service *Service

	assert.NotPanics(t, func() {
		service.Debug("test")
		service.Info("test")
		service.Warn("test")
		service.Error("test")
		assert.Nil(t, service.Named("x"))
		assert.Nil(t, service.With(zap.String("k", "v")))
		assert.Nil(t, service.Logger())
		assert.Nil(t, service.Sugar())
		assert.NoError(t, service.Sync())
	})

	empty := &Service{}
	assert.NotPanics(t, func() {
		empty.Info("test")
		empty.Named("x").Info("test")
	})
}

func TestNewNop(t *testing.T) {
	service := NewNop()

	assert.NotNil(t, service.Logger())
	assert.NotPanics(t, func() { service.Error("ignored") })
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zapcore.Level
	}{
		{Debug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{Warn, zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
		{LogLevel("unknown"), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	service, recorded := newObservedService(zapcore.DebugLevel)

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(service, "/health"))
	e.GET("/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("logs path without query string", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login?email=a@b.com&password=secret", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "request", logs[0].Message)
		assert.Equal(t, "/login", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.NotEmpty(t, fields["request_id"])
		for _, v := range fields {
			if s, ok := v.(string); ok {
				assert.NotContains(t, s, "secret")
			}
		}
	})

	t.Run("skips configured paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Empty(t, recorded.TakeAll())
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})
}
