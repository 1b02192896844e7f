package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/greenpoll/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "GreenPoll Test",
			Version:     "test",
			FrontendURL: "http://frontend.test",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Auth: config.AuthConfig{
			BcryptCost:              bcrypt.MinCost,
			TokenLength:             32,
			VerificationExpiry:      24 * time.Hour,
			PasswordResetExpiry:     time.Hour,
			UnverifiedUserRetention: 24 * time.Hour,
		},
		Session: config.SessionConfig{
			CookieName:  "session_id",
			MaxPerUser:  4,
			MaxAge:      720 * time.Hour,
			Secure:      true,
			HttpOnly:    true,
			SameSite:    "lax",
			TokenLength: 32,
		},
		Mail: config.MailConfig{
			Driver:       "log",
			FromAddress:  "noreply@greenpoll.test",
			FromName:     "GreenPoll",
			TemplatesDir: "emails",
		},
		RateLimit: config.RateLimitConfig{
			Enabled:   false,
			Store:     "memory",
			Rate:      20,
			Period:    time.Minute,
			CountMode: config.CountAll,
			LRUSize:   1000,
		},
		Prune: config.PruneConfig{
			Enabled:  false,
			Schedule: "*/15 * * * *",
		},
		Docs: config.DocsConfig{
			Enabled: true,
		},
	}
}

var TestPasswords = struct {
	Valid    string
	Other    string
	TooShort string
}{
	Valid:    "correct horse",
	Other:    "battery staple",
	TooShort: "short",
}

func TestPasswordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
