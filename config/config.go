package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Session   SessionConfig   `envPrefix:"SESSION_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
	CORS      CORSConfig      `envPrefix:"CORS_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Prune     PruneConfig     `envPrefix:"PRUNE_"`
	Docs      DocsConfig      `envPrefix:"DOCS_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"GreenPoll"`
	Version     string `env:"VERSION" envDefault:"1.0.0"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"DSN" envDefault:"greenpoll.db"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type AuthConfig struct {
	BcryptCost              int           `env:"BCRYPT_COST" envDefault:"10"`
	TokenLength             int           `env:"TOKEN_LENGTH" envDefault:"32"`
	VerificationExpiry      time.Duration `env:"VERIFICATION_EXPIRY" envDefault:"24h"`
	PasswordResetExpiry     time.Duration `env:"PASSWORD_RESET_EXPIRY" envDefault:"1h"`
	UnverifiedUserRetention time.Duration `env:"UNVERIFIED_USER_RETENTION" envDefault:"24h"`
	RequireVerifiedLogin    bool          `env:"REQUIRE_VERIFIED_LOGIN" envDefault:"false"`
	// When false, password reset requests for unknown emails succeed without
	// sending anything.
	RevealUnknownResetEmail bool `env:"PASSWORD_RESET_REVEAL_UNKNOWN_EMAIL" envDefault:"false"`
}

type SessionConfig struct {
	CookieName  string        `env:"COOKIE_NAME" envDefault:"session_id"`
	MaxPerUser  int           `env:"MAX_PER_USER" envDefault:"4"`
	MaxAge      time.Duration `env:"MAX_AGE" envDefault:"720h"`
	Secure      bool          `env:"SECURE" envDefault:"true"`
	HttpOnly    bool          `env:"HTTP_ONLY" envDefault:"true"`
	SameSite    string        `env:"SAME_SITE" envDefault:"lax"`
	TokenLength int           `env:"TOKEN_LENGTH" envDefault:"32"`
}

type MailConfig struct {
	Driver       string `env:"DRIVER" envDefault:"smtp"`
	Host         string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS"`
	FromName     string `env:"FROM_NAME" envDefault:"GreenPoll"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"emails"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:","`
}

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

type RateLimitConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Store     string        `env:"STORE" envDefault:"memory"`
	Rate      int           `env:"RATE" envDefault:"20"`
	Period    time.Duration `env:"PERIOD" envDefault:"1m"`
	CountMode CountingMode  `env:"COUNT_MODE" envDefault:"all"`
	LRUSize   int           `env:"LRU_SIZE" envDefault:"10000"`
}

type PruneConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"true"`
	Schedule string `env:"SCHEDULE" envDefault:"*/15 * * * *"`
}

type DocsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}

// CORSOrigins falls back to the frontend URL when no explicit origins are set.
func (c *Config) CORSOrigins() []string {
	if len(c.CORS.AllowOrigins) > 0 {
		return c.CORS.AllowOrigins
	}
	if c.App.FrontendURL != "" {
		return []string{c.App.FrontendURL}
	}
	return nil
}
