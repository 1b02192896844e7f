package config

import (
	"fmt"

	"go.uber.org/fx"
)

func NewProvider(customConfig *Config) fx.Option {
	if customConfig != nil {
		return fx.Provide(func() (*Config, error) {
			if err := customConfig.Validate(); err != nil {
				return nil, err
			}
			return customConfig, nil
		})
	}

	return fx.Provide(func() (*Config, error) {
		cfg := &Config{}
		if err := LoadConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	})
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres, mysql)", c.Database.Driver)
	}

	if c.Session.MaxPerUser < 1 {
		return fmt.Errorf("SESSION_MAX_PER_USER must be at least 1, got %d", c.Session.MaxPerUser)
	}

	switch c.Mail.Driver {
	case "smtp", "log":
	default:
		return fmt.Errorf("unsupported mail driver: %s (supported: smtp, log)", c.Mail.Driver)
	}

	return nil
}
