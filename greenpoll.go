// Package greenpoll runs the GreenPoll polling API.
package greenpoll

import (
	"github.com/tech-arch1tect/greenpoll/app"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/internal/options"
	"go.uber.org/fx"
)

type App = app.App

type Option = options.Option

func New(opts ...Option) (*App, error) {
	return app.New(opts...)
}

func WithConfig(cfg *config.Config) Option {
	return options.WithConfig(cfg)
}

func WithoutListener() Option {
	return options.WithoutListener()
}

func WithFxOptions(fxOpts ...fx.Option) Option {
	return options.WithFxOptions(fxOpts...)
}
