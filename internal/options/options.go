package options

import (
	"github.com/tech-arch1tect/greenpoll/config"
	"go.uber.org/fx"
)

type Options struct {
	Config *config.Config
	// Listen binds the HTTP port on start. Tests and one-shot commands turn it off.
	Listen         bool
	ExtraFxOptions []fx.Option
}

type Option func(*Options)

func Defaults() *Options {
	return &Options{Listen: true}
}

func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

func WithoutListener() Option {
	return func(opts *Options) {
		opts.Listen = false
	}
}

func WithFxOptions(fxOpts ...fx.Option) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}
