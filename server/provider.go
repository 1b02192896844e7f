package server

import (
	"context"

	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideServer(cfg *config.Config, logger *logging.Service) *Server {
	return New(cfg, logger.Named("http"))
}

// RegisterLifecycle binds the listener on start and drains requests on stop.
// A serve failure after startup shuts the application down.
func RegisterLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := srv.Listen(); err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(); err != nil {
					srv.logger.Error("server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideServer),
)

// Listener starts serving as part of the application lifecycle. Leave it out
// to drive the server through Echo() directly.
var Listener = fx.Invoke(RegisterLifecycle)
