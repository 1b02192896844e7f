package handlers

import (
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/middleware/ratelimit"
	"github.com/tech-arch1tect/greenpoll/server"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/poll"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/fx"
)

func ProvideHandler(cfg *config.Config, authService *auth.Service, polls *poll.Service, sessions *session.Service, limiter ratelimit.Limiter, logger *logging.Service) *Handler {
	return New(cfg, authService, polls, sessions, limiter, logger.Named("handlers"))
}

var Module = fx.Options(
	fx.Provide(ProvideHandler),
	fx.Invoke(func(h *Handler, srv *server.Server) {
		h.Register(srv)
	}),
)
