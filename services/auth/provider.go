package auth

import (
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/mail"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAuthService(cfg *config.Config, db *gorm.DB, mailService *mail.Service, sessions *session.Service, logger *logging.Service) *Service {
	return NewService(cfg, db, mailService, sessions, logger.Named("auth"))
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
)
