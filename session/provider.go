package session

import (
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideSessionService(cfg *config.Config, db *gorm.DB, logger *logging.Service) *Service {
	return NewService(&cfg.Session, db, logger.Named("session"))
}

var Module = fx.Module("session",
	fx.Provide(ProvideSessionService),
)
