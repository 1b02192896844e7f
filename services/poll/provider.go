package poll

import (
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvidePollService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger.Named("poll"))
}

var Module = fx.Options(
	fx.Provide(ProvidePollService),
)
