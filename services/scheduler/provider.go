package scheduler

import (
	"context"

	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/fx"
)

func ProvideScheduler(lc fx.Lifecycle, cfg *config.Config, authService *auth.Service, sessions *session.Service, logger *logging.Service) (*CronScheduler, error) {
	logger = logger.Named("scheduler")
	scheduler := NewCronScheduler(logger)

	if !cfg.Prune.Enabled {
		logger.Info("periodic prune disabled")
		return scheduler, nil
	}

	if err := scheduler.AddJob(NewPruneJob(authService, sessions, logger), cfg.Prune.Schedule); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
	return scheduler, nil
}

var Module = fx.Options(
	fx.Provide(ProvideScheduler),
	fx.Invoke(func(*CronScheduler) {}),
)
