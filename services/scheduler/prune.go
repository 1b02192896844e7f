package scheduler

import (
	"context"

	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/zap"
)

type Pruner interface {
	Prune(ctx context.Context) error
}

type SessionCleaner interface {
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// PruneJob sweeps expired tokens, stale unverified accounts and expired
// sessions.
type PruneJob struct {
	auth     Pruner
	sessions SessionCleaner
	logger   *logging.Service
}

func NewPruneJob(auth Pruner, sessions SessionCleaner, logger *logging.Service) *PruneJob {
	return &PruneJob{auth: auth, sessions: sessions, logger: logger}
}

func (j *PruneJob) Name() string {
	return "prune"
}

func (j *PruneJob) Run(ctx context.Context) error {
	if err := j.auth.Prune(ctx); err != nil {
		return err
	}

	removed, err := j.sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("expired sessions removed", zap.Int64("count", removed))
	}
	return nil
}
