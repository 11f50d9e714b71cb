package jobs

import (
	"context"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/cleanup"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/logger"
	"github.com/hibiken/asynq"
)

const TypeSweepOrphans = "submissions:sweep-orphans"

// NewSweepOrphansTask builds the scheduled sweep. The uniqueness lock keeps
// at most one sweep queued and expires after lock, so an archived failure
// does not block later runs.
func NewSweepOrphansTask(lock time.Duration) *asynq.Task {
	if lock <= 0 {
		lock = 30 * time.Minute
	}
	return asynq.NewTask(TypeSweepOrphans, nil, asynq.MaxRetry(1), asynq.Unique(lock))
}

// Sweeper is satisfied by *cleanup.Sweeper.
type Sweeper interface {
	Run(ctx context.Context) (cleanup.Report, error)
}

func HandleSweepOrphans(sw Sweeper) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		rep, err := sw.Run(ctx)
		if err != nil {
			return err
		}
		logger.Infof("sweep-orphans: scanned=%d young=%d kept=%d removed=%d errors=%d",
			rep.Scanned, rep.Young, rep.Kept, rep.Removed, rep.Errors)
		return nil
	}
}

// RegisterHandlers binds every task type this service processes.
func RegisterHandlers(mux *asynq.ServeMux, sw Sweeper) {
	mux.HandleFunc(TypeSweepOrphans, HandleSweepOrphans(sw))
}
