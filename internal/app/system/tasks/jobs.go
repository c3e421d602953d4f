// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ArchivedPurger deletes archived submissions older than a cutoff.
type ArchivedPurger interface {
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionInterval is how often the retention job runs.
const RetentionInterval = 6 * time.Hour

// SubmissionRetentionJob deletes archived submissions received more than
// retention ago. A non-positive retention yields a disabled job.
func SubmissionRetentionJob(store ArchivedPurger, retention time.Duration, logger *zap.Logger) Job {
	interval := RetentionInterval
	if retention <= 0 {
		interval = 0
	}
	return Job{
		Name:     "submission-retention",
		Interval: interval,
		Timeout:  timeouts.Batch(),
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			n, err := store.DeleteArchivedBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("purged archived submissions",
					zap.Int64("deleted", n),
					zap.Time("cutoff", cutoff))
			}
			return nil
		},
	}
}
