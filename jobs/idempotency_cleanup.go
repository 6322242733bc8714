package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/workdeck/workdeck/internal/jobs"
	"github.com/workdeck/workdeck/internal/shared"
)

// TaskTypeIdempotencyCleanup prunes idempotency keys past retention.
const TaskTypeIdempotencyCleanup = "idempotency:cleanup"

// NewIdempotencyCleanupTask constructs the periodic cleanup task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIdempotencyCleanup, nil)
}

// IdempotencyCleanupJob removes stale idempotency keys. Retries that arrive
// after retention are treated as new requests.
type IdempotencyCleanupJob struct {
	store     *shared.IdempotencyStore
	retention time.Duration
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob wires the cleanup handler.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &IdempotencyCleanupJob{store: store, retention: retention, logger: logger, metrics: metrics}
}

// Handle processes TaskTypeIdempotencyCleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskTypeIdempotencyCleanup)
	err := j.store.Cleanup(ctx, j.retention)
	if err != nil && j.logger != nil {
		j.logger.Error("idempotency cleanup", slog.Any("error", err))
	}
	return tracker.End(err)
}
