package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/workdeck/workdeck/internal/jobs"
)

// SubscriptionExpirer marks overdue subscriptions as expired.
type SubscriptionExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionSweepJob downgrades subscriptions whose period has lapsed.
type SubscriptionSweepJob struct {
	billing SubscriptionExpirer
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	now     func() time.Time
}

// NewSubscriptionSweepJob wires the sweep handler.
func NewSubscriptionSweepJob(billing SubscriptionExpirer, logger *slog.Logger, metrics *jobmetrics.Metrics) *SubscriptionSweepJob {
	return &SubscriptionSweepJob{billing: billing, logger: logger, metrics: metrics, now: time.Now}
}

// Handle processes TaskTypeSubscriptionSweep tasks.
func (j *SubscriptionSweepJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskTypeSubscriptionSweep)
	expired, err := j.billing.ExpireOverdue(ctx, j.now().UTC())
	if err != nil {
		if j.logger != nil {
			j.logger.Error("subscription sweep", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	j.metrics.AddExpiredSubscriptions(expired)
	if j.logger != nil && expired > 0 {
		j.logger.Info("subscription sweep", slog.Int64("expired", expired))
	}
	return tracker.End(nil)
}
