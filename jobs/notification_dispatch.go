package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/workdeck/workdeck/internal/jobs"
	"github.com/workdeck/workdeck/internal/presence"
)

// EventPublisher pushes realtime events onto an organization channel.
type EventPublisher interface {
	Publish(ctx context.Context, orgID string, event presence.Event) error
}

// NotificationDispatchJob relays persisted notifications to connected clients.
type NotificationDispatchJob struct {
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewNotificationDispatchJob wires the dispatch handler.
func NewNotificationDispatchJob(publisher EventPublisher, logger *slog.Logger, metrics *jobmetrics.Metrics) *NotificationDispatchJob {
	return &NotificationDispatchJob{publisher: publisher, logger: logger, metrics: metrics}
}

// Handle processes TaskTypeNotificationDispatch tasks. A malformed payload is
// dropped rather than retried.
func (j *NotificationDispatchJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskTypeNotificationDispatch)
	var payload NotificationDispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if j.logger != nil {
			j.logger.Warn("notification dispatch payload", slog.Any("error", err))
		}
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	err := j.publisher.Publish(ctx, payload.OrganizationID, presence.Event{
		Type:   presence.EventNotification,
		UserID: payload.UserID,
		Title:  payload.Title,
		Body:   payload.Body,
	})
	if err != nil && j.logger != nil {
		j.logger.Warn("notification dispatch publish",
			slog.String("notification_id", payload.NotificationID),
			slog.Any("error", err))
	}
	return tracker.End(err)
}
