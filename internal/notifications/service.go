package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/workdeck/workdeck/jobs"
)

// TaskEnqueuer abstracts the asynq client so delivery can be stubbed in
// tests. A nil enqueuer skips async delivery but still persists the feed row.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service handles the notification feed and hands delivery to the worker.
type Service struct {
	repo     RepositoryPort
	enqueuer TaskEnqueuer
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enqueuer TaskEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, logger: logger}
}

// Notify persists a feed entry and enqueues its realtime delivery. The
// write is authoritative; a failed enqueue only delays delivery until the
// user next fetches the feed.
func (s *Service) Notify(ctx context.Context, orgID, userID, kind, title, body string) (Notification, error) {
	created, err := s.repo.Create(ctx, Notification{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		UserID:         userID,
		Kind:           kind,
		Title:          title,
		Body:           body,
	})
	if err != nil {
		return Notification{}, err
	}
	if s.enqueuer != nil {
		task, err := jobs.NewNotificationDispatchTask(jobs.NotificationDispatchPayload{
			NotificationID: created.ID,
			OrganizationID: created.OrganizationID,
			UserID:         created.UserID,
			Kind:           created.Kind,
			Title:          created.Title,
			Body:           created.Body,
		})
		if err == nil {
			_, err = s.enqueuer.EnqueueContext(ctx, task)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("enqueue notification dispatch", slog.Any("error", err))
		}
	}
	return created, nil
}

// NotifyTaskAssigned implements the tasks.Notifier collaborator. The body
// carries the task id so clients can deep-link the entry.
func (s *Service) NotifyTaskAssigned(ctx context.Context, orgID, userID, taskID, title string) error {
	_, err := s.Notify(ctx, orgID, userID, KindTaskAssigned, title, taskID)
	return err
}

// ListForUser returns the newest feed entries for the user.
func (s *Service) ListForUser(ctx context.Context, orgID, userID string, limit int) ([]Notification, error) {
	return s.repo.ListByUser(ctx, orgID, userID, limit)
}

// MarkRead stamps one owned notification as read.
func (s *Service) MarkRead(ctx context.Context, orgID, userID, id string) error {
	return s.repo.MarkRead(ctx, orgID, userID, id)
}
