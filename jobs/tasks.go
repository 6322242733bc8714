package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotificationDispatch delivers a stored notification to the
	// realtime channel of its organization.
	TaskTypeNotificationDispatch = "notification:dispatch"
	// TaskTypeSubscriptionSweep expires subscriptions past their period end.
	TaskTypeSubscriptionSweep = "subscription:sweep"
)

// NotificationDispatchPayload carries the notification to fan out.
type NotificationDispatchPayload struct {
	NotificationID string `json:"notification_id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}

// NewNotificationDispatchTask constructs an Asynq task for realtime delivery.
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotificationDispatch, data), nil
}

// NewSubscriptionSweepTask constructs the periodic sweep task. The sweep
// carries no payload; every overdue subscription is in scope.
func NewSubscriptionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSubscriptionSweep, nil)
}
