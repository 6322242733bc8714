package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/workdeck/internal/presence"
)

type recordingPublisher struct {
	orgIDs []string
	events []presence.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, orgID string, event presence.Event) error {
	if p.err != nil {
		return p.err
	}
	p.orgIDs = append(p.orgIDs, orgID)
	p.events = append(p.events, event)
	return nil
}

func TestNotificationDispatchPublishesToOrgChannel(t *testing.T) {
	publisher := &recordingPublisher{}
	job := NewNotificationDispatchJob(publisher, nil, nil)

	task, err := NewNotificationDispatchTask(NotificationDispatchPayload{
		NotificationID: "n1",
		OrganizationID: "org-1",
		UserID:         "u2",
		Kind:           "system",
		Title:          "Welcome",
		Body:           "hello",
	})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, []string{"org-1"}, publisher.orgIDs)
	assert.Equal(t, presence.EventNotification, publisher.events[0].Type)
	assert.Equal(t, "u2", publisher.events[0].UserID)
	assert.Equal(t, "Welcome", publisher.events[0].Title)
}

func TestNotificationDispatchDropsMalformedPayload(t *testing.T) {
	publisher := &recordingPublisher{}
	job := NewNotificationDispatchJob(publisher, nil, nil)

	task := asynq.NewTask(TaskTypeNotificationDispatch, []byte("{not json"))

	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, publisher.events)
}

type stubExpirer struct {
	expired int64
	err     error
	seen    time.Time
}

func (s *stubExpirer) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	s.seen = now
	return s.expired, s.err
}

func TestSubscriptionSweep(t *testing.T) {
	expirer := &stubExpirer{expired: 3}
	job := NewSubscriptionSweepJob(expirer, nil, nil)

	require.NoError(t, job.Handle(context.Background(), NewSubscriptionSweepTask()))
	assert.WithinDuration(t, time.Now().UTC(), expirer.seen, time.Minute)
}

func TestSubscriptionSweepPropagatesFailure(t *testing.T) {
	expirer := &stubExpirer{err: errors.New("db down")}
	job := NewSubscriptionSweepJob(expirer, nil, nil)

	assert.Error(t, job.Handle(context.Background(), NewSubscriptionSweepTask()))
}
