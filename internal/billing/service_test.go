package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/shared"
)

type memoryRepo struct {
	subs map[string]Subscription
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{subs: make(map[string]Subscription)}
}

func (r *memoryRepo) GetByOrg(_ context.Context, orgID string) (Subscription, bool, error) {
	sub, ok := r.subs[orgID]
	return sub, ok, nil
}

func (r *memoryRepo) Create(_ context.Context, sub Subscription) (Subscription, error) {
	if _, ok := r.subs[sub.OrganizationID]; ok {
		return Subscription{}, shared.ErrDuplicate
	}
	r.subs[sub.OrganizationID] = sub
	return sub, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, orgID, status string, periodEnd time.Time) error {
	sub, ok := r.subs[orgID]
	if !ok {
		return shared.ErrNotFound
	}
	sub.Status = status
	sub.PeriodEnd = periodEnd
	r.subs[orgID] = sub
	return nil
}

func (r *memoryRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for orgID, sub := range r.subs {
		if (sub.Status == StatusTrial || sub.Status == StatusActive) && sub.PeriodEnd.Before(now) {
			sub.Status = StatusExpired
			r.subs[orgID] = sub
			count++
		}
	}
	return count, nil
}

func TestSubscriptionStatusMapsStoredValues(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	cases := map[string]authz.AccessStatus{
		StatusTrial:   authz.AccessTrial,
		StatusActive:  authz.AccessActive,
		StatusExpired: authz.AccessExpired,
	}
	for stored, want := range cases {
		repo.subs["org-1"] = Subscription{OrganizationID: "org-1", Status: stored}
		status, found, err := svc.SubscriptionStatus(context.Background(), "org-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, status)
	}
}

func TestSubscriptionStatusAbsentRow(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, found, err := svc.SubscriptionStatus(context.Background(), "org-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSubscriptionStatusRejectsUnknownStoredValue(t *testing.T) {
	repo := newMemoryRepo()
	repo.subs["org-1"] = Subscription{OrganizationID: "org-1", Status: "FREEMIUM"}
	svc := NewService(repo)

	_, _, err := svc.SubscriptionStatus(context.Background(), "org-1")
	assert.Error(t, err)
}

func TestStartTrial(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	sub, err := svc.StartTrial(context.Background(), "org-1", 14*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, StatusTrial, sub.Status)
	assert.Equal(t, "trial", sub.Plan)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), sub.PeriodEnd, time.Minute)

	_, err = svc.StartTrial(context.Background(), "org-1", 14*24*time.Hour)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestExpireOverdue(t *testing.T) {
	repo := newMemoryRepo()
	repo.subs["org-1"] = Subscription{OrganizationID: "org-1", Status: StatusTrial, PeriodEnd: time.Now().Add(-time.Hour)}
	repo.subs["org-2"] = Subscription{OrganizationID: "org-2", Status: StatusActive, PeriodEnd: time.Now().Add(time.Hour)}
	repo.subs["org-3"] = Subscription{OrganizationID: "org-3", Status: StatusExpired, PeriodEnd: time.Now().Add(-time.Hour)}
	svc := NewService(repo)

	expired, err := svc.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, StatusExpired, repo.subs["org-1"].Status)
	assert.Equal(t, StatusActive, repo.subs["org-2"].Status)
}
