package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workdeck/workdeck/internal/authz"
)

// Service handles subscription business logic and backs the authorization
// billing gate.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// SubscriptionStatus implements authz.SubscriptionSource. The stored status
// passes through verbatim; an unknown stored value is an infrastructure
// failure, not an access decision.
func (s *Service) SubscriptionStatus(ctx context.Context, orgID string) (authz.AccessStatus, bool, error) {
	sub, found, err := s.repo.GetByOrg(ctx, orgID)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	switch sub.Status {
	case StatusTrial:
		return authz.AccessTrial, true, nil
	case StatusActive:
		return authz.AccessActive, true, nil
	case StatusExpired:
		return authz.AccessExpired, true, nil
	default:
		return "", false, fmt.Errorf("billing: unknown subscription status %q", sub.Status)
	}
}

// GetSubscription returns the subscription for an organization, if any.
func (s *Service) GetSubscription(ctx context.Context, orgID string) (Subscription, bool, error) {
	return s.repo.GetByOrg(ctx, orgID)
}

// StartTrial opens a trial subscription for a new organization.
func (s *Service) StartTrial(ctx context.Context, orgID string, trialPeriod time.Duration) (Subscription, error) {
	return s.repo.Create(ctx, Subscription{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Plan:           "trial",
		Status:         StatusTrial,
		PeriodEnd:      time.Now().Add(trialPeriod),
	})
}

// Activate switches a subscription to the active tier until periodEnd.
func (s *Service) Activate(ctx context.Context, orgID string, periodEnd time.Time) error {
	return s.repo.SetStatus(ctx, orgID, StatusActive, periodEnd)
}

// ExpireOverdue sweeps subscriptions past their period end.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.ExpireOverdue(ctx, now)
}

var _ authz.SubscriptionSource = (*Service)(nil)
