package authz

import "context"

// SubscriptionSource fetches the stored subscription status for an
// organization. The found flag distinguishes an absent subscription row
// from an infrastructure failure.
type SubscriptionSource interface {
	SubscriptionStatus(ctx context.Context, orgID string) (AccessStatus, bool, error)
}

// Gate derives the billing access tier for an organization.
type Gate struct {
	Source SubscriptionSource
}

// AccessStatusByOrg returns the tier for the given organization. A nil org
// short-circuits to NO_SUBSCRIPTION without a lookup, as does an absent
// subscription row; otherwise the stored status is passed through verbatim.
func (g Gate) AccessStatusByOrg(ctx context.Context, orgID *string) (AccessStatus, error) {
	if orgID == nil || *orgID == "" {
		return AccessNoSubscription, nil
	}
	status, found, err := g.Source.SubscriptionStatus(ctx, *orgID)
	if err != nil {
		return "", err
	}
	if !found {
		return AccessNoSubscription, nil
	}
	return status, nil
}

// PaidOrTrialByOrg reports whether the organization is entitled to paid
// features. Billing gating is a redirect-to-upgrade business rule, not a
// security boundary, so the result is reported rather than failed; the only
// error returned is an infrastructure failure from the source.
func (g Gate) PaidOrTrialByOrg(ctx context.Context, orgID *string) (Entitlement, error) {
	status, err := g.AccessStatusByOrg(ctx, orgID)
	if err != nil {
		return Entitlement{}, err
	}
	return Entitlement{
		OK:     status == AccessActive || status == AccessTrial,
		Status: status,
	}, nil
}
