package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	status AccessStatus
	found  bool
	err    error
}

func (s staticSource) SubscriptionStatus(context.Context, string) (AccessStatus, bool, error) {
	return s.status, s.found, s.err
}

func TestAccessStatusByOrgNilOrg(t *testing.T) {
	gate := Gate{Source: staticSource{status: AccessActive, found: true}}

	status, err := gate.AccessStatusByOrg(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, AccessNoSubscription, status)

	empty := ""
	status, err = gate.AccessStatusByOrg(context.Background(), &empty)
	require.NoError(t, err)
	assert.Equal(t, AccessNoSubscription, status)
}

func TestAccessStatusByOrgAbsentRow(t *testing.T) {
	gate := Gate{Source: staticSource{found: false}}
	orgID := "org-1"

	status, err := gate.AccessStatusByOrg(context.Background(), &orgID)
	require.NoError(t, err)
	assert.Equal(t, AccessNoSubscription, status)
}

func TestAccessStatusByOrgPassesThroughStoredStatus(t *testing.T) {
	orgID := "org-1"
	for _, stored := range []AccessStatus{AccessTrial, AccessActive, AccessExpired} {
		gate := Gate{Source: staticSource{status: stored, found: true}}
		status, err := gate.AccessStatusByOrg(context.Background(), &orgID)
		require.NoError(t, err)
		assert.Equal(t, stored, status)
	}
}

func TestPaidOrTrialByOrg(t *testing.T) {
	orgID := "org-1"
	cases := []struct {
		status AccessStatus
		found  bool
		ok     bool
	}{
		{AccessTrial, true, true},
		{AccessActive, true, true},
		{AccessExpired, true, false},
		{"", false, false},
	}
	for _, tc := range cases {
		gate := Gate{Source: staticSource{status: tc.status, found: tc.found}}
		entitlement, err := gate.PaidOrTrialByOrg(context.Background(), &orgID)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, entitlement.OK, "status %s", tc.status)
		if !tc.found {
			assert.Equal(t, AccessNoSubscription, entitlement.Status)
		} else {
			assert.Equal(t, tc.status, entitlement.Status)
		}
	}
}

func TestPaidOrTrialByOrgSourceFailure(t *testing.T) {
	orgID := "org-1"
	gate := Gate{Source: staticSource{err: errors.New("connection refused")}}

	_, err := gate.PaidOrTrialByOrg(context.Background(), &orgID)
	assert.Error(t, err)
}
