package orgs

import (
	"context"

	"github.com/workdeck/workdeck/internal/shared"
)

// SessionImpersonation exposes the impersonation target stored in the
// session as an authz.ImpersonationProvider. Keeping it behind the provider
// interface means the override is injected where it is evaluated instead of
// being read from ambient cookie state.
type SessionImpersonation struct{}

// ImpersonatedOrg returns the organization the current session acts as.
func (SessionImpersonation) ImpersonatedOrg(ctx context.Context) (string, bool) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return "", false
	}
	return sess.ImpersonatedOrg()
}
