package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticImpersonation struct {
	orgID string
}

func (s staticImpersonation) ImpersonatedOrg(context.Context) (string, bool) {
	return s.orgID, s.orgID != ""
}

func strptr(s string) *string { return &s }

func TestResolveOrgContextOwnOrg(t *testing.T) {
	resolver := ScopeResolver{}
	identity := Identity{UserID: "u1", Role: RoleEmployee, OrganizationID: strptr("org-1")}

	scope := resolver.ResolveOrgContext(context.Background(), identity)
	require.NotNil(t, scope.OrganizationID)
	assert.Equal(t, "org-1", *scope.OrganizationID)
}

func TestResolveOrgContextNoAffiliation(t *testing.T) {
	resolver := ScopeResolver{}
	scope := resolver.ResolveOrgContext(context.Background(), Identity{UserID: "u1", Role: RoleClient})
	assert.Nil(t, scope.OrganizationID)
}

func TestResolveOrgContextImpersonationWinsForSuperAdmin(t *testing.T) {
	resolver := ScopeResolver{Impersonation: staticImpersonation{orgID: "org-2"}}
	identity := Identity{
		UserID:         "root",
		Role:           RoleSuperAdmin,
		IsSuperAdmin:   true,
		OrganizationID: strptr("org-1"),
	}

	scope := resolver.ResolveOrgContext(context.Background(), identity)
	require.NotNil(t, scope.OrganizationID)
	assert.Equal(t, "org-2", *scope.OrganizationID)
}

func TestResolveOrgContextImpersonationIgnoredForRegularUsers(t *testing.T) {
	resolver := ScopeResolver{Impersonation: staticImpersonation{orgID: "org-2"}}
	identity := Identity{UserID: "u1", Role: RoleOrgAdmin, OrganizationID: strptr("org-1")}

	scope := resolver.ResolveOrgContext(context.Background(), identity)
	require.NotNil(t, scope.OrganizationID)
	assert.Equal(t, "org-1", *scope.OrganizationID)
}

func TestAssertOrgAccess(t *testing.T) {
	resolver := ScopeResolver{}

	orgID, err := resolver.AssertOrgAccess(context.Background(), Identity{UserID: "u1", OrganizationID: strptr("org-1")})
	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)

	_, err = resolver.AssertOrgAccess(context.Background(), Identity{UserID: "u2"})
	assert.ErrorIs(t, err, ErrNoOrganization)
}

func TestAuthorizeTarget(t *testing.T) {
	resolver := ScopeResolver{}
	member := Identity{UserID: "u1", Role: RoleOrgAdmin, OrganizationID: strptr("org-1")}
	root := Identity{UserID: "root", Role: RoleSuperAdmin, IsSuperAdmin: true}

	assert.NoError(t, resolver.AuthorizeTarget(context.Background(), member, "org-1"))
	assert.ErrorIs(t, resolver.AuthorizeTarget(context.Background(), member, "org-2"), ErrForbidden)
	assert.ErrorIs(t, resolver.AuthorizeTarget(context.Background(), member, ""), ErrNoOrganization)

	assert.NoError(t, resolver.AuthorizeTarget(context.Background(), root, "org-2"))

	orphan := Identity{UserID: "u3", Role: RoleClient}
	assert.ErrorIs(t, resolver.AuthorizeTarget(context.Background(), orphan, "org-1"), ErrNoOrganization)
}
