package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversEveryRole(t *testing.T) {
	roles := Catalog()
	require.Len(t, roles, 6)

	seen := make(map[Role]bool, len(roles))
	for _, role := range roles {
		seen[role] = true
	}
	for _, role := range []Role{RoleSuperAdmin, RoleOrgAdmin, RoleManager, RoleEmployee, RoleOrgMember, RoleClient} {
		assert.True(t, seen[role], "catalog missing %s", role)
	}
}

func TestHasPermissionIsTotalOverCatalog(t *testing.T) {
	for _, role := range Catalog() {
		for _, perm := range AllPermissions() {
			_, err := HasPermission(role, perm)
			require.NoError(t, err, "role %s permission %s", role, perm)
		}
	}
}

func TestHasPermissionGrants(t *testing.T) {
	cases := []struct {
		role    Role
		perm    Permission
		allowed bool
	}{
		{RoleSuperAdmin, PermOrgEdit, true},
		{RoleOrgAdmin, PermOrgEdit, true},
		{RoleOrgAdmin, PermUsersEdit, true},
		{RoleManager, PermTasksDelete, true},
		{RoleManager, PermOrgEdit, false},
		{RoleManager, PermUsersEdit, false},
		{RoleEmployee, PermTasksCreate, true},
		{RoleEmployee, PermTasksDelete, false},
		{RoleEmployee, PermOrgEdit, false},
		{RoleOrgMember, PermTasksView, true},
		{RoleOrgMember, PermTasksCreate, false},
		{RoleClient, PermTasksView, true},
		{RoleClient, PermOrgView, false},
	}
	for _, tc := range cases {
		allowed, err := HasPermission(tc.role, tc.perm)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "role %s permission %s", tc.role, tc.perm)
	}
}

func TestHasPermissionUnknownRoleFailsClosed(t *testing.T) {
	allowed, err := HasPermission(Role("INTERN"), PermTasksView)
	require.ErrorIs(t, err, ErrInvalidRole)
	assert.False(t, allowed)

	allowed, err = HasPermission(Role(""), PermTasksView)
	require.ErrorIs(t, err, ErrInvalidRole)
	assert.False(t, allowed)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("MANAGER")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("manager")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCheckOrgAdmin(t *testing.T) {
	require.NoError(t, CheckOrgAdmin(RoleOrgAdmin))
	assert.ErrorIs(t, CheckOrgAdmin(RoleManager), ErrForbidden)
	assert.ErrorIs(t, CheckOrgAdmin(Role("INTERN")), ErrInvalidRole)
}
