package authz

// rolePermissions is the role/permission matrix. Every role in the catalog
// has exactly one entry; the matrix is fixed at compile time and never
// mutated, so concurrent lookups need no coordination.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: AllPermissions(),
	RoleOrgAdmin: {
		PermOrgView,
		PermOrgEdit,
		PermUsersView,
		PermUsersEdit,
		PermTasksView,
		PermTasksCreate,
		PermTasksEdit,
		PermTasksDelete,
		PermSubscriptionView,
		PermNotificationsView,
		PermNotificationsSend,
	},
	RoleManager: {
		PermOrgView,
		PermUsersView,
		PermTasksView,
		PermTasksCreate,
		PermTasksEdit,
		PermTasksDelete,
		PermNotificationsView,
		PermNotificationsSend,
	},
	RoleEmployee: {
		PermOrgView,
		PermTasksView,
		PermTasksCreate,
		PermTasksEdit,
		PermNotificationsView,
	},
	RoleOrgMember: {
		PermOrgView,
		PermTasksView,
		PermNotificationsView,
	},
	RoleClient: {
		PermTasksView,
		PermNotificationsView,
	},
}

var grantIndex = buildGrantIndex()

func buildGrantIndex() map[Role]map[Permission]struct{} {
	index := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		index[role] = set
	}
	return index
}

// Catalog returns every role known to the platform.
func Catalog() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleOrgAdmin,
		RoleManager,
		RoleEmployee,
		RoleOrgMember,
		RoleClient,
	}
}

// HasPermission reports whether the role holds the permission. A role
// outside the catalog fails closed with ErrInvalidRole rather than silently
// denying. RoleSuperAdmin holds every permission regardless of the matrix.
func HasPermission(role Role, permission Permission) (bool, error) {
	granted, ok := grantIndex[role]
	if !ok {
		return false, ErrInvalidRole
	}
	if role == RoleSuperAdmin {
		return true, nil
	}
	_, has := granted[permission]
	return has, nil
}

// CheckOrgAdmin fails unless the role is ORG_ADMIN. The super-admin bypass
// is applied by the middleware layer, not here.
func CheckOrgAdmin(role Role) error {
	if _, ok := grantIndex[role]; !ok {
		return ErrInvalidRole
	}
	if role != RoleOrgAdmin {
		return ErrForbidden
	}
	return nil
}
