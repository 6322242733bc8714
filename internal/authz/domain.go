package authz

// Role is one of the closed set of roles a user account can hold.
type Role string

// Roles recognised by the platform. The set is fixed; roles are stored on
// the user record and never computed.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOrgAdmin   Role = "ORG_ADMIN"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleOrgMember  Role = "ORG_MEMBER"
	RoleClient     Role = "CLIENT"
)

// ParseRole validates a stored role value against the catalog.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if _, ok := rolePermissions[role]; !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Identity describes the authenticated actor as resolved from the session.
type Identity struct {
	UserID         string
	Role           Role
	IsSuperAdmin   bool
	OrganizationID *string
}

// OrgContext carries the organization an action applies to. A nil
// OrganizationID means the actor has no tenant affiliation.
type OrgContext struct {
	OrganizationID *string
}

// AccessStatus is the coarse billing tier derived for an organization.
type AccessStatus string

// Access tiers. NoSubscription is derived from the absence of a
// subscription record, the others mirror the stored status verbatim.
const (
	AccessNoSubscription AccessStatus = "NO_SUBSCRIPTION"
	AccessTrial          AccessStatus = "TRIAL"
	AccessActive         AccessStatus = "ACTIVE"
	AccessExpired        AccessStatus = "EXPIRED"
)

// Entitlement reports whether an organization may use paid features.
type Entitlement struct {
	OK     bool
	Status AccessStatus
}
