package authz

import "errors"

var (
	// ErrUnauthorized indicates no authenticated identity.
	ErrUnauthorized = errors.New("authz: unauthorized")
	// ErrInvalidRole indicates a role outside the catalog.
	ErrInvalidRole = errors.New("authz: invalid role")
	// ErrForbidden indicates an identity lacking the required permission.
	ErrForbidden = errors.New("authz: forbidden")
	// ErrNoOrganization indicates a tenant-scoped action with no resolved tenant.
	ErrNoOrganization = errors.New("authz: no organization")
)
