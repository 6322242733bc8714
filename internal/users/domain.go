package users

import "time"

// User represents a user account scoped to an organization.
type User struct {
	ID             string
	Email          string
	Name           string
	Role           string
	OrganizationID string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
