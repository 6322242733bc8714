package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string
	Role           string
	IsSuperAdmin   bool
	OrganizationID *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
