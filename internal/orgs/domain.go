package orgs

import "time"

// Organization is an isolated customer account. All data is scoped to at
// most one organization except for super-admin operations.
type Organization struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
