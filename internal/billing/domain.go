package billing

import "time"

// Status values stored on a subscription row. The absence of a row is a
// distinct derived state, never stored.
const (
	StatusTrial   = "TRIAL"
	StatusActive  = "ACTIVE"
	StatusExpired = "EXPIRED"
)

// Subscription is the 0-or-1 billing record attached to an organization.
type Subscription struct {
	ID             string
	OrganizationID string
	Plan           string
	Status         string
	PeriodEnd      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
