package notifications

import "time"

// Notification kinds.
const (
	KindTaskAssigned = "task.assigned"
	KindSystem       = "system"
)

// Notification is a per-user feed entry scoped to an organization.
type Notification struct {
	ID             string
	OrganizationID string
	UserID         string
	Kind           string
	Title          string
	Body           string
	ReadAt         *time.Time
	CreatedAt      time.Time
}
