package tasks

import (
	"errors"
	"time"
)

// Task statuses.
const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// ErrInvalidStatus indicates a status outside the allowed set.
var ErrInvalidStatus = errors.New("tasks: invalid status")

// ValidateStatus checks a task status value.
func ValidateStatus(status string) error {
	switch status {
	case StatusOpen, StatusInProgress, StatusDone:
		return nil
	}
	return ErrInvalidStatus
}

// Task is a unit of work scoped to one organization.
type Task struct {
	ID             string
	OrganizationID string
	Title          string
	Description    string
	Status         string
	AssigneeID     *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
