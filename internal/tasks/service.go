package tasks

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/workdeck/workdeck/internal/shared"
)

// Notifier fans a task event out to the assignee. Implemented by the
// notifications module; delivery happens asynchronously.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, orgID, userID, taskID, title string) error
}

// CreateTaskInput collects fields for a new task.
type CreateTaskInput struct {
	Title          string
	Description    string
	AssigneeID     *string
	IdempotencyKey string
}

// UpdateTaskInput collects mutable task fields.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	AssigneeID  *string
}

// Service handles task business logic.
type Service struct {
	repo        RepositoryPort
	audit       *shared.AuditLogger
	idempotency *shared.IdempotencyStore
	notifier    Notifier
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, idempotency *shared.IdempotencyStore, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, idempotency: idempotency, notifier: notifier}
}

// ListTasks returns one page of the organization's tasks.
func (s *Service) ListTasks(ctx context.Context, orgID string, page, perPage int) ([]Task, shared.Pagination, error) {
	items, total, err := s.repo.ListByOrg(ctx, orgID, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// GetTask fetches one task within the organization.
func (s *Service) GetTask(ctx context.Context, orgID, taskID string) (Task, error) {
	return s.repo.Get(ctx, orgID, taskID)
}

// CreateTask inserts a new task. A supplied idempotency key guards against
// duplicate submissions; the key is released again when the insert fails.
func (s *Service) CreateTask(ctx context.Context, orgID, actorID string, input CreateTaskInput) (Task, error) {
	if key := input.IdempotencyKey; key != "" {
		if err := s.idempotency.CheckAndInsert(ctx, key, "tasks"); err != nil {
			return Task{}, err
		}
	}
	task := Task{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Status:         StatusOpen,
		AssigneeID:     input.AssigneeID,
		CreatedBy:      actorID,
	}
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		if key := input.IdempotencyKey; key != "" {
			_ = s.idempotency.Delete(ctx, key)
		}
		return Task{}, err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		OrgID:    orgID,
		Action:   "task.create",
		Entity:   "task",
		EntityID: created.ID,
		Meta:     map[string]any{"title": created.Title},
	})
	if created.AssigneeID != nil && s.notifier != nil {
		_ = s.notifier.NotifyTaskAssigned(ctx, orgID, *created.AssigneeID, created.ID, created.Title)
	}
	return created, nil
}

// UpdateTask rewrites a task's mutable fields and notifies a newly assigned
// user.
func (s *Service) UpdateTask(ctx context.Context, orgID, actorID, taskID string, input UpdateTaskInput) (Task, error) {
	if err := ValidateStatus(input.Status); err != nil {
		return Task{}, err
	}
	current, err := s.repo.Get(ctx, orgID, taskID)
	if err != nil {
		return Task{}, err
	}
	updated, err := s.repo.Update(ctx, Task{
		ID:             taskID,
		OrganizationID: orgID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Status:         input.Status,
		AssigneeID:     input.AssigneeID,
	})
	if err != nil {
		return Task{}, err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		OrgID:    orgID,
		Action:   "task.update",
		Entity:   "task",
		EntityID: taskID,
		Meta:     map[string]any{"status": updated.Status},
	})
	if updated.AssigneeID != nil && s.notifier != nil && !sameAssignee(current.AssigneeID, updated.AssigneeID) {
		_ = s.notifier.NotifyTaskAssigned(ctx, orgID, *updated.AssigneeID, updated.ID, updated.Title)
	}
	return updated, nil
}

// DeleteTask removes a task within the organization.
func (s *Service) DeleteTask(ctx context.Context, orgID, actorID, taskID string) error {
	if err := s.repo.Delete(ctx, orgID, taskID); err != nil {
		return err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		OrgID:    orgID,
		Action:   "task.delete",
		Entity:   "task",
		EntityID: taskID,
	})
	return nil
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
