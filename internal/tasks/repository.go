package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdeck/workdeck/internal/shared"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	ListByOrg(ctx context.Context, orgID string, page, perPage int) ([]Task, int, error)
	Get(ctx context.Context, orgID, taskID string) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	Delete(ctx context.Context, orgID, taskID string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, organization_id, title, description, status, assignee_id, created_by, created_at, updated_at`

// ListByOrg returns one page of the organization's tasks plus the total count.
func (r *Repository) ListByOrg(ctx context.Context, orgID string, page, perPage int) ([]Task, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get fetches one task within the organization.
func (r *Repository) Get(ctx context.Context, orgID, taskID string) (Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE organization_id = $1 AND id = $2`, orgID, taskID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, shared.ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

// Create inserts a task row.
func (r *Repository) Create(ctx context.Context, task Task) (Task, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO tasks (id, organization_id, title, description, status, assignee_id, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
RETURNING `+taskColumns,
		task.ID, task.OrganizationID, task.Title, task.Description, task.Status, task.AssigneeID, task.CreatedBy)
	return scanTask(row)
}

// Update rewrites the mutable fields of a task within its organization.
func (r *Repository) Update(ctx context.Context, task Task) (Task, error) {
	row := r.pool.QueryRow(ctx, `UPDATE tasks SET title = $1, description = $2, status = $3, assignee_id = $4, updated_at = NOW()
WHERE organization_id = $5 AND id = $6
RETURNING `+taskColumns,
		task.Title, task.Description, task.Status, task.AssigneeID, task.OrganizationID, task.ID)
	updated, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, shared.ErrNotFound
		}
		return Task{}, err
	}
	return updated, nil
}

// Delete removes a task within the organization.
func (r *Repository) Delete(ctx context.Context, orgID, taskID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE organization_id = $1 AND id = $2`, orgID, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (Task, error) {
	var task Task
	err := row.Scan(&task.ID, &task.OrganizationID, &task.Title, &task.Description, &task.Status, &task.AssigneeID, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt)
	return task, err
}

var _ RepositoryPort = (*Repository)(nil)
