package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdeck/workdeck/internal/shared"
)

// RepositoryPort defines data access methods for notifications.
type RepositoryPort interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByUser(ctx context.Context, orgID, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, orgID, userID, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const notificationColumns = `id, organization_id, user_id, kind, title, body, read_at, created_at`

// Create inserts a notification row.
func (r *Repository) Create(ctx context.Context, n Notification) (Notification, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO notifications (id, organization_id, user_id, kind, title, body, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING `+notificationColumns,
		n.ID, n.OrganizationID, n.UserID, n.Kind, n.Title, n.Body)
	var created Notification
	if err := row.Scan(&created.ID, &created.OrganizationID, &created.UserID, &created.Kind, &created.Title, &created.Body, &created.ReadAt, &created.CreatedAt); err != nil {
		return Notification{}, err
	}
	return created, nil
}

// ListByUser returns the newest notifications for a user.
func (r *Repository) ListByUser(ctx context.Context, orgID, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE organization_id = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT $3`,
		orgID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.OrganizationID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead stamps a notification as read. Only the owner within the same
// organization can mark it.
func (r *Repository) MarkRead(ctx context.Context, orgID, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read_at = NOW() WHERE organization_id = $1 AND user_id = $2 AND id = $3 AND read_at IS NULL`,
		orgID, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
