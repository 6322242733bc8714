package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdeck/workdeck/internal/shared"
)

// RepositoryPort defines data access methods for subscriptions.
type RepositoryPort interface {
	GetByOrg(ctx context.Context, orgID string) (Subscription, bool, error)
	Create(ctx context.Context, sub Subscription) (Subscription, error)
	SetStatus(ctx context.Context, orgID, status string, periodEnd time.Time) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const subscriptionColumns = `id, organization_id, plan, status, period_end, created_at, updated_at`

// GetByOrg fetches the subscription for an organization. The bool reports
// whether a row exists, distinguishing absence from failure.
func (r *Repository) GetByOrg(ctx context.Context, orgID string) (Subscription, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE organization_id = $1`, orgID)
	var sub Subscription
	err := row.Scan(&sub.ID, &sub.OrganizationID, &sub.Plan, &sub.Status, &sub.PeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, false, nil
		}
		return Subscription{}, false, err
	}
	return sub, true, nil
}

// Create inserts a subscription row. An organization holds at most one;
// duplicates map to shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, sub Subscription) (Subscription, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO subscriptions (id, organization_id, plan, status, period_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING `+subscriptionColumns, sub.ID, sub.OrganizationID, sub.Plan, sub.Status, sub.PeriodEnd)
	var created Subscription
	if err := row.Scan(&created.ID, &created.OrganizationID, &created.Plan, &created.Status, &created.PeriodEnd, &created.CreatedAt, &created.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Subscription{}, shared.ErrDuplicate
		}
		return Subscription{}, err
	}
	return created, nil
}

// SetStatus updates the stored status and billing period end.
func (r *Repository) SetStatus(ctx context.Context, orgID, status string, periodEnd time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET status = $1, period_end = $2, updated_at = NOW() WHERE organization_id = $3`, status, periodEnd, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExpireOverdue marks every trial or active subscription past its period end
// as expired and reports how many rows changed.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET status = $1, updated_at = NOW() WHERE status IN ($2, $3) AND period_end < $4`,
		StatusExpired, StatusTrial, StatusActive, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ RepositoryPort = (*Repository)(nil)
