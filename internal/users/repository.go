package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdeck/workdeck/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListByOrg(ctx context.Context, orgID string) ([]User, error)
	Create(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateRole(ctx context.Context, orgID, userID, role string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByOrg returns all users belonging to the organization.
func (r *Repository) ListByOrg(ctx context.Context, orgID string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, name, role, organization_id, is_active, created_at, updated_at FROM users WHERE organization_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.OrganizationID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user row. Duplicate emails map to shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user User, passwordHash string) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users (id, email, name, password_hash, role, organization_id, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
RETURNING id, email, name, role, organization_id, is_active, created_at, updated_at`,
		user.ID, user.Email, user.Name, passwordHash, user.Role, user.OrganizationID)
	var created User
	if err := row.Scan(&created.ID, &created.Email, &created.Name, &created.Role, &created.OrganizationID, &created.IsActive, &created.CreatedAt, &created.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return created, nil
}

// UpdateRole changes a user's role within the same organization.
func (r *Repository) UpdateRole(ctx context.Context, orgID, userID, role string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 AND organization_id = $3`, role, userID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
