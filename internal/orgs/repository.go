package orgs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdeck/workdeck/internal/shared"
)

// RepositoryPort defines data access methods for organizations.
type RepositoryPort interface {
	GetByID(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Create(ctx context.Context, org Organization) (Organization, error)
	Rename(ctx context.Context, id, name string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID fetches an organization.
func (r *Repository) GetByID(ctx context.Context, id string) (Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id = $1`, id)
	var org Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, shared.ErrNotFound
		}
		return Organization{}, err
	}
	return org, nil
}

// List returns all organizations, for platform-level views.
func (r *Repository) List(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at, updated_at FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new organization. Duplicate slugs map to shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, org Organization) (Organization, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO organizations (id, name, slug, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, name, slug, created_at, updated_at`, org.ID, org.Name, org.Slug)
	var created Organization
	if err := row.Scan(&created.ID, &created.Name, &created.Slug, &created.CreatedAt, &created.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Organization{}, shared.ErrDuplicate
		}
		return Organization{}, err
	}
	return created, nil
}

// Rename updates the organization display name.
func (r *Repository) Rename(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
