package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workdeck/workdeck/internal/authz"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users of the given organization.
func (s *Service) ListUsers(ctx context.Context, orgID string) ([]User, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

// CreateUser provisions a new account in the organization. The role must be
// in the catalog, and tenant admins cannot mint platform super-admins.
func (s *Service) CreateUser(ctx context.Context, orgID, email, name, password, role string) (User, error) {
	parsed, err := authz.ParseRole(role)
	if err != nil {
		return User{}, err
	}
	if parsed == authz.RoleSuperAdmin {
		return User{}, authz.ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:             uuid.NewString(),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Name:           strings.TrimSpace(name),
		Role:           string(parsed),
		OrganizationID: orgID,
	}
	return s.repo.Create(ctx, user, string(hash))
}

// ChangeRole updates a user's role within the organization, with the same
// catalog and super-admin restrictions as CreateUser.
func (s *Service) ChangeRole(ctx context.Context, orgID, userID, role string) error {
	parsed, err := authz.ParseRole(role)
	if err != nil {
		return err
	}
	if parsed == authz.RoleSuperAdmin {
		return authz.ErrForbidden
	}
	return s.repo.UpdateRole(ctx, orgID, userID, string(parsed))
}
