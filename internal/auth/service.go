package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID string, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

// ResolveIdentity loads the identity backing a session user. Deactivated
// accounts resolve as unauthorized; a stored role outside the catalog fails
// closed rather than defaulting.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (authz.Identity, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return authz.Identity{}, authz.ErrUnauthorized
		}
		return authz.Identity{}, err
	}
	if !user.IsActive {
		return authz.Identity{}, authz.ErrUnauthorized
	}
	role, err := authz.ParseRole(user.Role)
	if err != nil {
		return authz.Identity{}, err
	}
	return authz.Identity{
		UserID:         user.ID,
		Role:           role,
		IsSuperAdmin:   user.IsSuperAdmin,
		OrganizationID: user.OrganizationID,
	}, nil
}

var _ authz.IdentityResolver = (*Service)(nil)
