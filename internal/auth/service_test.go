package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/shared"
)

type memoryRepo struct {
	byEmail  map[string]*User
	byID     map[string]*User
	sessions map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byEmail:  make(map[string]*User),
		byID:     make(map[string]*User),
		sessions: make(map[string]string),
	}
}

func (r *memoryRepo) add(user *User) {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memoryRepo) CreateSession(_ context.Context, id, userID string, _ time.Time, _, _ string) error {
	r.sessions[id] = userID
	return nil
}

func (r *memoryRepo) DeleteSession(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func orgRef(id string) *string { return &id }

func TestAuthenticate(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(&User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "EMPLOYEE",
		IsActive:     true,
	})
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(&User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: hashPassword(t, "hunter22"),
		Role:         "EMPLOYEE",
		IsActive:     false,
	})
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "ana@example.com", "hunter22")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestResolveIdentity(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(&User{
		ID:             "u1",
		Email:          "ana@example.com",
		Role:           "MANAGER",
		OrganizationID: orgRef("org-1"),
		IsActive:       true,
	})
	svc := NewService(repo)

	identity, err := svc.ResolveIdentity(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleManager, identity.Role)
	assert.False(t, identity.IsSuperAdmin)
	require.NotNil(t, identity.OrganizationID)
	assert.Equal(t, "org-1", *identity.OrganizationID)
}

func TestResolveIdentityUnknownUser(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.ResolveIdentity(context.Background(), "ghost")
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestResolveIdentityDeactivatedUser(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(&User{ID: "u1", Email: "ana@example.com", Role: "MANAGER", IsActive: false})
	svc := NewService(repo)

	_, err := svc.ResolveIdentity(context.Background(), "u1")
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestResolveIdentityUnknownRoleFailsClosed(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(&User{ID: "u1", Email: "ana@example.com", Role: "INTERN", IsActive: true})
	svc := NewService(repo)

	_, err := svc.ResolveIdentity(context.Background(), "u1")
	assert.ErrorIs(t, err, authz.ErrInvalidRole)
}
