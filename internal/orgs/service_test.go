package orgs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/workdeck/internal/shared"
)

type memoryRepo struct {
	orgs map[string]Organization
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orgs: make(map[string]Organization)}
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return Organization{}, shared.ErrNotFound
	}
	return org, nil
}

func (r *memoryRepo) List(_ context.Context) ([]Organization, error) {
	out := make([]Organization, 0, len(r.orgs))
	for _, org := range r.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, org Organization) (Organization, error) {
	r.orgs[org.ID] = org
	return org, nil
}

func (r *memoryRepo) Rename(_ context.Context, id, name string) error {
	org, ok := r.orgs[id]
	if !ok {
		return shared.ErrNotFound
	}
	org.Name = name
	r.orgs[id] = org
	return nil
}

func TestCreateOrganizationNormalizesName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	org, err := svc.CreateOrganization(context.Background(), "root", "  acme   web services ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Web Services", org.Name)
	assert.True(t, strings.HasPrefix(org.Slug, "acme-web-services-"), "slug %q", org.Slug)
	assert.NotEmpty(t, org.ID)
}

func TestCreateOrganizationSlugsAreUnique(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	first, err := svc.CreateOrganization(context.Background(), "root", "Acme")
	require.NoError(t, err)
	second, err := svc.CreateOrganization(context.Background(), "root", "Acme")
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.CreateOrganization(context.Background(), "root", "   ")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	org, err := svc.CreateOrganization(context.Background(), "root", "Acme")
	require.NoError(t, err)

	require.NoError(t, svc.Rename(context.Background(), "admin", org.ID, "acme holdings"))
	renamed, err := svc.GetOrganization(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", renamed.Name)

	assert.ErrorIs(t, svc.Rename(context.Background(), "admin", "missing", "Acme"), shared.ErrNotFound)
}
