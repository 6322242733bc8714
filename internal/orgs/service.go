package orgs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/workdeck/workdeck/internal/shared"
)

var titleCaser = cases.Title(language.English)

// Service handles organization business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// GetOrganization fetches one organization by id.
func (s *Service) GetOrganization(ctx context.Context, id string) (Organization, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrganizations returns every organization on the platform.
func (s *Service) ListOrganizations(ctx context.Context) ([]Organization, error) {
	return s.repo.List(ctx)
}

// CreateOrganization provisions a new tenant with a normalized display name
// and a unique slug.
func (s *Service) CreateOrganization(ctx context.Context, actorID, name string) (Organization, error) {
	name = normalizeName(name)
	if name == "" {
		return Organization{}, errors.New("orgs: name required")
	}
	org := Organization{
		ID:   uuid.NewString(),
		Name: name,
		Slug: slugify(name),
	}
	created, err := s.repo.Create(ctx, org)
	if err != nil {
		return Organization{}, err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		OrgID:    created.ID,
		Action:   "org.create",
		Entity:   "organization",
		EntityID: created.ID,
		Meta:     map[string]any{"name": created.Name},
	})
	return created, nil
}

// Rename updates the tenant display name.
func (s *Service) Rename(ctx context.Context, actorID, orgID, name string) error {
	name = normalizeName(name)
	if name == "" {
		return errors.New("orgs: name required")
	}
	if err := s.repo.Rename(ctx, orgID, name); err != nil {
		return err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		OrgID:    orgID,
		Action:   "org.rename",
		Entity:   "organization",
		EntityID: orgID,
		Meta:     map[string]any{"name": name},
	})
	return nil
}

func normalizeName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

func slugify(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, "_", "-")
	if base == "" {
		base = "org"
	}
	return base + "-" + uuid.NewString()[:8]
}
