package orgs

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/platform/httpx"
	"github.com/workdeck/workdeck/internal/shared"
)

// Handler manages organization endpoints, including super-admin
// impersonation of a tenant.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	audit     *shared.AuditLogger
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, authz: mw, validator: validator.New()}
}

// MountRoutes registers organization routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermOrgView))
		r.With(h.authz.WithOrgScope).Get("/me", h.showMyOrg)
		r.With(h.authz.RequireTarget("orgID")).Get("/{orgID}", h.showOrg)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermOrgEdit))
		r.Use(h.authz.RequireOrg)
		r.Put("/me", h.renameMyOrg)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSuperAdmin)
		r.Get("/", h.listOrgs)
		r.Post("/", h.createOrg)
		r.Post("/{orgID}/impersonate", h.enterImpersonation)
		r.Delete("/impersonate", h.exitImpersonation)
	})
}

type orgResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(org Organization) orgResponse {
	return orgResponse{ID: org.ID, Name: org.Name, Slug: org.Slug, CreatedAt: org.CreatedAt}
}

// showMyOrg tolerates an unresolved organization and returns null instead of
// failing, so platform-level accounts get a graceful empty result.
func (h *Handler) showMyOrg(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	if scope.OrganizationID == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"organization": nil})
		return
	}
	org, err := h.service.GetOrganization(r.Context(), *scope.OrganizationID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"organization": toResponse(org)})
}

func (h *Handler) showOrg(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	org, err := h.service.GetOrganization(r.Context(), orgID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"organization": toResponse(org)})
}

func (h *Handler) listOrgs(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListOrganizations(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]orgResponse, 0, len(all))
	for _, org := range all {
		out = append(out, toResponse(org))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"organizations": out})
}

type orgNameRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

func (h *Handler) createOrg(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	var req orgNameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	org, err := h.service.CreateOrganization(r.Context(), identity.UserID, req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(org))
}

func (h *Handler) renameMyOrg(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	var req orgNameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Rename(r.Context(), identity.UserID, *scope.OrganizationID, req.Name); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// enterImpersonation records the target organization in the session. It
// changes which tenant's data is visible; the actor's role is untouched and
// every permission check still applies to the actor's own identity.
func (h *Handler) enterImpersonation(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "session unavailable")
		return
	}
	orgID := chi.URLParam(r, "orgID")
	org, err := h.service.GetOrganization(r.Context(), orgID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	sess.SetImpersonatedOrg(org.ID)
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  identity.UserID,
		OrgID:    org.ID,
		Action:   "org.impersonate.enter",
		Entity:   "organization",
		EntityID: org.ID,
	}); err != nil {
		h.logger.Warn("audit impersonation", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "impersonating", "organization_id": org.ID})
}

func (h *Handler) exitImpersonation(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "session unavailable")
		return
	}
	orgID, active := sess.ImpersonatedOrg()
	sess.ClearImpersonatedOrg()
	if active {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  identity.UserID,
			OrgID:    orgID,
			Action:   "org.impersonate.exit",
			Entity:   "organization",
			EntityID: orgID,
		}); err != nil {
			h.logger.Warn("audit impersonation", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	httpx.RespondError(w, h.logger, err)
}
