package authz

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/workdeck/workdeck/internal/platform/httpx"
	"github.com/workdeck/workdeck/internal/shared"
)

// IdentityResolver loads the identity backing a session user id.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// DenialRecorder counts rejected authorization checks by reason.
type DenialRecorder interface {
	RecordDenial(reason string)
}

// Middleware wires authorization checks for HTTP handlers. Checks are
// strictly ordered: identity, then permission, then organization scope,
// then billing entitlement.
type Middleware struct {
	Identities IdentityResolver
	Scope      ScopeResolver
	Gate       Gate
	Denials    DenialRecorder
	Logger     *slog.Logger
}

// RequireIdentity resolves the session user into an Identity and stores it
// in the request context. Requests without an authenticated user are
// rejected with 401.
func (m Middleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.currentUserID(r)
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		identity, err := m.Identities.ResolveIdentity(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidRole) {
				m.reject(w, err)
				return
			}
			if m.Logger != nil {
				m.Logger.Error("resolve identity", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// Require ensures the current identity holds the permission. Super-admins
// bypass the permission check. Must be mounted after RequireIdentity.
func (m Middleware) Require(permission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				m.reject(w, ErrUnauthorized)
				return
			}
			if identity.IsSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}
			allowed, err := HasPermission(identity.Role, permission)
			if err != nil {
				m.reject(w, err)
				return
			}
			if !allowed {
				m.reject(w, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin restricts a route to platform super-admins.
func (m Middleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		if !identity.IsSuperAdmin && identity.Role != RoleSuperAdmin {
			m.reject(w, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrgAdmin restricts a route to org admins, with the super-admin
// bypass applied here rather than in CheckOrgAdmin.
func (m Middleware) RequireOrgAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		if identity.IsSuperAdmin {
			next.ServeHTTP(w, r)
			return
		}
		if err := CheckOrgAdmin(identity.Role); err != nil {
			m.reject(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithOrgScope resolves the acting organization and stores it in context
// without failing on a nil resolution. Listing endpoints mount this and
// degrade to empty results.
func (m Middleware) WithOrgScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		scope := m.Scope.ResolveOrgContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ContextWithOrg(r.Context(), scope)))
	})
}

// RequireOrg resolves the acting organization and rejects the request when
// none is resolved. Mutating endpoints mount this.
func (m Middleware) RequireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		orgID, err := m.Scope.AssertOrgAccess(r.Context(), identity)
		if err != nil {
			m.reject(w, err)
			return
		}
		scope := OrgContext{OrganizationID: &orgID}
		next.ServeHTTP(w, r.WithContext(ContextWithOrg(r.Context(), scope)))
	})
}

// RequireTarget authorizes the tenant named by the given route parameter.
// Non-super-admins may only target their own organization.
func (m Middleware) RequireTarget(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				m.reject(w, ErrUnauthorized)
				return
			}
			target := strings.TrimSpace(chi.URLParam(r, param))
			if err := m.Scope.AuthorizeTarget(r.Context(), identity, target); err != nil {
				m.reject(w, err)
				return
			}
			scope := OrgContext{OrganizationID: &target}
			next.ServeHTTP(w, r.WithContext(ContextWithOrg(r.Context(), scope)))
		})
	}
}

// WithEntitlement evaluates the billing gate for the acting organization and
// stores the result in context. Handlers branch on it; an unentitled tenant
// is not rejected here because billing gating is a soft business rule.
func (m Middleware) WithEntitlement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			m.reject(w, ErrUnauthorized)
			return
		}
		scope, ok := OrgFromContext(r.Context())
		if !ok {
			scope = m.Scope.ResolveOrgContext(r.Context(), identity)
		}
		entitlement, err := m.Gate.PaidOrTrialByOrg(r.Context(), scope.OrganizationID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("billing gate", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithEntitlement(r.Context(), entitlement)))
	})
}

func (m Middleware) currentUserID(r *http.Request) (string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return "", false
	}
	userID := strings.TrimSpace(sess.User())
	if userID == "" {
		return "", false
	}
	return userID, true
}

func (m Middleware) reject(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		m.recordDenial("unauthenticated")
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, ErrInvalidRole):
		m.recordDenial("invalid_role")
		httpx.Problem(w, http.StatusForbidden, "Invalid Role", "role not recognised")
	case errors.Is(err, ErrForbidden):
		m.recordDenial("forbidden")
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "permission denied")
	case errors.Is(err, ErrNoOrganization):
		m.recordDenial("no_organization")
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Organization", "a concrete organization is required")
	default:
		m.recordDenial("internal")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func (m Middleware) recordDenial(reason string) {
	if m.Denials != nil {
		m.Denials.RecordDenial(reason)
	}
}
