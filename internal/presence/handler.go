package presence

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/platform/httpx"
)

// Handler manages presence endpoints.
type Handler struct {
	logger *slog.Logger
	hub    *Hub
	authz  authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, hub *Hub, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, hub: hub, authz: mw}
}

// MountRoutes registers presence routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireOrg)
		r.Get("/ws", h.serveSocket)
		r.Get("/roster", h.showRoster)
	})
}

func (h *Handler) serveSocket(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	h.hub.Serve(w, r, *scope.OrganizationID, identity.UserID)
}

func (h *Handler) showRoster(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	members, err := h.hub.Roster(r.Context(), *scope.OrganizationID)
	if err != nil {
		h.logger.Error("presence roster", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if members == nil {
		members = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"online": members})
}
