package notifications

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/platform/httpx"
)

// Handler manages notification feed endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermNotificationsView))
		r.Use(h.authz.WithOrgScope)
		r.Get("/", h.listNotifications)
		r.Post("/{notificationID}/read", h.markRead)
	})
}

type notificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	if scope.OrganizationID == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"notifications": []notificationResponse{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.ListForUser(r.Context(), *scope.OrganizationID, identity.UserID, limit)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	if scope.OrganizationID == nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Organization", "a concrete organization is required")
		return
	}
	err := h.service.MarkRead(r.Context(), *scope.OrganizationID, identity.UserID, chi.URLParam(r, "notificationID"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}
