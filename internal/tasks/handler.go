package tasks

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/platform/httpx"
)

// Handler manages task endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, validator: validator.New()}
}

// MountRoutes registers task routes. Writes pass the billing gate; reads do
// not, so an expired tenant can still see its data.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermTasksView))
		r.With(h.authz.WithOrgScope).Get("/", h.listTasks)
		r.With(h.authz.RequireOrg).Get("/{taskID}", h.showTask)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermTasksCreate))
		r.Use(h.authz.RequireOrg)
		r.Use(h.authz.WithEntitlement)
		r.Post("/", h.createTask)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermTasksEdit))
		r.Use(h.authz.RequireOrg)
		r.Use(h.authz.WithEntitlement)
		r.Put("/{taskID}", h.updateTask)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermTasksDelete))
		r.Use(h.authz.RequireOrg)
		r.Use(h.authz.WithEntitlement)
		r.Delete("/{taskID}", h.deleteTask)
	})
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(t Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	if scope.OrganizationID == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"tasks": []taskResponse{}, "total": 0})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	items, pagination, err := h.service.ListTasks(r.Context(), *scope.OrganizationID, page, perPage)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]taskResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tasks":       out,
		"total":       pagination.Total,
		"page":        pagination.Page,
		"per_page":    pagination.PerPage,
		"total_pages": pagination.TotalPages,
	})
}

func (h *Handler) showTask(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	task, err := h.service.GetTask(r.Context(), *scope.OrganizationID, chi.URLParam(r, "taskID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(task))
}

type createTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=4000"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	if !h.requireEntitled(w, r) {
		return
	}
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	var req createTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	task, err := h.service.CreateTask(r.Context(), *scope.OrganizationID, identity.UserID, CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssigneeID:     req.AssigneeID,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(task))
}

type updateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=4000"`
	Status      string  `json:"status" validate:"required"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	if !h.requireEntitled(w, r) {
		return
	}
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	var req updateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	task, err := h.service.UpdateTask(r.Context(), *scope.OrganizationID, identity.UserID, chi.URLParam(r, "taskID"), UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(task))
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if !h.requireEntitled(w, r) {
		return
	}
	identity, _ := authz.IdentityFromContext(r.Context())
	scope, _ := authz.OrgFromContext(r.Context())
	if err := h.service.DeleteTask(r.Context(), *scope.OrganizationID, identity.UserID, chi.URLParam(r, "taskID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// requireEntitled branches on the billing gate. The rejection is a payment
// prompt for the client, not a security refusal, so the body names the tier
// the client should surface.
func (h *Handler) requireEntitled(w http.ResponseWriter, r *http.Request) bool {
	entitlement, ok := authz.EntitlementFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "entitlement missing")
		return false
	}
	if !entitlement.OK {
		httpx.JSON(w, http.StatusPaymentRequired, map[string]any{
			"title":         "Upgrade Required",
			"status":        http.StatusPaymentRequired,
			"access_status": string(entitlement.Status),
		})
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidStatus) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status not recognised")
		return
	}
	httpx.RespondError(w, h.logger, err)
}
