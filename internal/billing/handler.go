package billing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/platform/httpx"
)

// Handler exposes subscription status to tenants.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	gate        authz.Gate
	authz       authz.Middleware
	trialPeriod time.Duration
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Gate, mw authz.Middleware, trialPeriod time.Duration) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, authz: mw, trialPeriod: trialPeriod}
}

// MountRoutes registers billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.PermSubscriptionView))
		r.Use(h.authz.WithOrgScope)
		r.Get("/subscription", h.showSubscription)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireOrgAdmin)
		r.Use(h.authz.RequireOrg)
		r.Post("/subscription/trial", h.startTrial)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSuperAdmin)
		r.Post("/subscription/activate", h.activate)
	})
}

type subscriptionResponse struct {
	AccessStatus string     `json:"access_status"`
	Entitled     bool       `json:"entitled"`
	Plan         string     `json:"plan,omitempty"`
	PeriodEnd    *time.Time `json:"period_end,omitempty"`
}

// showSubscription reports the derived access tier. An unresolved
// organization short-circuits to NO_SUBSCRIPTION without a lookup.
func (h *Handler) showSubscription(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	entitlement, err := h.gate.PaidOrTrialByOrg(r.Context(), scope.OrganizationID)
	if err != nil {
		h.logger.Error("billing gate", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resp := subscriptionResponse{
		AccessStatus: string(entitlement.Status),
		Entitled:     entitlement.OK,
	}
	if scope.OrganizationID != nil {
		if sub, found, err := h.service.GetSubscription(r.Context(), *scope.OrganizationID); err == nil && found {
			resp.Plan = sub.Plan
			periodEnd := sub.PeriodEnd
			resp.PeriodEnd = &periodEnd
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// startTrial opens the trial tier for the caller's organization. A second
// call conflicts instead of resetting the clock.
func (h *Handler) startTrial(w http.ResponseWriter, r *http.Request) {
	scope, _ := authz.OrgFromContext(r.Context())
	sub, err := h.service.StartTrial(r.Context(), *scope.OrganizationID, h.trialPeriod)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	periodEnd := sub.PeriodEnd
	httpx.JSON(w, http.StatusCreated, subscriptionResponse{
		AccessStatus: string(authz.AccessTrial),
		Entitled:     true,
		Plan:         sub.Plan,
		PeriodEnd:    &periodEnd,
	})
}

type activateRequest struct {
	OrganizationID string    `json:"organization_id"`
	PeriodEnd      time.Time `json:"period_end"`
}

// activate marks a tenant subscription as paid. Platform operators call
// this after payment clears; there is no self-service checkout.
func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if req.OrganizationID == "" || req.PeriodEnd.IsZero() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "organization_id and period_end are required")
		return
	}
	if err := h.service.Activate(r.Context(), req.OrganizationID, req.PeriodEnd); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": StatusActive})
}
