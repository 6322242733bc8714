package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/workdeck/workdeck/internal/auth"
	"github.com/workdeck/workdeck/internal/authz"
	"github.com/workdeck/workdeck/internal/billing"
	"github.com/workdeck/workdeck/internal/notifications"
	"github.com/workdeck/workdeck/internal/observability"
	"github.com/workdeck/workdeck/internal/orgs"
	"github.com/workdeck/workdeck/internal/presence"
	"github.com/workdeck/workdeck/internal/shared"
	"github.com/workdeck/workdeck/internal/tasks"
	"github.com/workdeck/workdeck/internal/users"
	"github.com/workdeck/workdeck/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Authz          authz.Middleware

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	OrgsHandler          *orgs.Handler
	BillingHandler       *billing.Handler
	TasksHandler         *tasks.Handler
	NotificationsHandler *notifications.Handler
	PresenceHandler      *presence.Handler
	JobsHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Workdeck defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires an authenticated identity.
	r.Group(func(r chi.Router) {
		r.Use(params.Authz.RequireIdentity)

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/orgs", params.OrgsHandler.MountRoutes)
		r.Route("/billing", params.BillingHandler.MountRoutes)
		r.Route("/tasks", params.TasksHandler.MountRoutes)
		r.Route("/notifications", params.NotificationsHandler.MountRoutes)
		r.Route("/presence", params.PresenceHandler.MountRoutes)

		if params.JobsHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(params.Authz.RequireSuperAdmin)
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			})
		}
	})

	return r
}
