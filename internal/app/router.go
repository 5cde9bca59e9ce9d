package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yoiioy700/rbac-system/internal/assignments"
	"github.com/yoiioy700/rbac-system/internal/audit"
	"github.com/yoiioy700/rbac-system/internal/observability"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/system"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SystemHandler      *system.Handler
	RolesHandler       *roles.Handler
	AssignmentsHandler *assignments.Handler
	RBACHandler        *rbac.Handler
	AuditHandler       *audit.Handler
	RBACMiddleware     rbac.Middleware
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with rbacd defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/system", params.SystemHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/assignments", params.AssignmentsHandler.MountRoutes)
		params.RBACHandler.MountRoutes(r)
		r.Route("/audit", func(r chi.Router) {
			// Reading the audit trail requires the admin permission.
			r.Use(params.RBACMiddleware.Require(rbac.PermissionAdmin))
			params.AuditHandler.MountRoutes(r)
		})
	})

	return r
}
