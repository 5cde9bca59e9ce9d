package rbac

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoiioy700/rbac-system/internal/platform/httpx"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// DecisionObserver counts authorization decisions for metrics.
type DecisionObserver interface {
	ObserveDecision(allowed bool)
}

// Handler exposes the permission-check query and action execution.
type Handler struct {
	logger   *slog.Logger
	engine   *Engine
	executor *Executor
	validate *validator.Validate
	observer DecisionObserver
}

// NewHandler builds the rbac HTTP handler. observer may be nil.
func NewHandler(logger *slog.Logger, engine *Engine, executor *Executor, observer DecisionObserver) *Handler {
	return &Handler{
		logger:   logger,
		engine:   engine,
		executor: executor,
		validate: validator.New(),
		observer: observer,
	}
}

// MountRoutes registers the check and action routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/permissions/check", h.checkPermission)
	r.Post("/actions", h.executeAction)
}

func (h *Handler) checkPermission(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	permission := r.URL.Query().Get("permission")
	if user == "" || permission == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user and permission query parameters are required")
		return
	}
	allowed, err := h.engine.CheckPermission(r.Context(), user, Permission(permission))
	if err != nil {
		h.logger.Warn("check permission", slog.String("user", user), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveDecision(allowed)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"permission": permission,
		"allowed":    allowed,
	})
}

type executeActionRequest struct {
	Action string `json:"action" validate:"required"`
}

func (h *Handler) executeAction(w http.ResponseWriter, r *http.Request) {
	caller := shared.PrincipalFromContext(r.Context())
	if caller == "" {
		httpx.RespondError(w, fmt.Errorf("missing principal: %w", shared.ErrUnauthorized))
		return
	}
	var req executeActionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "action is required")
		return
	}
	if err := h.executor.Execute(r.Context(), caller, Action(req.Action)); err != nil {
		if h.observer != nil {
			h.observer.ObserveDecision(false)
		}
		httpx.RespondError(w, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveDecision(true)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"action": req.Action,
		"status": "executed",
	})
}
