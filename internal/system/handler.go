package system

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yoiioy700/rbac-system/internal/platform/httpx"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Handler exposes system lifecycle endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the system HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers system routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/initialize", h.initialize)
	r.Get("/", h.state)
}

type stateResponse struct {
	Admin     string `json:"admin"`
	RoleCount uint32 `json:"role_count"`
	UserCount uint32 `json:"user_count"`
	Active    bool   `json:"active"`
}

func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	caller := shared.PrincipalFromContext(r.Context())
	if caller == "" {
		httpx.RespondError(w, fmt.Errorf("missing principal: %w", shared.ErrUnauthorized))
		return
	}
	state, err := h.service.Initialize(r.Context(), caller)
	if err != nil {
		h.logger.Warn("initialize", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("system initialized", slog.String("admin", caller))
	httpx.JSON(w, http.StatusCreated, stateResponse(state))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stateResponse(state))
}
