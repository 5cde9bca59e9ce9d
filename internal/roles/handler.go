package roles

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoiioy700/rbac-system/internal/platform/httpx"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Handler exposes role management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the roles HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createRole)
	r.Get("/", h.listRoles)
	r.Get("/{name}", h.getRole)
}

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions"`
}

type roleResponse struct {
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(role Role) roleResponse {
	return roleResponse{
		Name:        role.Name,
		Permissions: role.Permissions.Strings(),
		CreatedAt:   role.CreatedAt,
	}
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	caller := shared.PrincipalFromContext(r.Context())
	if caller == "" {
		httpx.RespondError(w, fmt.Errorf("missing principal: %w", shared.ErrUnauthorized))
		return
	}
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "name is required")
		return
	}
	role, err := h.service.Create(r.Context(), caller, req.Name, req.Permissions)
	if err != nil {
		h.logger.Warn("create role", slog.String("name", req.Name), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(role))
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, len(all))
	for i, role := range all {
		out[i] = toResponse(role)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	role, err := h.service.Get(r.Context(), name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}
