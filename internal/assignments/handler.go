package assignments

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

// Handler exposes assignment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the assignments HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers assignment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.assign)
	r.Get("/{user}", h.get)
	r.Delete("/{user}", h.revoke)
}

type assignRequest struct {
	User string `json:"user" validate:"required"`
	Role string `json:"role" validate:"required"`
}

type assignmentResponse struct {
	User       string    `json:"user"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	caller := shared.PrincipalFromContext(r.Context())
	if caller == "" {
		httpx.RespondError(w, fmt.Errorf("missing principal: %w", shared.ErrUnauthorized))
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user and role are required")
		return
	}
	asg, err := h.service.Assign(r.Context(), caller, req.User, req.Role)
	if err != nil {
		h.logger.Warn("assign role", slog.String("user", req.User), slog.String("role", req.Role), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, assignmentResponse(asg))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	asg, err := h.service.Get(r.Context(), user)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, assignmentResponse(asg))
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	caller := shared.PrincipalFromContext(r.Context())
	if caller == "" {
		httpx.RespondError(w, fmt.Errorf("missing principal: %w", shared.ErrUnauthorized))
		return
	}
	user := chi.URLParam(r, "user")
	if err := h.service.Revoke(r.Context(), caller, user); err != nil {
		h.logger.Warn("revoke role", slog.String("user", user), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
