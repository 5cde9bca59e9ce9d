package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yoiioy700/rbac-system/internal/platform/httpx"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// EventLister reads back persisted events.
type EventLister interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Handler exposes the audit trail.
type Handler struct {
	logger *slog.Logger
	events EventLister
}

// NewHandler builds the audit HTTP handler.
func NewHandler(logger *slog.Logger, events EventLister) *Handler {
	return &Handler{logger: logger, events: events}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/events", h.listEvents)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxListLimit)
	}
	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list audit events", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"events": events})
}
