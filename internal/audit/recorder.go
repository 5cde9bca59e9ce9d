package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Recorder enqueues audit events. Recording is best effort: an enqueue
// failure is logged and never fails the operation that produced the event.
type Recorder struct {
	client *asynq.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder builds a Recorder over an Asynq client.
func NewRecorder(client *asynq.Client, logger *slog.Logger) *Recorder {
	return &Recorder{client: client, logger: logger, now: time.Now}
}

// SystemInitialized records system activation.
func (r *Recorder) SystemInitialized(ctx context.Context, admin string) {
	r.record(ctx, Event{Type: EventSystemInitialized, Actor: admin})
}

// RoleCreated records a new role and its permission set.
func (r *Recorder) RoleCreated(ctx context.Context, actor, role string, permissions []string) {
	r.record(ctx, Event{
		Type:    EventRoleCreated,
		Actor:   actor,
		Subject: role,
		Detail:  map[string]string{"permissions": strings.Join(permissions, ",")},
	})
}

// RoleAssigned records a role binding.
func (r *Recorder) RoleAssigned(ctx context.Context, actor, user, role string) {
	r.record(ctx, Event{
		Type:    EventRoleAssigned,
		Actor:   actor,
		Subject: user,
		Detail:  map[string]string{"role": role},
	})
}

// RoleRevoked records an assignment destruction.
func (r *Recorder) RoleRevoked(ctx context.Context, actor, user string) {
	r.record(ctx, Event{Type: EventRoleRevoked, Actor: actor, Subject: user})
}

// ActionExecuted records a permitted action execution.
func (r *Recorder) ActionExecuted(ctx context.Context, actor, action, permission string) {
	r.record(ctx, Event{
		Type:    EventActionExecuted,
		Actor:   actor,
		Subject: action,
		Detail:  map[string]string{"permission": permission},
	})
}

func (r *Recorder) record(ctx context.Context, event Event) {
	if r == nil || r.client == nil {
		return
	}
	event.ID = uuid.New()
	event.OccurredAt = r.now().UTC()
	task, err := NewEventTask(event)
	if err != nil {
		r.warn(event.Type, err)
		return
	}
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		r.warn(event.Type, err)
	}
}

func (r *Recorder) warn(eventType string, err error) {
	if r.logger != nil {
		r.logger.Warn("audit enqueue", slog.String("type", eventType), slog.Any("error", err))
	}
}
