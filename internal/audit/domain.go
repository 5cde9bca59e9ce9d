// Package audit records the system's mutation events out of band: services
// enqueue events on the task queue and a worker persists them, keeping the
// request path free of audit writes.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event types, one per mutating operation.
const (
	EventSystemInitialized = "system.initialized"
	EventRoleCreated       = "role.created"
	EventRoleAssigned      = "role.assigned"
	EventRoleRevoked       = "role.revoked"
	EventActionExecuted    = "action.executed"
)

// Event is one audit record.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       string            `json:"type"`
	Actor      string            `json:"actor"`
	Subject    string            `json:"subject,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
