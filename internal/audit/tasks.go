package audit

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue audit events flow through.
	QueueDefault = "default"
	// TaskTypeEvent is the task type for persisting one audit event.
	TaskTypeEvent = "audit:event"
)

// NewEventTask wraps an event in an Asynq task.
func NewEventTask(event Event) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeEvent, payload), nil
}
