package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	events []Event
	err    error
}

func (w *fakeWriter) Insert(ctx context.Context, event Event) error {
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, event)
	return nil
}

func TestEventHandlerPersistsEvent(t *testing.T) {
	writer := &fakeWriter{}
	handler := NewEventHandler(writer, nil)

	event := Event{
		ID:         uuid.New(),
		Type:       EventRoleAssigned,
		Actor:      "alice",
		Subject:    "bob",
		Detail:     map[string]string{"role": "manager"},
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	task, err := NewEventTask(event)
	require.NoError(t, err)
	require.Equal(t, TaskTypeEvent, task.Type())

	require.NoError(t, handler(context.Background(), task))
	require.Len(t, writer.events, 1)
	require.Equal(t, event, writer.events[0])
}

func TestEventHandlerSkipsBadPayload(t *testing.T) {
	writer := &fakeWriter{}
	handler := NewEventHandler(writer, nil)

	task := asynq.NewTask(TaskTypeEvent, []byte("not json"))
	err := handler(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, writer.events)
}

func TestEventHandlerPropagatesInsertFailure(t *testing.T) {
	boom := errors.New("boom")
	writer := &fakeWriter{err: boom}
	handler := NewEventHandler(writer, nil)

	task, err := NewEventTask(Event{ID: uuid.New(), Type: EventRoleRevoked})
	require.NoError(t, err)

	// Insert failures bubble up so the queue retries them.
	require.ErrorIs(t, handler(context.Background(), task), boom)
}

func TestEventTaskPayloadShape(t *testing.T) {
	event := Event{
		ID:      uuid.New(),
		Type:    EventRoleCreated,
		Actor:   "alice",
		Subject: "manager",
		Detail:  map[string]string{"permissions": "read,update"},
	}
	task, err := NewEventTask(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	require.Equal(t, "role.created", decoded["type"])
	require.Equal(t, "alice", decoded["actor"])
	require.Equal(t, "manager", decoded["subject"])
}
