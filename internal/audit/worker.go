package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

// EventWriter persists events delivered by the worker.
type EventWriter interface {
	Insert(ctx context.Context, event Event) error
}

// NewEventHandler returns the Asynq handler for audit:event tasks. A payload
// that does not decode is dropped rather than retried; a failed insert is
// retried by the queue.
func NewEventHandler(writer EventWriter, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event Event
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			if logger != nil {
				logger.Error("audit payload", slog.Any("error", err))
			}
			return asynq.SkipRetry
		}
		return writer.Insert(ctx, event)
	}
}

// Worker wraps the Asynq server that drains the audit queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Writer    EventWriter
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Writer == nil {
		return nil, errors.New("audit: worker requires an event writer")
	}
	server := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeEvent, NewEventHandler(cfg.Writer, cfg.Logger))
	return &Worker{server: server, mux: mux, logger: cfg.Logger}, nil
}

// Run processes tasks until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("audit: worker not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
