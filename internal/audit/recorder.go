package audit

import (
	"context"
	"log/slog"
	"time"
)

// Recorder hands events to the background worker without blocking the
// pipeline. A full inbox drops the event with a warning; auditing must never
// stall a validation run.
type Recorder struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewRecorder(buffer int, logger *slog.Logger) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{inbox: make(chan Event, buffer), logger: logger}
}

// Emit queues an event for the worker.
func (r *Recorder) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		if r.logger != nil {
			r.logger.WarnContext(ctx, "audit inbox full, event dropped",
				"action", event.Action,
				"document_id", event.DocumentID,
			)
		}
	}
}

// Inbox exposes the channel for the worker.
func (r *Recorder) Inbox() <-chan Event {
	return r.inbox
}

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
