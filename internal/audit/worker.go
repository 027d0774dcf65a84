package audit

import (
	"context"
	"log/slog"
)

// Worker consumes events from the publisher's inbox and persists them. Sink
// failures are logged and skipped; the worker never stops over one bad write.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run blocks until the context is canceled, draining the inbox.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", string(event.Action),
					"user_id", event.UserID.String(),
					"error", err,
				)
			}
		}
	}
}
