package audit

import (
	"context"
	"log/slog"
	"time"
)

// Worker consumes audit events from a channel and hands them to the sink. It
// keeps background processing testable without wiring queue implementations
// into request handling.
type Worker struct {
	sink  Sink
	inbox <-chan Event
	log   *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, log *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, log: log}
}

// Run drains the inbox until the context is canceled. Sink failures are
// logged and skipped; audit must never take the service down.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.log.ErrorContext(ctx, "audit append failed",
					"transaction_id", event.TransactionID,
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}

// Recorder is the producing side handed to services. A nil Recorder drops
// events, so wiring audit stays optional in tests.
type Recorder struct {
	outbox chan<- Event
	log    *slog.Logger
	now    func() time.Time
}

func NewRecorder(outbox chan<- Event, log *slog.Logger) *Recorder {
	return &Recorder{outbox: outbox, log: log, now: time.Now}
}

// Record stamps and enqueues an event. When the outbox is full the event is
// dropped with a warning rather than blocking the request path.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	select {
	case r.outbox <- event:
	default:
		r.log.WarnContext(ctx, "audit outbox full, dropping event",
			"transaction_id", event.TransactionID,
			"action", event.Action,
		)
	}
}
