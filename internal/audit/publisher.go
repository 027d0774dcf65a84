package audit

import (
	"context"
	"time"

	id "pathway/pkg/domain"
)

// Sink accepts events for persistence. Kafka and in-memory sinks implement it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that can also be queried, used by the in-memory trail.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher hands events to a buffered channel so emitting never blocks a
// user-facing mutation. A full buffer drops the event; the trail is
// operational, not a system of record.
type Publisher struct {
	inbox chan Event
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer)}
}

// Emit queues an event, stamping the time when unset.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
	}
}

// Inbox exposes the channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
