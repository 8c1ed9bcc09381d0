package audit

import "context"

// Publisher hands events to the worker over a buffered channel. Emit never
// blocks a mutation path: when the buffer is full the event is dropped and
// the drop is observable through Dropped.
type Publisher struct {
	inbox   chan Event
	dropped chan struct{}
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:   make(chan Event, buffer),
		dropped: make(chan struct{}, 1),
	}
}

// Emit enqueues an event. Registry mutations must not stall on a slow sink,
// so a full buffer drops the event rather than blocking.
func (p *Publisher) Emit(_ context.Context, event Event) {
	select {
	case p.inbox <- event:
	default:
		select {
		case p.dropped <- struct{}{}:
		default:
		}
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Dropped signals that at least one event was dropped since the last read.
func (p *Publisher) Dropped() <-chan struct{} {
	return p.dropped
}
