package input

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by PollEvent once a source has no more events.
var ErrClosed = errors.New("input source closed")

// Source supplies input events.
type Source interface {
	// PollEvent blocks until an event is available, the source is closed
	// (ErrClosed) or ctx is done (ctx.Err()).
	PollEvent(ctx context.Context) (Event, error)
}

// Queue is an in-memory Source. Events are delivered in posting order.
type Queue struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	return &Queue{events: make(chan Event, max(size, 1))}
}

// Script returns a closed queue holding events: it replays them and then
// reports ErrClosed.
func Script(events ...Event) *Queue {
	q := NewQueue(len(events))
	for _, ev := range events {
		q.Post(ev)
	}
	q.Close()
	return q
}

// Post enqueues ev without blocking. It returns false if the queue is full
// or closed.
func (q *Queue) Post(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.events <- ev:
		return true
	default:
		return false
	}
}

// Close stops accepting events. Events already queued are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
}

// PollEvent implements Source.
func (q *Queue) PollEvent(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-q.events:
		if !ok {
			return Event{}, ErrClosed
		}
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}
