package eventmock

import (
	"context"
	"sync"

	"sacco-backend/internal/domain/event"
)

var _ event.Publisher = (*Recorder)(nil)

// Recorder keeps every published event in order. Err, when set, is returned
// from Publish after the event has been recorded.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
	Err    error
	closed bool
}

func (r *Recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func (r *Recorder) Types() []event.Type {
	var out []event.Type
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
