package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []*ListingEvent
	err    error
}

// NewRecorder creates a recorder; a non-nil err is returned from every Publish
func NewRecorder(err error) *Recorder {
	return &Recorder{err: err}
}

func (r *Recorder) Publish(_ context.Context, event *ListingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far
func (r *Recorder) Events() []*ListingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ListingEvent, len(r.events))
	copy(out, r.events)
	return out
}
