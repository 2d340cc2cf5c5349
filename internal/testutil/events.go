package testutil

import (
	"context"
	"sync"

	"github.com/stemsi/portfolio-backend/internal/events"
)

// Published is one event captured by Recorder.
type Published struct {
	Channel string
	Event   events.Event
}

// Recorder is an events.Publisher that keeps everything it is given.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(_ context.Context, channel string, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Channel: channel, Event: ev})
	return nil
}

// Events returns a copy of the captured events in publish order.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}
