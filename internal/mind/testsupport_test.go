package mind

import (
	"sync"
	"time"
)

// fakeClock moves only when told to, so tests simulate hours in no time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// captureRecorder collects events for assertions.
type captureRecorder struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	name   string
	fields map[string]any
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{}
}

func (r *captureRecorder) Record(event string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, capturedEvent{name: event, fields: fields})
}

func (r *captureRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.name == name {
			n++
		}
	}
	return n
}

func (r *captureRecorder) has(name string) bool {
	return r.count(name) > 0
}
