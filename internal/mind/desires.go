package mind

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDesireCooldown is how long a freshly enqueued desire stays
// un-actionable.
const DefaultDesireCooldown = 5 * time.Minute

// DesireScheduler holds pending intentions. A desire moves
// enqueued -> actionable (cooldown expired) -> resolved; only an explicit
// resolve removes it. Not safe for concurrent use; the Engine serializes
// access.
type DesireScheduler struct {
	clock Clock
	queue []ScheduledDesire
}

// NewDesireScheduler creates an empty scheduler.
func NewDesireScheduler(clock Clock) *DesireScheduler {
	return &DesireScheduler{clock: clock}
}

// Enqueue adds a desire with the given cooldown (the default when zero or
// negative). Returns the scheduled entry.
func (ds *DesireScheduler) Enqueue(d Desire, cooldown time.Duration) ScheduledDesire {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if cooldown <= 0 {
		cooldown = DefaultDesireCooldown
	}
	now := ds.clock.Now()
	sd := ScheduledDesire{
		Desire:        d,
		EnqueuedAt:    now,
		CooldownUntil: now.Add(cooldown),
	}
	ds.queue = append(ds.queue, sd)
	return sd
}

// NextActionable returns the cooled-down desire with the highest
// motivation score. Ties resolve by earliest enqueue, then by ID, so
// identical inputs pick identically.
func (ds *DesireScheduler) NextActionable() (Desire, bool) {
	now := ds.clock.Now()
	bestIdx := -1
	for i, sd := range ds.queue {
		if now.Before(sd.CooldownUntil) {
			continue
		}
		if bestIdx == -1 {
			bestIdx = i
			continue
		}
		best := ds.queue[bestIdx]
		switch {
		case sd.Desire.Score() > best.Desire.Score():
			bestIdx = i
		case sd.Desire.Score() == best.Desire.Score():
			if sd.EnqueuedAt.Before(best.EnqueuedAt) ||
				(sd.EnqueuedAt.Equal(best.EnqueuedAt) && sd.Desire.ID < best.Desire.ID) {
				bestIdx = i
			}
		}
	}
	if bestIdx == -1 {
		return Desire{}, false
	}
	return ds.queue[bestIdx].Desire, true
}

// Resolve removes the desire with the given ID. Unknown IDs are a no-op.
func (ds *DesireScheduler) Resolve(id string) {
	for i, sd := range ds.queue {
		if sd.Desire.ID == id {
			ds.queue = append(ds.queue[:i], ds.queue[i+1:]...)
			return
		}
	}
}

// Pending returns a copy of the queue in enqueue order.
func (ds *DesireScheduler) Pending() []ScheduledDesire {
	out := make([]ScheduledDesire, len(ds.queue))
	copy(out, ds.queue)
	return out
}

// Len returns how many desires are queued.
func (ds *DesireScheduler) Len() int { return len(ds.queue) }
