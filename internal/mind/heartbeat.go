package mind

import (
	"context"
	"sync"
	"time"
)

// Pacing constants. Rate is a multiplier on the base tick; the period is
// base/rate, so dreaming stretches the beat and agitation shortens it.
const (
	DefaultBaseTick = 1 * time.Second

	RateDream  = 0.25
	RateIdle   = 0.5
	RateNormal = 1.0
	RateMax    = 3.0

	SpiralThreshold = 5
)

// CognitiveClock paces thought generation and guards against spirals:
// too many consecutive thoughts without an interaction force the pace
// back down to idle. It also runs the heartbeat that drives idle ticks.
type CognitiveClock struct {
	mu          sync.Mutex
	base        time.Duration
	rate        float64
	consecutive int

	subscribers []func()
	running     bool
	stop        chan struct{}
	rateChanged chan struct{}
}

// NewCognitiveClock creates a clock at the normal rate. base <= 0 uses
// the default one-second tick.
func NewCognitiveClock(base time.Duration) *CognitiveClock {
	if base <= 0 {
		base = DefaultBaseTick
	}
	return &CognitiveClock{base: base, rate: RateNormal}
}

// Rate returns the current rate multiplier.
func (c *CognitiveClock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// SetRate clamps and applies a rate, restarting the heartbeat period if
// one is running.
func (c *CognitiveClock) SetRate(rate float64) {
	c.mu.Lock()
	if rate < RateDream {
		rate = RateDream
	}
	if rate > RateMax {
		rate = RateMax
	}
	c.rate = rate
	running := c.running
	ch := c.rateChanged
	c.mu.Unlock()
	if running {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// WaitForThought suspends for one thought period, then counts the
// thought. When the counter has already reached the spiral threshold it
// instead forces the idle rate, resets the counter and returns
// immediately: the governor against runaway generation.
func (c *CognitiveClock) WaitForThought(ctx context.Context) error {
	c.mu.Lock()
	if c.consecutive >= SpiralThreshold {
		c.consecutive = 0
		c.mu.Unlock()
		c.SetRate(RateIdle)
		return nil
	}
	period := time.Duration(float64(c.base) / c.rate)
	c.mu.Unlock()

	t := time.NewTimer(period)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	c.mu.Lock()
	c.consecutive++
	c.mu.Unlock()
	return nil
}

// ConsecutiveThoughts returns the current spiral counter.
func (c *CognitiveClock) ConsecutiveThoughts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutive
}

// MarkInteraction resets the spiral counter and restores the normal rate.
func (c *CognitiveClock) MarkInteraction() {
	c.mu.Lock()
	c.consecutive = 0
	c.mu.Unlock()
	c.SetRate(RateNormal)
}

// EnterIdleState resets the counter and slows to the idle rate.
func (c *CognitiveClock) EnterIdleState() {
	c.mu.Lock()
	c.consecutive = 0
	c.mu.Unlock()
	c.SetRate(RateIdle)
}

// EnterDreamState resets the counter and slows to the dream rate.
func (c *CognitiveClock) EnterDreamState() {
	c.mu.Lock()
	c.consecutive = 0
	c.mu.Unlock()
	c.SetRate(RateDream)
}

// Subscribe registers fn for every heartbeat tick. Subscribers run in
// registration order on the heartbeat goroutine; they must be quick or
// hand off.
func (c *CognitiveClock) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// StartHeartbeat begins ticking: once immediately, then at the current
// rate. Rate changes restart the period inside the single tick goroutine,
// so a tick can never be delivered twice across a restart. No-op if
// already running.
func (c *CognitiveClock) StartHeartbeat(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.rateChanged = make(chan struct{}, 1)
	stop := c.stop
	rateChanged := c.rateChanged
	c.mu.Unlock()

	go func() {
		c.fire()
		t := time.NewTimer(c.period())
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-rateChanged:
				if !t.Stop() {
					select {
					case <-t.C:
					default:
					}
				}
				t.Reset(c.period())
			case <-t.C:
				c.fire()
				t.Reset(c.period())
			}
		}
	}()
}

// StopHeartbeat halts the heartbeat goroutine. No-op if not running.
func (c *CognitiveClock) StopHeartbeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
}

func (c *CognitiveClock) period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(float64(c.base) / c.rate)
}

func (c *CognitiveClock) fire() {
	c.mu.Lock()
	subs := make([]func(), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
