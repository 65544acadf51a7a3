package mind

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LLMRateLimiter caps outbound model calls: a sustained per-minute rate
// plus a hard minimum interval between calls. No reservations: callers
// that are denied simply skip the call this tick.
type LLMRateLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	minInterval time.Duration
	lastCall    time.Time
}

// NewLLMRateLimiter allows perMinute sustained calls with the given
// minimum spacing between any two calls.
func NewLLMRateLimiter(perMinute int, minInterval time.Duration) *LLMRateLimiter {
	if perMinute <= 0 {
		perMinute = 6
	}
	return &LLMRateLimiter{
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		minInterval: minInterval,
	}
}

// Allow reports whether a call may go out at now.
func (l *LLMRateLimiter) Allow(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.lastCall.IsZero() && now.Sub(l.lastCall) < l.minInterval {
		return false
	}
	return l.limiter.AllowN(now, 1)
}

// Record stamps a completed call. Call after a successful Generate.
func (l *LLMRateLimiter) Record(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastCall = now
}
