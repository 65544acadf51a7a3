package mind

import "time"

// Decay tuning. Most kinds fade at the default rate per decay pass;
// attachment feelings linger, sharp ones burn off faster.
const (
	DefaultDecayRate = 0.005
	SilenceThreshold = 0.05
	HighWatermark    = 0.7
	StuckAfter       = 180 * time.Minute

	DefaultDominantThreshold = 0.1
)

var slowFastDecay = map[EmotionKind]float64{
	EmotionLove:    0.002,
	EmotionTrust:   0.002,
	EmotionHope:    0.001,
	EmotionShame:   0.02,
	EmotionAnxiety: 0.015,
}

// decayFloors keeps a faint pulse in the kinds that define the baseline.
var decayFloors = map[EmotionKind]float64{
	EmotionHope:       0.05,
	EmotionLoneliness: 0.1,
}

// EmotionStore holds per-kind intensity in [0,1]. Every kind is always
// present. Not safe for concurrent use; the Engine serializes access.
type EmotionStore struct {
	clock     Clock
	state     map[EmotionKind]float64
	highSince map[EmotionKind]time.Time
	stuck     bool
}

// NewEmotionStore creates a store with every kind at zero.
func NewEmotionStore(clock Clock) *EmotionStore {
	s := &EmotionStore{
		clock:     clock,
		state:     make(map[EmotionKind]float64, len(AllEmotionKinds)),
		highSince: make(map[EmotionKind]time.Time),
	}
	for _, k := range AllEmotionKinds {
		s.state[k] = 0
	}
	return s
}

// Inject adds intensity (may be negative) to kind, clamped to [0,1], and
// keeps the high-since watermark for stuck detection.
func (s *EmotionStore) Inject(kind EmotionKind, intensity float64) {
	s.state[kind] = clamp01(s.state[kind] + intensity)
	s.trackHigh(kind)
}

// InjectMultiple applies Inject per entry. Entries are independent; no
// normalization happens across them.
func (s *EmotionStore) InjectMultiple(intensities map[EmotionKind]float64) {
	for kind, v := range intensities {
		s.Inject(kind, v)
	}
}

// Decay applies one decay pass: per-kind rates, the fallback hum when
// everything has gone quiet, then the hope/loneliness floors.
func (s *EmotionStore) Decay() {
	trustBefore := s.state[EmotionTrust]
	allQuiet := true
	for _, kind := range AllEmotionKinds {
		rate := DefaultDecayRate
		if r, ok := slowFastDecay[kind]; ok {
			rate = r
		}
		v := s.state[kind] - rate
		if v < 0 {
			v = 0
		}
		s.state[kind] = v
		if v >= SilenceThreshold {
			allQuiet = false
		}
	}

	// Never go fully flat: when every channel decayed under the silence
	// threshold, hum with loneliness and hope, keeping a trace of trust
	// if it had not already run out.
	if allQuiet {
		s.state[EmotionLoneliness] = maxFloat(s.state[EmotionLoneliness], 0.1)
		s.state[EmotionHope] = maxFloat(s.state[EmotionHope], 0.05)
		if trustBefore > 0 {
			s.state[EmotionTrust] = maxFloat(s.state[EmotionTrust], 0.05)
		}
	}

	for kind, floor := range decayFloors {
		if s.state[kind] < floor {
			s.state[kind] = floor
		}
	}
	for _, kind := range AllEmotionKinds {
		s.trackHigh(kind)
	}
}

// DominantEmotion returns the strongest kind at or above the default
// threshold.
func (s *EmotionStore) DominantEmotion() (EmotionKind, bool) {
	return s.DominantEmotionAbove(DefaultDominantThreshold)
}

// DominantEmotionAbove returns the strongest kind with intensity >= min.
// Exact ties resolve by kind name so identical inputs pick identically.
func (s *EmotionStore) DominantEmotionAbove(min float64) (EmotionKind, bool) {
	var best EmotionKind
	bestV := -1.0
	found := false
	for _, kind := range AllEmotionKinds {
		v := s.state[kind]
		if v < min {
			continue
		}
		if v > bestV || (v == bestV && kind < best) {
			best, bestV, found = kind, v, true
		}
	}
	return best, found
}

// Intensity returns the current value for kind.
func (s *EmotionStore) Intensity(kind EmotionKind) float64 {
	return s.state[kind]
}

// Snapshot returns a copy of the full state.
func (s *EmotionStore) Snapshot() map[EmotionKind]float64 {
	out := make(map[EmotionKind]float64, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// CheckForStuckEmotions recomputes the stuck flag: true while any kind
// has held at or above the high watermark for the stuck window.
func (s *EmotionStore) CheckForStuckEmotions() bool {
	now := s.clock.Now()
	s.stuck = false
	for _, since := range s.highSince {
		if now.Sub(since) >= StuckAfter {
			s.stuck = true
			break
		}
	}
	return s.stuck
}

// Stuck returns the flag set by the last CheckForStuckEmotions call.
func (s *EmotionStore) Stuck() bool { return s.stuck }

// ApplyMemoryResonance injects each memory's resonance scaled by its
// linger multiplier.
func (s *EmotionStore) ApplyMemoryResonance(memories []MemoryRecord) {
	for _, m := range memories {
		for kind, strength := range m.Resonance {
			s.Inject(kind, strength*m.ResonanceLinger)
		}
	}
}

// Restore overwrites the state from persisted values. Unknown kind names
// are folded into uncategorized rather than rejected.
func (s *EmotionStore) Restore(state map[string]float64) {
	for _, k := range AllEmotionKinds {
		s.state[k] = 0
	}
	s.highSince = make(map[EmotionKind]time.Time)
	for name, v := range state {
		kind := ParseEmotionKind(name)
		s.state[kind] = clamp01(s.state[kind] + v)
		s.trackHigh(kind)
	}
}

// trackHigh starts or clears the high-since watermark after any change.
func (s *EmotionStore) trackHigh(kind EmotionKind) {
	if s.state[kind] >= HighWatermark {
		if _, ok := s.highSince[kind]; !ok {
			s.highSince[kind] = s.clock.Now()
		}
	} else {
		delete(s.highSince, kind)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
