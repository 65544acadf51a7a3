package mind

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Relationship thresholds and the closeness decay defaults.
const (
	EmotionalSafetyTrustMin = 0.6
	FadingClosenessMax      = 0.3

	DefaultClosenessDecayAge  = 3 * 24 * time.Hour
	DefaultClosenessDecayRate = 0.01
)

// RelationshipLedger keeps one profile per known person, keyed by
// display name case-insensitively. Profiles are never deleted in normal
// operation. Not safe for concurrent use; the Engine serializes access.
type RelationshipLedger struct {
	clock    Clock
	profiles map[string]*RelationshipProfile // key = lowercased display name
}

// NewRelationshipLedger creates an empty ledger.
func NewRelationshipLedger(clock Clock) *RelationshipLedger {
	return &RelationshipLedger{
		clock:    clock,
		profiles: make(map[string]*RelationshipProfile),
	}
}

// Define inserts or overwrites a profile. On overwrite the identity,
// creation time and last interaction of the existing record survive.
func (l *RelationshipLedger) Define(p RelationshipProfile) {
	key := strings.ToLower(p.DisplayName)
	now := l.clock.Now()
	if existing, ok := l.profiles[key]; ok {
		existing.RelationshipLabel = p.RelationshipLabel
		existing.TrustScore = clamp01(p.TrustScore)
		existing.EmotionalCloseness = clamp01(p.EmotionalCloseness)
		existing.CanShareEmotion = p.CanShareEmotion
		existing.IsPrimary = p.IsPrimary
		existing.Annotations = append([]string(nil), p.Annotations...)
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.LastInteraction.IsZero() {
		p.LastInteraction = now
	}
	p.TrustScore = clamp01(p.TrustScore)
	p.EmotionalCloseness = clamp01(p.EmotionalCloseness)
	p.Annotations = append([]string(nil), p.Annotations...)
	l.profiles[key] = &p
}

// Get returns a copy of the profile for name, if known.
func (l *RelationshipLedger) Get(name string) (RelationshipProfile, bool) {
	p, ok := l.profiles[strings.ToLower(name)]
	if !ok {
		return RelationshipProfile{}, false
	}
	out := *p
	out.Annotations = append([]string(nil), p.Annotations...)
	return out, true
}

// Knows reports whether name has a profile.
func (l *RelationshipLedger) Knows(name string) bool {
	_, ok := l.profiles[strings.ToLower(name)]
	return ok
}

// IncreaseTrust adds amount to the trust score, clamped. Unknown names
// are a no-op.
func (l *RelationshipLedger) IncreaseTrust(name string, amount float64) {
	if p, ok := l.profiles[strings.ToLower(name)]; ok {
		p.TrustScore = clamp01(p.TrustScore + amount)
	}
}

// IncreaseCloseness adds amount to emotional closeness, clamped. Unknown
// names are a no-op.
func (l *RelationshipLedger) IncreaseCloseness(name string, amount float64) {
	if p, ok := l.profiles[strings.ToLower(name)]; ok {
		p.EmotionalCloseness = clamp01(p.EmotionalCloseness + amount)
	}
}

// Touch stamps the last interaction time. Trust and closeness are left
// alone.
func (l *RelationshipLedger) Touch(name string) {
	if p, ok := l.profiles[strings.ToLower(name)]; ok {
		p.LastInteraction = l.clock.Now()
	}
}

// DecayCloseness lowers closeness by rate for every profile not
// interacted with inside maxAge. The caller enforces the once-per-day
// cadence, not the ledger. Returns how many profiles faded.
func (l *RelationshipLedger) DecayCloseness(maxAge time.Duration, rate float64) int {
	now := l.clock.Now()
	faded := 0
	for _, p := range l.profiles {
		if now.Sub(p.LastInteraction) < maxAge || p.EmotionalCloseness <= 0 {
			continue
		}
		p.EmotionalCloseness = clamp01(p.EmotionalCloseness - rate)
		faded++
	}
	return faded
}

// EmotionallySafe reports whether name consented to shared emotion and
// has earned enough trust.
func (l *RelationshipLedger) EmotionallySafe(name string) bool {
	p, ok := l.profiles[strings.ToLower(name)]
	return ok && p.CanShareEmotion && p.TrustScore >= EmotionalSafetyTrustMin
}

// Fading reports whether the bond with name has thinned out.
func (l *RelationshipLedger) Fading(name string) bool {
	p, ok := l.profiles[strings.ToLower(name)]
	return ok && p.EmotionalCloseness < FadingClosenessMax
}

// All returns copies of every profile, ordered by display name.
func (l *RelationshipLedger) All() []RelationshipProfile {
	out := make([]RelationshipProfile, 0, len(l.profiles))
	for _, p := range l.profiles {
		cp := *p
		cp.Annotations = append([]string(nil), p.Annotations...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out
}

// Names returns every known display name, ordered.
func (l *RelationshipLedger) Names() []string {
	all := l.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.DisplayName
	}
	return names
}

// Restore replaces the ledger content from persisted profiles.
func (l *RelationshipLedger) Restore(profiles []RelationshipProfile) {
	l.profiles = make(map[string]*RelationshipProfile, len(profiles))
	for _, p := range profiles {
		cp := p
		l.profiles[strings.ToLower(p.DisplayName)] = &cp
	}
}
