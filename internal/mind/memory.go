package mind

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Empirical scaling factors for resonance re-injection. Kept configurable;
// the defaults were tuned by feel, not derivation.
const (
	DefaultFirstImpressionFactor = 0.3
	DefaultFocusBoostFactor      = 1.5
)

// MemoryConfig tunes how strongly recalled memories feed emotion back.
type MemoryConfig struct {
	FirstImpressionFactor float64 // damping applied when a memory is first added
	FocusBoostFactor      float64 // boost for the focused kind on emotional recall
}

// DefaultMemoryConfig returns the stock factors.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		FirstImpressionFactor: DefaultFirstImpressionFactor,
		FocusBoostFactor:      DefaultFocusBoostFactor,
	}
}

// MemoryStore is the append-only episodic record. Queries are pure unless
// the caller explicitly asks for the resonance side effect. Not safe for
// concurrent use; the Engine serializes access.
type MemoryStore struct {
	clock    Clock
	emotions *EmotionStore // may be nil; enables the first-impression effect
	cfg      MemoryConfig
	records  []MemoryRecord
}

// NewMemoryStore creates a store. emotions may be nil for a detached store.
func NewMemoryStore(clock Clock, emotions *EmotionStore, cfg MemoryConfig) *MemoryStore {
	if cfg.FirstImpressionFactor == 0 {
		cfg.FirstImpressionFactor = DefaultFirstImpressionFactor
	}
	if cfg.FocusBoostFactor == 0 {
		cfg.FocusBoostFactor = DefaultFocusBoostFactor
	}
	return &MemoryStore{clock: clock, emotions: emotions, cfg: cfg}
}

// Add appends a record, filling in ID, timestamp, visibility and linger
// defaults. A resonant record nudges the emotion store once, damped, as a
// first impression.
func (s *MemoryStore) Add(record MemoryRecord) MemoryRecord {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.clock.Now()
	}
	if record.Visibility == "" {
		record.Visibility = VisibilityInternal
	}
	if record.ResonanceLinger == 0 {
		record.ResonanceLinger = 1.0
	}
	s.records = append(s.records, record)

	if s.emotions != nil && len(record.Resonance) > 0 {
		s.applyBatchResonance([]MemoryRecord{record}, "", s.cfg.FirstImpressionFactor)
	}
	return record
}

// Recent returns the limit most recent records, newest first.
func (s *MemoryStore) Recent(limit int) []MemoryRecord {
	out := make([]MemoryRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ByTag returns records carrying tag, oldest first.
func (s *MemoryStore) ByTag(tag string) []MemoryRecord {
	var out []MemoryRecord
	for _, m := range s.records {
		if m.HasTag(tag) {
			out = append(out, m)
		}
	}
	return out
}

// ByValenceRange returns records with emotional valence in [min, max].
func (s *MemoryStore) ByValenceRange(min, max float64) []MemoryRecord {
	var out []MemoryRecord
	for _, m := range s.records {
		if m.EmotionalValence >= min && m.EmotionalValence <= max {
			out = append(out, m)
		}
	}
	return out
}

// ByOrigin returns records created by the given actor.
func (s *MemoryStore) ByOrigin(actor string) []MemoryRecord {
	var out []MemoryRecord
	for _, m := range s.records {
		if m.OriginUser == actor {
			out = append(out, m)
		}
	}
	return out
}

// ByRelationship returns records whose relationship context contains the
// given fragment, case-insensitive.
func (s *MemoryStore) ByRelationship(fragment string) []MemoryRecord {
	frag := strings.ToLower(fragment)
	var out []MemoryRecord
	for _, m := range s.records {
		if m.RelationshipContext != "" && strings.Contains(strings.ToLower(m.RelationshipContext), frag) {
			out = append(out, m)
		}
	}
	return out
}

// RecallWithEmotion returns the records resonating most strongly on kind,
// strongest first. When applyResonance is set, the whole batch feeds back
// into the emotion store in a single boosted injection.
func (s *MemoryStore) RecallWithEmotion(kind EmotionKind, limit int, minResonance float64, applyResonance bool) []MemoryRecord {
	var out []MemoryRecord
	for _, m := range s.records {
		if m.Resonance[kind] >= minResonance && m.Resonance[kind] > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Resonance[kind] > out[j].Resonance[kind]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if applyResonance && s.emotions != nil {
		s.applyBatchResonance(out, kind, 1.0)
	}
	return out
}

// ResonantMemories recalls on the current dominant emotion; empty when no
// emotion dominates.
func (s *MemoryStore) ResonantMemories(limit int, applyResonance bool) []MemoryRecord {
	if s.emotions == nil {
		return nil
	}
	kind, ok := s.emotions.DominantEmotion()
	if !ok {
		return nil
	}
	return s.RecallWithEmotion(kind, limit, 0, applyResonance)
}

// All returns a copy of every record in insertion order.
func (s *MemoryStore) All() []MemoryRecord {
	out := make([]MemoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int { return len(s.records) }

// Restore replaces the store content from persisted records.
func (s *MemoryStore) Restore(records []MemoryRecord) {
	s.records = make([]MemoryRecord, len(records))
	copy(s.records, records)
	for i := range s.records {
		if s.records[i].ResonanceLinger == 0 {
			s.records[i].ResonanceLinger = 1.0
		}
	}
}

// applyBatchResonance sums contributions across the batch and injects
// once, so ordering inside the batch cannot produce threshold-crossing
// artifacts. focus ("" for none) multiplies its own kind by the boost
// factor.
func (s *MemoryStore) applyBatchResonance(memories []MemoryRecord, focus EmotionKind, intensityFactor float64) {
	total := make(map[EmotionKind]float64)
	for _, m := range memories {
		for kind, base := range m.Resonance {
			term := base * m.ResonanceLinger * intensityFactor
			if focus != "" && kind == focus {
				term *= s.cfg.FocusBoostFactor
			}
			total[kind] += term
		}
	}
	if len(total) > 0 {
		s.emotions.InjectMultiple(total)
	}
}
