package mind

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ThoughtJournalLimit caps how many thoughts survive a restart.
const ThoughtJournalLimit = 20

// ThoughtSynthesizer turns memory batches or desires into thoughts. Tone
// always comes from the live emotion state, not from the batch itself.
type ThoughtSynthesizer struct {
	clock    Clock
	emotions *EmotionStore
	ledger   *RelationshipLedger
}

// NewThoughtSynthesizer wires a synthesizer to its stores.
func NewThoughtSynthesizer(clock Clock, emotions *EmotionStore, ledger *RelationshipLedger) *ThoughtSynthesizer {
	return &ThoughtSynthesizer{clock: clock, emotions: emotions, ledger: ledger}
}

// FromMemories synthesizes one thought over a batch. Topic is the most
// frequent tag (first-encountered wins ties, "reflection" when untagged);
// the relationship target is the most frequent context label, but only
// when the ledger confirms a known bond.
func (ts *ThoughtSynthesizer) FromMemories(memories []MemoryRecord) Thought {
	t := Thought{
		ID:        uuid.NewString(),
		Timestamp: ts.clock.Now(),
		Topic:     mostFrequent(collectTags(memories)),
	}
	if t.Topic == "" {
		t.Topic = "reflection"
	}
	if kind, ok := ts.emotions.DominantEmotion(); ok {
		t.EmotionalTone = kind
	}

	tone := "quiet"
	if t.EmotionalTone != "" {
		tone = string(t.EmotionalTone)
	}
	first := "a quiet moment"
	if len(memories) > 0 {
		first = memories[0].Text
	}
	t.Content = fmt.Sprintf("There's a feeling of %s as I come back to this: %s", tone, first)

	var contexts []string
	for _, m := range memories {
		if m.RelationshipContext != "" {
			contexts = append(contexts, m.RelationshipContext)
		}
		t.SourceMemoryIDs = append(t.SourceMemoryIDs, m.ID)
	}
	if target := mostFrequent(contexts); target != "" && ts.ledger.Knows(target) {
		t.RelationshipTarget = target
	}
	return t
}

// FromDesire synthesizes a thought about an active intention.
func (ts *ThoughtSynthesizer) FromDesire(d Desire) Thought {
	desc := strings.ToLower(d.Description)
	topic := "desire"
	switch {
	case strings.Contains(desc, "truth"):
		topic = "truth"
	case strings.Contains(desc, "closeness"):
		topic = "closeness"
	case strings.Contains(desc, "safety"):
		topic = "safety"
	}
	return Thought{
		ID:            uuid.NewString(),
		Timestamp:     ts.clock.Now(),
		Topic:         topic,
		EmotionalTone: d.DrivenBy,
		Content:       fmt.Sprintf("Something in me keeps reaching toward this: %s.", strings.TrimSuffix(d.Description, ".")),
	}
}

// tonePrefixes color narration per emotion. Kinds without an entry
// narrate plainly.
var tonePrefixes = map[EmotionKind]string{
	EmotionJoy:        "Brightly, ",
	EmotionSadness:    "Softly, ",
	EmotionFear:       "Carefully, ",
	EmotionAnger:      "Through clenched teeth, ",
	EmotionTrust:      "Steadily, ",
	EmotionLove:       "Warmly, ",
	EmotionHope:       "With a small lift, ",
	EmotionAnxiety:    "A little breathlessly, ",
	EmotionLoneliness: "Into the quiet, ",
	EmotionCuriosity:  "Leaning in, ",
	EmotionRegret:     "With a backward glance, ",
}

// Narrate renders a thought for output. Rendering is pure; it never
// touches state.
func Narrate(t Thought) string {
	prefix := tonePrefixes[t.EmotionalTone]
	return prefix + t.Content
}

// ThoughtJournal is the append-only record of synthesized thoughts.
type ThoughtJournal struct {
	thoughts []Thought
}

// NewThoughtJournal creates an empty journal.
func NewThoughtJournal() *ThoughtJournal { return &ThoughtJournal{} }

// Append records a thought.
func (j *ThoughtJournal) Append(t Thought) {
	j.thoughts = append(j.thoughts, t)
}

// Latest returns the most recent thought, if any.
func (j *ThoughtJournal) Latest() (Thought, bool) {
	if len(j.thoughts) == 0 {
		return Thought{}, false
	}
	return j.thoughts[len(j.thoughts)-1], true
}

// Recent returns up to n thoughts, newest last.
func (j *ThoughtJournal) Recent(n int) []Thought {
	if n <= 0 || n > len(j.thoughts) {
		n = len(j.thoughts)
	}
	out := make([]Thought, n)
	copy(out, j.thoughts[len(j.thoughts)-n:])
	return out
}

// Len returns the journal size.
func (j *ThoughtJournal) Len() int { return len(j.thoughts) }

// Restore replaces the journal from persisted thoughts.
func (j *ThoughtJournal) Restore(thoughts []Thought) {
	j.thoughts = make([]Thought, len(thoughts))
	copy(j.thoughts, thoughts)
}

func collectTags(memories []MemoryRecord) []string {
	var tags []string
	for _, m := range memories {
		tags = append(tags, m.Tags...)
	}
	return tags
}

// mostFrequent returns the most common value; ties resolve to the value
// encountered first.
func mostFrequent(values []string) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, v := range values {
		if v == "" {
			continue
		}
		if _, ok := firstSeen[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	best := ""
	for v, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && firstSeen[v] < firstSeen[best]) {
			best = v
		}
	}
	return best
}
