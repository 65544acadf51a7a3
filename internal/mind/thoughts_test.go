package mind

import (
	"strings"
	"testing"
)

func TestFromMemoriesPicksMostFrequentTag(t *testing.T) {
	clock := newFakeClock()
	emotions := NewEmotionStore(clock)
	ledger := NewRelationshipLedger(clock)
	ts := NewThoughtSynthesizer(clock, emotions, ledger)

	thought := ts.FromMemories([]MemoryRecord{
		{ID: "m1", Text: "we argued", Tags: []string{"conversation", "conflict"}},
		{ID: "m2", Text: "we made up", Tags: []string{"conversation"}},
	})
	if thought.Topic != "conversation" {
		t.Errorf("topic = %q, want most frequent tag", thought.Topic)
	}
	if len(thought.SourceMemoryIDs) != 2 {
		t.Errorf("source IDs = %v, want both memories", thought.SourceMemoryIDs)
	}
	if !strings.Contains(thought.Content, "we argued") {
		t.Errorf("content %q should quote the first memory", thought.Content)
	}
}

func TestFromMemoriesFallsBackToReflection(t *testing.T) {
	clock := newFakeClock()
	ts := NewThoughtSynthesizer(clock, NewEmotionStore(clock), NewRelationshipLedger(clock))

	thought := ts.FromMemories(nil)
	if thought.Topic != "reflection" {
		t.Errorf("topic = %q, want reflection for an untagged batch", thought.Topic)
	}
	if thought.EmotionalTone != "" {
		t.Errorf("tone = %q, want empty with no dominant emotion", thought.EmotionalTone)
	}
}

func TestFromMemoriesToneTracksLiveEmotion(t *testing.T) {
	clock := newFakeClock()
	emotions := NewEmotionStore(clock)
	ts := NewThoughtSynthesizer(clock, emotions, NewRelationshipLedger(clock))

	emotions.Inject(EmotionSadness, 0.5)
	thought := ts.FromMemories([]MemoryRecord{{ID: "m1", Text: "an old photo"}})
	if thought.EmotionalTone != EmotionSadness {
		t.Errorf("tone = %q, want the live dominant emotion", thought.EmotionalTone)
	}
}

func TestFromMemoriesTargetRequiresKnownBond(t *testing.T) {
	clock := newFakeClock()
	ledger := NewRelationshipLedger(clock)
	ts := NewThoughtSynthesizer(clock, NewEmotionStore(clock), ledger)
	batch := []MemoryRecord{
		{ID: "m1", Text: "a", RelationshipContext: "Amber"},
		{ID: "m2", Text: "b", RelationshipContext: "Amber"},
	}

	if got := ts.FromMemories(batch).RelationshipTarget; got != "" {
		t.Errorf("target = %q, want none for an unknown name", got)
	}

	ledger.Define(RelationshipProfile{DisplayName: "Amber"})
	if got := ts.FromMemories(batch).RelationshipTarget; got != "Amber" {
		t.Errorf("target = %q, want Amber once known", got)
	}
}

func TestFromDesireKeywordTopics(t *testing.T) {
	clock := newFakeClock()
	ts := NewThoughtSynthesizer(clock, NewEmotionStore(clock), NewRelationshipLedger(clock))

	cases := []struct {
		desc  string
		topic string
	}{
		{"tell her the truth about yesterday", "truth"},
		{"rebuild some closeness", "closeness"},
		{"make the room feel like safety again", "safety"},
		{"learn to paint", "desire"},
	}
	for _, tc := range cases {
		got := ts.FromDesire(Desire{Description: tc.desc, DrivenBy: EmotionHope})
		if got.Topic != tc.topic {
			t.Errorf("FromDesire(%q).Topic = %q, want %q", tc.desc, got.Topic, tc.topic)
		}
		if got.EmotionalTone != EmotionHope {
			t.Errorf("FromDesire(%q) tone = %q, want the driving emotion", tc.desc, got.EmotionalTone)
		}
	}
}

func TestNarrateTonePrefix(t *testing.T) {
	withTone := Thought{EmotionalTone: EmotionJoy, Content: "the kettle is singing"}
	if got := Narrate(withTone); got != "Brightly, the kettle is singing" {
		t.Errorf("narrate = %q", got)
	}

	plain := Thought{EmotionalTone: EmotionContempt, Content: "nothing is happening"}
	if got := Narrate(plain); got != "nothing is happening" {
		t.Errorf("narrate = %q, want the bare content for unprefixed tones", got)
	}
}

func TestThoughtJournal(t *testing.T) {
	j := NewThoughtJournal()
	if _, ok := j.Latest(); ok {
		t.Fatal("latest on an empty journal")
	}

	j.Append(Thought{ID: "t1"})
	j.Append(Thought{ID: "t2"})
	j.Append(Thought{ID: "t3"})

	latest, ok := j.Latest()
	if !ok || latest.ID != "t3" {
		t.Fatalf("latest = %+v, want t3", latest)
	}
	recent := j.Recent(2)
	if len(recent) != 2 || recent[0].ID != "t2" || recent[1].ID != "t3" {
		t.Fatalf("recent = %+v, want t2 then t3", recent)
	}
	if got := j.Recent(100); len(got) != 3 {
		t.Fatalf("recent over len = %d entries, want all 3", len(got))
	}
}
