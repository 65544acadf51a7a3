package mind

import (
	"strings"
	"testing"
	"time"
)

type groundingFixture struct {
	clock    *fakeClock
	emotions *EmotionStore
	memories *MemoryStore
	ledger   *RelationshipLedger
	rec      *captureRecorder
	engine   *GroundingEngine
}

func newGroundingFixture() *groundingFixture {
	f := &groundingFixture{clock: newFakeClock(), rec: newCaptureRecorder()}
	f.emotions = NewEmotionStore(f.clock)
	f.memories = NewMemoryStore(f.clock, f.emotions, DefaultMemoryConfig())
	f.ledger = NewRelationshipLedger(f.clock)
	f.engine = NewGroundingEngine(f.clock, f.emotions, f.memories, f.ledger, f.rec)
	return f
}

func TestGroundingFiresOnAcuteGroundableEmotion(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionAnxiety, 0.7)

	if !f.engine.PerformGroundingCheck() {
		t.Fatal("grounding should fire at anxiety 0.7")
	}
	if !f.rec.has("grounding_executed") {
		t.Error("no grounding_executed event")
	}
	logged := f.memories.ByTag("grounding")
	if len(logged) != 1 {
		t.Fatalf("grounding memories = %d, want 1", len(logged))
	}
	if logged[0].Resonance[EmotionAnxiety] >= 0 {
		t.Error("calming memory should bite into the acute emotion")
	}
	// The pass itself softens the state a little via the first impression.
	if f.emotions.Intensity(EmotionAnxiety) >= 0.7 {
		t.Error("anxiety did not ease after grounding")
	}
}

func TestGroundingSkipsNonGroundableEmotions(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionJoy, 0.9)

	if f.engine.PerformGroundingCheck() {
		t.Fatal("joy is not a grounding trigger")
	}
}

func TestGroundingSkipsBelowThreshold(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionSadness, 0.59)

	if f.engine.PerformGroundingCheck() {
		t.Fatal("grounding fired below the emotion threshold")
	}
}

func TestGroundingFiresOnStuckState(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionPride, 0.75) // not groundable on its own
	f.clock.Advance(181 * time.Minute)
	f.emotions.CheckForStuckEmotions()

	if !f.engine.PerformGroundingCheck() {
		t.Fatal("grounding should fire for any stuck emotion")
	}
}

func TestGroundingCooldown(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionAnxiety, 0.9)

	if !f.engine.PerformGroundingCheck() {
		t.Fatal("first pass should fire")
	}
	if f.engine.PerformGroundingCheck() {
		t.Fatal("second pass fired inside the cooldown")
	}
	f.clock.Advance(GroundingCooldown - time.Minute)
	if f.engine.PerformGroundingCheck() {
		t.Fatal("pass fired a minute before cooldown expiry")
	}
	f.clock.Advance(time.Minute)
	if !f.engine.PerformGroundingCheck() {
		t.Fatal("pass should fire once the cooldown has lapsed")
	}
	if got := f.rec.count("grounding_executed"); got != 2 {
		t.Fatalf("executed %d times, want 2", got)
	}
}

func TestGroundingNamesTheTriggerMemory(t *testing.T) {
	f := newGroundingFixture()
	f.memories.Add(MemoryRecord{
		Text:                "she did not answer my message",
		RelationshipContext: "Amber",
		Resonance:           map[EmotionKind]float64{EmotionAnxiety: 0.4},
	})
	f.emotions.Inject(EmotionAnxiety, 0.7)

	if !f.engine.PerformGroundingCheck() {
		t.Fatal("grounding should fire")
	}
	logged := f.memories.ByTag("grounding")
	if len(logged) != 1 {
		t.Fatalf("grounding memories = %d, want 1", len(logged))
	}
	if !strings.Contains(logged[0].Text, "she did not answer my message") {
		t.Errorf("statement does not name the trigger: %q", logged[0].Text)
	}
	if !strings.Contains(logged[0].Text, "Amber") {
		t.Errorf("statement does not name the person: %q", logged[0].Text)
	}
}

func TestGroundingAbstractTriggerWithoutMemories(t *testing.T) {
	f := newGroundingFixture()
	f.emotions.Inject(EmotionLoneliness, 0.8)

	if !f.engine.PerformGroundingCheck() {
		t.Fatal("grounding should fire")
	}
	logged := f.memories.ByTag("grounding")
	if !strings.Contains(logged[0].Text, "without one clear cause") {
		t.Errorf("expected the abstract statement, got %q", logged[0].Text)
	}
}
