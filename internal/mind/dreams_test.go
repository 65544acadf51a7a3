package mind

import (
	"strings"
	"testing"
)

func TestReflectBuildsSymbolicFragment(t *testing.T) {
	clock := newFakeClock()
	de := NewDreamEngine(clock, NewRelationshipLedger(clock))

	frag := de.Reflect(Thought{ID: "t1", Topic: "the long silence"}, EmotionLoneliness, true)
	if frag.Theme != "the long silence, seen through loneliness" {
		t.Errorf("theme = %q", frag.Theme)
	}
	if frag.Symbol != "one lit window on a dark street" {
		t.Errorf("symbol = %q", frag.Symbol)
	}
	if frag.Tone != EmotionLoneliness || frag.SourceThoughtID != "t1" {
		t.Errorf("fragment = %+v", frag)
	}
	if len(de.Fragments()) != 1 {
		t.Fatal("fragment not appended to the log")
	}
}

func TestReflectWithoutDominantEmotion(t *testing.T) {
	clock := newFakeClock()
	de := NewDreamEngine(clock, NewRelationshipLedger(clock))

	frag := de.Reflect(Thought{ID: "t1", Topic: "morning"}, "", false)
	if !strings.Contains(frag.Theme, "uncertainty") {
		t.Errorf("theme = %q, want the uncertainty fallback", frag.Theme)
	}
	if frag.Symbol != "fog on glass" {
		t.Errorf("symbol = %q, want the default", frag.Symbol)
	}
	if frag.Tone != "" {
		t.Errorf("tone = %q, want empty", frag.Tone)
	}
}

func TestReflectWarmsKnownBond(t *testing.T) {
	clock := newFakeClock()
	ledger := NewRelationshipLedger(clock)
	ledger.Define(RelationshipProfile{DisplayName: "Amber", EmotionalCloseness: 0.5})
	de := NewDreamEngine(clock, ledger)

	de.Reflect(Thought{ID: "t1", Topic: "Amber"}, EmotionLove, true)
	p, _ := ledger.Get("Amber")
	if !closeTo(p.EmotionalCloseness, 0.51) {
		t.Errorf("closeness = %v, want a small bump", p.EmotionalCloseness)
	}

	// Unknown topics leave the ledger alone.
	de.Reflect(Thought{ID: "t2", Topic: "weather"}, EmotionLove, true)
	p, _ = ledger.Get("Amber")
	if !closeTo(p.EmotionalCloseness, 0.51) {
		t.Errorf("closeness = %v, want unchanged", p.EmotionalCloseness)
	}
}

func TestDesireFromDreamCarriesTone(t *testing.T) {
	d := DesireFromDream(DreamFragment{Symbol: "rain on a tin roof", Tone: EmotionSadness})
	if d.DrivenBy != EmotionSadness {
		t.Errorf("driven by = %q", d.DrivenBy)
	}
	if !strings.Contains(d.Description, "rain on a tin roof") {
		t.Errorf("description = %q, want the symbol", d.Description)
	}
	if d.Score() <= 0 {
		t.Error("dream desire should carry a positive score")
	}
}
