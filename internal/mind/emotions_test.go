package mind

import (
	"testing"
	"time"
)

func TestInjectClampsToUnitRange(t *testing.T) {
	s := NewEmotionStore(newFakeClock())

	s.Inject(EmotionJoy, 0.6)
	s.Inject(EmotionJoy, 0.9)
	if got := s.Intensity(EmotionJoy); got != 1.0 {
		t.Fatalf("joy = %v, want clamp at 1.0", got)
	}

	s.Inject(EmotionJoy, -5)
	if got := s.Intensity(EmotionJoy); got != 0 {
		t.Fatalf("joy = %v, want clamp at 0", got)
	}

	// A long arbitrary sequence stays in range for every kind.
	for i := 0; i < 50; i++ {
		for _, k := range AllEmotionKinds {
			s.Inject(k, 0.37)
			s.Inject(k, -0.61)
		}
		s.Decay()
	}
	for _, k := range AllEmotionKinds {
		v := s.Intensity(k)
		if v < 0 || v > 1 {
			t.Fatalf("%s = %v, out of [0,1]", k, v)
		}
	}
}

func TestDecayRatesAndFloors(t *testing.T) {
	s := NewEmotionStore(newFakeClock())
	s.Inject(EmotionLove, 0.5)
	s.Inject(EmotionShame, 0.5)
	s.Inject(EmotionJoy, 0.5)

	s.Decay()

	if got, want := s.Intensity(EmotionLove), 0.498; !closeTo(got, want) {
		t.Errorf("love = %v, want %v", got, want)
	}
	if got, want := s.Intensity(EmotionShame), 0.48; !closeTo(got, want) {
		t.Errorf("shame = %v, want %v", got, want)
	}
	if got, want := s.Intensity(EmotionJoy), 0.495; !closeTo(got, want) {
		t.Errorf("joy = %v, want %v", got, want)
	}
}

func TestFallbackHumNeverGoesFlat(t *testing.T) {
	s := NewEmotionStore(newFakeClock())

	// Everything already at/under the silence threshold.
	for i := 0; i < 200; i++ {
		s.Decay()
	}
	if got := s.Intensity(EmotionHope); got < 0.05 {
		t.Errorf("hope = %v, want >= 0.05", got)
	}
	if got := s.Intensity(EmotionLoneliness); got < 0.1 {
		t.Errorf("loneliness = %v, want >= 0.1", got)
	}
}

func TestHumKeepsTrustOnlyWhenNonZero(t *testing.T) {
	s := NewEmotionStore(newFakeClock())
	s.Inject(EmotionTrust, 0.04) // below silence threshold, above zero
	s.Decay()
	if got := s.Intensity(EmotionTrust); got < 0.05 {
		t.Errorf("trust = %v, want hum to 0.05 while trust was nonzero", got)
	}

	s2 := NewEmotionStore(newFakeClock())
	s2.Decay()
	if got := s2.Intensity(EmotionTrust); got != 0 {
		t.Errorf("trust = %v, want 0 when it had already run out", got)
	}
}

func TestStuckEmotionDetection(t *testing.T) {
	clock := newFakeClock()
	s := NewEmotionStore(clock)

	s.Inject(EmotionAnxiety, 0.8)
	if s.CheckForStuckEmotions() {
		t.Fatal("stuck immediately, want only after the window")
	}

	clock.Advance(179 * time.Minute)
	if s.CheckForStuckEmotions() {
		t.Fatal("stuck at 179min, want >= 180min")
	}

	clock.Advance(2 * time.Minute)
	// A competing lower injection must not clear the watermark.
	s.Inject(EmotionJoy, 0.3)
	if !s.CheckForStuckEmotions() {
		t.Fatal("not stuck after 181min continuously >= 0.7")
	}

	// Dropping below the watermark clears it.
	s.Inject(EmotionAnxiety, -0.3)
	if s.CheckForStuckEmotions() {
		t.Fatal("still stuck after anxiety dropped below the watermark")
	}
}

func TestDominantEmotion(t *testing.T) {
	s := NewEmotionStore(newFakeClock())

	if _, ok := s.DominantEmotion(); ok {
		t.Fatal("dominant on an empty store")
	}

	s.Inject(EmotionJoy, 0.05) // below default threshold
	if _, ok := s.DominantEmotion(); ok {
		t.Fatal("dominant below threshold")
	}

	s.Inject(EmotionSadness, 0.4)
	s.Inject(EmotionJoy, 0.2)
	kind, ok := s.DominantEmotion()
	if !ok || kind != EmotionSadness {
		t.Fatalf("dominant = %v %v, want sadness", kind, ok)
	}
}

func TestDominantEmotionTieIsDeterministic(t *testing.T) {
	pick := func() EmotionKind {
		s := NewEmotionStore(newFakeClock())
		s.Inject(EmotionPride, 0.5)
		s.Inject(EmotionEnvy, 0.5)
		kind, _ := s.DominantEmotion()
		return kind
	}
	first := pick()
	for i := 0; i < 10; i++ {
		if got := pick(); got != first {
			t.Fatalf("tie pick changed between runs: %v then %v", first, got)
		}
	}
}

func TestApplyMemoryResonanceUsesLinger(t *testing.T) {
	s := NewEmotionStore(newFakeClock())
	s.ApplyMemoryResonance([]MemoryRecord{
		{Resonance: map[EmotionKind]float64{EmotionTrust: 0.2}, ResonanceLinger: 2.0},
	})
	if got, want := s.Intensity(EmotionTrust), 0.4; !closeTo(got, want) {
		t.Fatalf("trust = %v, want %v", got, want)
	}
}

func TestRestoreMapsUnknownKinds(t *testing.T) {
	s := NewEmotionStore(newFakeClock())
	s.Restore(map[string]float64{
		"joy":         0.3,
		"melancholia": 0.2, // not a known kind
	})
	if got, want := s.Intensity(EmotionJoy), 0.3; !closeTo(got, want) {
		t.Fatalf("joy = %v, want %v", got, want)
	}
	if got, want := s.Intensity(EmotionUncategorized), 0.2; !closeTo(got, want) {
		t.Fatalf("uncategorized = %v, want %v", got, want)
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
