package mind

import "testing"

func TestClassifyMessage(t *testing.T) {
	cases := []struct {
		content string
		want    MessageKind
	}{
		{"", MessageNeutral},
		{"how was your day", MessageNeutral},
		{"thank you for waiting", MessagePositive},
		{"could you please stay", MessagePositive},
		{"you are an idiot", MessageNegative},
		{"shut up already", MessageNegative},
		{"WHY WOULD YOU DO THAT", MessageAggressive},
		{"STOP IT NOW!", MessageAggressive},
	}
	for _, tc := range cases {
		if got := ClassifyMessage(tc.content); got != tc.want {
			t.Errorf("ClassifyMessage(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestEmotionalResponseCombinesKindAndCues(t *testing.T) {
	effects, valence := EmotionalResponse(MessagePositive, "thank you, I love this")
	if !closeTo(effects[EmotionJoy], 0.15+0.1) {
		t.Errorf("joy = %v, want kind effect plus love cue", effects[EmotionJoy])
	}
	if !closeTo(effects[EmotionLove], 0.2) {
		t.Errorf("love = %v, want 0.2 from the cue", effects[EmotionLove])
	}
	if !closeTo(valence, 0.4) {
		t.Errorf("valence = %v, want 0.4", valence)
	}

	effects, valence = EmotionalResponse(MessageAggressive, "STOP")
	if !closeTo(effects[EmotionAnger], 0.2) || !closeTo(effects[EmotionFear], 0.1) {
		t.Errorf("aggressive effects = %v", effects)
	}
	if !closeTo(valence, -0.6) {
		t.Errorf("valence = %v, want -0.6", valence)
	}
}

func TestEmotionalResponseNeutralWithoutCues(t *testing.T) {
	effects, valence := EmotionalResponse(MessageNeutral, "the bus was late")
	if len(effects) != 0 || valence != 0 {
		t.Fatalf("effects = %v valence = %v, want none", effects, valence)
	}
}

func TestResonanceFromResponseHalves(t *testing.T) {
	res := ResonanceFromResponse(map[EmotionKind]float64{EmotionJoy: 0.3})
	if !closeTo(res[EmotionJoy], 0.15) {
		t.Fatalf("resonance = %v, want halved", res[EmotionJoy])
	}
	if got := ResonanceFromResponse(nil); got != nil {
		t.Fatalf("resonance from empty effects = %v, want nil", got)
	}
}
