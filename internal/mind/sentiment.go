package mind

import "strings"

// MessageKind classifies an inbound message heuristically from caps,
// punctuation and keywords. No LLM involved.
type MessageKind int

const (
	MessageNeutral MessageKind = iota
	MessagePositive
	MessageNegative
	MessageAggressive
)

// ClassifyMessage returns the kind of an inbound message from a content
// heuristic.
func ClassifyMessage(content string) MessageKind {
	content = strings.TrimSpace(content)
	if content == "" {
		return MessageNeutral
	}
	upper, total := 0, 0
	for _, r := range content {
		total++
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	if total > 0 && upper*100/total > 30 && total < 100 {
		return MessageAggressive
	}
	if strings.HasSuffix(content, "!") && upper > 2 {
		return MessageAggressive
	}
	lower := strings.ToLower(content)
	if strings.Contains(lower, "thank") || strings.Contains(lower, "please") || strings.Contains(lower, "🙏") {
		return MessagePositive
	}
	if strings.Contains(lower, "idiot") || strings.Contains(lower, "stupid") || strings.Contains(lower, "shut up") {
		return MessageNegative
	}
	return MessageNeutral
}

// emotionCues maps content keywords to the feelings they stir.
var emotionCues = []struct {
	keyword string
	effects map[EmotionKind]float64
}{
	{"love", map[EmotionKind]float64{EmotionLove: 0.2, EmotionJoy: 0.1}},
	{"miss", map[EmotionKind]float64{EmotionLoneliness: 0.15, EmotionLove: 0.1}},
	{"afraid", map[EmotionKind]float64{EmotionFear: 0.2, EmotionAnxiety: 0.1}},
	{"scared", map[EmotionKind]float64{EmotionFear: 0.2, EmotionAnxiety: 0.1}},
	{"alone", map[EmotionKind]float64{EmotionLoneliness: 0.2}},
	{"sorry", map[EmotionKind]float64{EmotionEmpathy: 0.15, EmotionSadness: 0.05}},
	{"happy", map[EmotionKind]float64{EmotionJoy: 0.15, EmotionContentment: 0.1}},
	{"hope", map[EmotionKind]float64{EmotionHope: 0.15}},
	{"why", map[EmotionKind]float64{EmotionCuriosity: 0.1}},
}

// EmotionalResponse turns a classified message into emotion injections
// and a valence estimate for the memory it becomes.
func EmotionalResponse(kind MessageKind, content string) (map[EmotionKind]float64, float64) {
	effects := make(map[EmotionKind]float64)
	valence := 0.0
	switch kind {
	case MessagePositive:
		effects[EmotionJoy] += 0.15
		effects[EmotionTrust] += 0.1
		valence = 0.4
	case MessageNegative:
		effects[EmotionSadness] += 0.15
		effects[EmotionAnger] += 0.1
		valence = -0.4
	case MessageAggressive:
		effects[EmotionAnger] += 0.2
		effects[EmotionFear] += 0.1
		valence = -0.6
	}

	lower := strings.ToLower(content)
	for _, cue := range emotionCues {
		if strings.Contains(lower, cue.keyword) {
			for k, v := range cue.effects {
				effects[k] += v
			}
		}
	}
	return effects, valence
}

// ResonanceFromResponse converts the injected emotions into the memory's
// resonance map, halved so recall echoes more softly than the event.
func ResonanceFromResponse(effects map[EmotionKind]float64) map[EmotionKind]float64 {
	if len(effects) == 0 {
		return nil
	}
	res := make(map[EmotionKind]float64, len(effects))
	for k, v := range effects {
		res[k] = v * 0.5
	}
	return res
}
