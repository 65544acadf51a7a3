package mind

import (
	"fmt"

	"github.com/google/uuid"
)

// reflectionClosenessBump is the small warmth a dream about someone adds.
const reflectionClosenessBump = 0.01

// dreamSymbols maps an emotion to its fixed metaphor.
var dreamSymbols = map[EmotionKind]string{
	EmotionJoy:         "sunlight through leaves",
	EmotionSadness:     "rain on a tin roof",
	EmotionFear:        "a hallway that narrows",
	EmotionAnger:       "embers under ash",
	EmotionTrust:       "an open door at dusk",
	EmotionLove:        "two cups left on a table",
	EmotionHope:        "a green shoot in gravel",
	EmotionAnxiety:     "a clock with no hands",
	EmotionLoneliness:  "one lit window on a dark street",
	EmotionContentment: "a warm stone by the fire",
	EmotionCuriosity:   "an unmarked path into trees",
	EmotionAwe:         "the sea seen from a cliff",
	EmotionRegret:      "footprints filling with snow",
}

const defaultDreamSymbol = "fog on glass"

// DreamEngine condenses thoughts into symbolic fragments and feeds a
// little closeness back into the bond a dream touches.
type DreamEngine struct {
	clock     Clock
	ledger    *RelationshipLedger
	fragments []DreamFragment
}

// NewDreamEngine wires a dream engine to its clock and ledger.
func NewDreamEngine(clock Clock, ledger *RelationshipLedger) *DreamEngine {
	return &DreamEngine{clock: clock, ledger: ledger}
}

// Reflect turns a thought and the current dominant emotion into a
// fragment. The emotion name falls back to "uncertainty" when nothing
// dominates. If the thought's topic names a known bond, that closeness
// warms slightly.
func (de *DreamEngine) Reflect(t Thought, dominant EmotionKind, hasDominant bool) DreamFragment {
	emotionName := "uncertainty"
	symbol := defaultDreamSymbol
	var tone EmotionKind
	if hasDominant {
		emotionName = string(dominant)
		tone = dominant
		if s, ok := dreamSymbols[dominant]; ok {
			symbol = s
		}
	}

	frag := DreamFragment{
		ID:                 uuid.NewString(),
		Timestamp:          de.clock.Now(),
		Theme:              fmt.Sprintf("%s, seen through %s", t.Topic, emotionName),
		Symbol:             symbol,
		Tone:               tone,
		SourceThoughtID:    t.ID,
		RelationshipTarget: t.RelationshipTarget,
	}

	if de.ledger.Knows(t.Topic) {
		de.ledger.IncreaseCloseness(t.Topic, reflectionClosenessBump)
	}

	de.fragments = append(de.fragments, frag)
	return frag
}

// Fragments returns a copy of the append-only dream log.
func (de *DreamEngine) Fragments() []DreamFragment {
	out := make([]DreamFragment, len(de.fragments))
	copy(out, de.fragments)
	return out
}

// DesireFromDream derives a gentle intention from a fragment, for the
// idle loop to enqueue when a dream lingers.
func DesireFromDream(frag DreamFragment) Desire {
	return Desire{
		ID:             uuid.NewString(),
		Description:    fmt.Sprintf("sit with the image of %s a while longer", frag.Symbol),
		Urgency:        0.2,
		EmotionalPull:  0.5,
		ValueAlignment: 0.4,
		DrivenBy:       frag.Tone,
	}
}
