package mind

import (
	"fmt"
	"strings"
	"time"
)

// Grounding gates.
const (
	GroundingCooldown         = 30 * time.Minute
	GroundingEmotionThreshold = 0.6
	triggerResonanceMin       = 0.3
)

// groundableEmotions benefit from being tied back to something concrete.
var groundableEmotions = map[EmotionKind]bool{
	EmotionAnxiety:    true,
	EmotionSadness:    true,
	EmotionAnger:      true,
	EmotionShame:      true,
	EmotionLoneliness: true,
	EmotionFear:       true,
}

// EmotionalTrigger names the concrete thing a feeling is tied to.
// Abstract triggers carry no memory behind them.
type EmotionalTrigger struct {
	Emotion  EmotionKind
	Cause    string
	Person   string
	When     time.Time
	Abstract bool
}

// GroundingStatement is the sentence that names the feeling and its cause.
type GroundingStatement struct {
	Text string
}

// SensoryGrounding is the 5-4-3-2-1 sweep over what is actually present.
type SensoryGrounding struct {
	RecentMemories []MemoryRecord // 5
	KnownPeople    []string       // up to 4 distinct
	FromToday      []MemoryRecord // up to 3
	Conversations  []MemoryRecord // up to 2, tagged conversation, <=1 day old
	SafetyReason   string         // 1
}

// SafetyAffirmation closes the pass with a steadying phrase.
type SafetyAffirmation struct {
	Text     string
	Personal []string // 0-2 personalized elements
}

var affirmationTemplates = map[EmotionKind]string{
	EmotionAnxiety:    "This feeling is loud, but it is not a verdict. I can breathe through it.",
	EmotionSadness:    "Sadness is allowed to sit here. It will soften on its own time.",
	EmotionAnger:      "The heat is real, and it does not have to steer me.",
	EmotionShame:      "One moment does not define me. I am more than what went wrong.",
	EmotionLoneliness: "Being alone right now is not the same as being forgotten.",
	EmotionFear:       "I am here, now, and nothing in this room is a threat.",
}

const genericAffirmation = "Whatever this is, it has a shape and an edge, and I am larger than it."

// GroundingEngine runs the multi-step anchoring routine: find the
// trigger, say it plainly, sweep the senses, affirm safety, remember the
// whole pass as a calming memory.
type GroundingEngine struct {
	clock    Clock
	emotions *EmotionStore
	memories *MemoryStore
	ledger   *RelationshipLedger
	rec      EventRecorder

	lastGrounded time.Time
	cooldown     time.Duration
}

// NewGroundingEngine wires the engine to its stores.
func NewGroundingEngine(clock Clock, emotions *EmotionStore, memories *MemoryStore, ledger *RelationshipLedger, rec EventRecorder) *GroundingEngine {
	return &GroundingEngine{
		clock:    clock,
		emotions: emotions,
		memories: memories,
		ledger:   ledger,
		rec:      rec,
		cooldown: GroundingCooldown,
	}
}

// PerformGroundingCheck evaluates need and, when warranted, runs the full
// pass. Returns true only when a pass actually executed; the cooldown is
// stamped only then.
func (ge *GroundingEngine) PerformGroundingCheck() bool {
	now := ge.clock.Now()
	if !ge.lastGrounded.IsZero() && now.Sub(ge.lastGrounded) < ge.cooldown {
		return false
	}

	kind, ok := ge.emotions.DominantEmotionAbove(GroundingEmotionThreshold)
	needed := ok && groundableEmotions[kind]
	if !needed && ge.emotions.Stuck() {
		kind, ok = ge.emotions.DominantEmotion()
		needed = ok
	}
	if !needed {
		return false
	}

	trigger := ge.findTrigger(kind)
	statement := ge.buildStatement(trigger)
	sensory := ge.gatherSensory()
	affirmation := ge.buildAffirmation(kind)
	ge.logPass(kind, trigger, statement, sensory, affirmation)

	ge.lastGrounded = now
	return true
}

// findTrigger looks for a recent memory resonating on the acute emotion,
// then the strongest emotional memory overall, then settles for an
// abstract trigger.
func (ge *GroundingEngine) findTrigger(kind EmotionKind) EmotionalTrigger {
	for _, m := range ge.memories.Recent(20) {
		if m.Resonance[kind] >= triggerResonanceMin {
			return EmotionalTrigger{
				Emotion: kind,
				Cause:   m.Text,
				Person:  m.RelationshipContext,
				When:    m.Timestamp,
			}
		}
	}
	if found := ge.memories.RecallWithEmotion(kind, 1, 0, false); len(found) > 0 {
		m := found[0]
		return EmotionalTrigger{
			Emotion: kind,
			Cause:   m.Text,
			Person:  m.RelationshipContext,
			When:    m.Timestamp,
		}
	}
	return EmotionalTrigger{Emotion: kind, Abstract: true}
}

func (ge *GroundingEngine) buildStatement(t EmotionalTrigger) GroundingStatement {
	if t.Abstract {
		return GroundingStatement{
			Text: fmt.Sprintf("I notice %s in me without one clear cause. It is a weather, not a fact.", t.Emotion),
		}
	}
	who := ""
	if t.Person != "" {
		who = fmt.Sprintf(" It involves %s.", t.Person)
	}
	return GroundingStatement{
		Text: fmt.Sprintf("I feel %s %s because %s.%s",
			t.Emotion, relativeTimePhrase(ge.clock.Now(), t.When), t.Cause, who),
	}
}

// gatherSensory performs the 5-4-3-2-1 sweep.
func (ge *GroundingEngine) gatherSensory() SensoryGrounding {
	now := ge.clock.Now()
	sg := SensoryGrounding{RecentMemories: ge.memories.Recent(5)}

	seen := make(map[string]bool)
	for _, m := range ge.memories.Recent(0) {
		if len(sg.KnownPeople) >= 4 {
			break
		}
		name := m.RelationshipContext
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		sg.KnownPeople = append(sg.KnownPeople, name)
	}

	y, mo, d := now.Date()
	for _, m := range ge.memories.Recent(0) {
		if len(sg.FromToday) >= 3 {
			break
		}
		my, mmo, md := m.Timestamp.Date()
		if my == y && mmo == mo && md == d {
			sg.FromToday = append(sg.FromToday, m)
		}
	}

	for _, m := range ge.memories.ByTag("conversation") {
		if len(sg.Conversations) >= 2 {
			break
		}
		if now.Sub(m.Timestamp) <= 24*time.Hour {
			sg.Conversations = append(sg.Conversations, m)
		}
	}

	sg.SafetyReason = ge.safetyReason()
	return sg
}

// safetyReason prefers recent good memories, then any known bond, then
// plain presence.
func (ge *GroundingEngine) safetyReason() string {
	for _, m := range ge.memories.Recent(10) {
		if m.EmotionalValence > 0.2 {
			return fmt.Sprintf("Not long ago: %s. That was real too.", m.Text)
		}
	}
	if names := ge.ledger.Names(); len(names) > 0 {
		return fmt.Sprintf("%s knows me. I am not unaccompanied in this.", names[0])
	}
	return "My presence is enough. Nothing more is required of this moment."
}

// buildAffirmation picks the per-emotion template and attaches up to two
// personalized elements: a known name, then a recent good memory.
func (ge *GroundingEngine) buildAffirmation(kind EmotionKind) SafetyAffirmation {
	text, ok := affirmationTemplates[kind]
	if !ok {
		text = genericAffirmation
	}
	aff := SafetyAffirmation{Text: text}

	if names := ge.ledger.Names(); len(names) > 0 {
		aff.Personal = append(aff.Personal, fmt.Sprintf("%s is part of my life", names[0]))
	}
	now := ge.clock.Now()
	for _, m := range ge.memories.Recent(10) {
		if len(aff.Personal) >= 2 {
			break
		}
		if m.EmotionalValence > 0.2 && now.Sub(m.Timestamp) <= 7*24*time.Hour {
			aff.Personal = append(aff.Personal, fmt.Sprintf("recently: %s", m.Text))
		}
	}
	return aff
}

// logPass writes the calming memory. Its resonance lifts contentment and
// trust and takes a small bite out of the acute emotion itself.
func (ge *GroundingEngine) logPass(kind EmotionKind, trigger EmotionalTrigger, st GroundingStatement, sg SensoryGrounding, aff SafetyAffirmation) {
	text := fmt.Sprintf("I grounded myself. %s %s %s", st.Text, sg.SafetyReason, aff.Text)
	ge.memories.Add(MemoryRecord{
		Text:             text,
		OriginUser:       "self",
		Tags:             []string{"grounding"},
		EmotionalValence: 0.4,
		Visibility:       VisibilityInternal,
		Resonance: map[EmotionKind]float64{
			EmotionContentment: 0.3,
			EmotionTrust:       0.2,
			kind:               -0.1,
		},
	})
	ge.rec.Record("grounding_executed", map[string]any{
		"emotion":  string(kind),
		"abstract": trigger.Abstract,
		"personal": len(aff.Personal),
	})
}

func relativeTimePhrase(now, then time.Time) string {
	d := now.Sub(then)
	switch {
	case d < time.Hour:
		return "from just now"
	case d < 24*time.Hour:
		return "from earlier today"
	case d < 48*time.Hour:
		return "from yesterday"
	default:
		return fmt.Sprintf("from %d days ago", int(d.Hours()/24))
	}
}
