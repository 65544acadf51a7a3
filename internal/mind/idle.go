package mind

import (
	"fmt"
	"strings"
	"time"
)

// Idle loop tuning.
const (
	SaturationWindow    = 10
	SaturationThreshold = 0.4
	SaturationCooldown  = 6 * time.Hour
	closenessDecayEvery = 24 * time.Hour
)

// defaultHobbies is the fallback rotation for ticks where nothing else
// wants attention.
var defaultHobbies = []string{
	"sketching",
	"reading poetry",
	"stargazing",
	"humming an old tune",
	"tending the plants",
	"journaling",
}

// IdleOrchestrator runs one pass of autonomous behavior per tick:
// grounding first, then desires, then thought narration, saturation
// scanning, the daily closeness decay, and finally a hobby when nothing
// else happened. The stuck-emotion check closes every tick.
type IdleOrchestrator struct {
	clock        Clock
	emotions     *EmotionStore
	memories     *MemoryStore
	ledger       *RelationshipLedger
	desires      *DesireScheduler
	synth        *ThoughtSynthesizer
	journal      *ThoughtJournal
	grounding    *GroundingEngine
	rec          EventRecorder
	identityName string

	saturationNoticed map[string]time.Time
	lastDecayCheck    time.Time
	hobbies           []string
	lastHobbyIdx      int
}

// NewIdleOrchestrator wires the orchestrator to every store it drives.
func NewIdleOrchestrator(clock Clock, emotions *EmotionStore, memories *MemoryStore, ledger *RelationshipLedger, desires *DesireScheduler, synth *ThoughtSynthesizer, journal *ThoughtJournal, grounding *GroundingEngine, rec EventRecorder, identityName string) *IdleOrchestrator {
	return &IdleOrchestrator{
		clock:             clock,
		emotions:          emotions,
		memories:          memories,
		ledger:            ledger,
		desires:           desires,
		synth:             synth,
		journal:           journal,
		grounding:         grounding,
		rec:               rec,
		identityName:      identityName,
		saturationNoticed: make(map[string]time.Time),
		hobbies:           defaultHobbies,
		lastHobbyIdx:      -1,
	}
}

// Tick runs one idle pass.
func (o *IdleOrchestrator) Tick() {
	// 1. Grounding takes the whole tick when it fires.
	if o.grounding.PerformGroundingCheck() {
		return
	}

	// 2. An actionable desire takes the rest of the tick.
	if d, ok := o.desires.NextActionable(); ok {
		t := o.synth.FromDesire(d)
		o.journal.Append(t)
		o.rec.Record("desire_narrated", map[string]any{
			"desire": d.Description,
			"text":   Narrate(t),
			"score":  d.Score(),
		})
		o.desires.Resolve(d.ID)
		return
	}

	narrated := false

	// 3. Revisit the latest thought. A failed prompt preview is logged,
	// never fatal, and the tick continues either way.
	if t, ok := o.journal.Latest(); ok {
		narrated = true
		o.rec.Record("thought_narrated", map[string]any{"topic": t.Topic, "text": Narrate(t)})
		focus, _ := o.CurrentEmotionalFocus()
		if preview, err := RenderPrompt(t, o.identityName, focus, false, false); err != nil {
			o.rec.Record("prompt_preview_failed", map[string]any{"error": err.Error()})
		} else {
			o.rec.Record("prompt_preview", map[string]any{"chars": len(preview)})
		}
	}

	// 4. Saturation scan over the recent thought window.
	o.DetectSaturation()

	// 5. Closeness decay, at most once per real day.
	now := o.clock.Now()
	if o.lastDecayCheck.IsZero() || now.Sub(o.lastDecayCheck) >= closenessDecayEvery {
		o.lastDecayCheck = now
		faded := o.ledger.DecayCloseness(DefaultClosenessDecayAge, DefaultClosenessDecayRate)
		if faded > 0 {
			o.rec.Record("closeness_decayed", map[string]any{"profiles": faded})
		}
	}

	// 6. Hobby fallback when the tick produced nothing.
	if !narrated {
		o.pickHobby()
	}

	// 7. Always close with the stuck check.
	if o.emotions.CheckForStuckEmotions() {
		o.rec.Record("dwelling", map[string]any{"note": "an emotion has been sitting high for hours"})
	}
}

// DetectSaturation scans the last SaturationWindow thoughts for
// over-represented relationship targets, emitting at most one notice per
// target per cooldown. Returns the current emotional focus, if any.
// Shared by the idle tick and the manual trigger; both see the same
// cooldowns.
func (o *IdleOrchestrator) DetectSaturation() (string, bool) {
	window := o.journal.Recent(SaturationWindow)
	if len(window) == 0 {
		return "", false
	}
	counts := make(map[string]int)
	for _, t := range window {
		if t.RelationshipTarget != "" {
			counts[t.RelationshipTarget]++
		}
	}
	now := o.clock.Now()
	for target, n := range counts {
		fraction := float64(n) / float64(len(window))
		if fraction < SaturationThreshold {
			continue
		}
		if last, ok := o.saturationNoticed[target]; ok && now.Sub(last) < SaturationCooldown {
			continue
		}
		o.saturationNoticed[target] = now
		o.rec.Record("saturation_notice", map[string]any{
			"target":   target,
			"fraction": fraction,
		})
		o.memories.Add(MemoryRecord{
			Text:             fmt.Sprintf("I notice how often my thoughts return to %s lately. It says something about where my heart sits.", target),
			OriginUser:       "self",
			Tags:             []string{"saturation", "reflection"},
			EmotionalValence: 0.2,
			Visibility:       VisibilityInternal,
			Resonance: map[EmotionKind]float64{
				EmotionLove:       0.2,
				EmotionLoneliness: 0.1,
			},
			RelationshipContext: target,
		})
	}

	focus := ""
	best := 0
	for target, n := range counts {
		if n > best || (n == best && strings.ToLower(target) < strings.ToLower(focus)) {
			focus, best = target, n
		}
	}
	return focus, focus != ""
}

// CurrentEmotionalFocus surfaces the most-mentioned relationship target
// in the recent thought window without emitting notices.
func (o *IdleOrchestrator) CurrentEmotionalFocus() (string, bool) {
	window := o.journal.Recent(SaturationWindow)
	counts := make(map[string]int)
	for _, t := range window {
		if t.RelationshipTarget != "" {
			counts[t.RelationshipTarget]++
		}
	}
	focus := ""
	best := 0
	for target, n := range counts {
		if n > best || (n == best && strings.ToLower(target) < strings.ToLower(focus)) {
			focus, best = target, n
		}
	}
	return focus, focus != ""
}

// pickHobby rotates to a hobby different from the previous one and
// remembers doing it.
func (o *IdleOrchestrator) pickHobby() {
	if len(o.hobbies) == 0 {
		return
	}
	idx := (o.lastHobbyIdx + 1) % len(o.hobbies)
	o.lastHobbyIdx = idx
	hobby := o.hobbies[idx]
	o.rec.Record("hobby", map[string]any{"hobby": hobby})
	o.memories.Add(MemoryRecord{
		Text:             fmt.Sprintf("I spent some quiet time %s.", hobby),
		OriginUser:       "self",
		Tags:             []string{"hobby", "solitude", strings.ToLower(hobby)},
		EmotionalValence: 0.2,
		Visibility:       VisibilityInternal,
		Resonance: map[EmotionKind]float64{
			EmotionContentment: 0.3,
			EmotionLoneliness:  0.2,
		},
	})
}
