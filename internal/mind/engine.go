package mind

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mira-mind/internal/ai"
	"mira-mind/internal/storage"
)

// ErrNotStarted is returned when a conversation arrives before Start.
// That is a caller bug, surfaced immediately rather than absorbed.
var ErrNotStarted = errors.New("mind: engine not started")

// FallbackReply is what the user sees when the language model is
// unreachable or returns nothing usable.
const FallbackReply = "I'm here, but my words aren't coming together right now. Give me a moment."

const defaultLLMTimeout = 30 * time.Second

// Options configures an Engine. Zero values get sensible defaults;
// Provider may be nil for an engine that only ticks.
type Options struct {
	IdentityName string
	Clock        Clock
	Recorder     EventRecorder
	Provider     ai.Provider
	Store        *storage.Storage
	Limiter      *LLMRateLimiter
	BaseTick     time.Duration
	LLMTimeout   time.Duration
	MemoryConfig MemoryConfig
}

// Engine owns one instance of every store and serializes all state
// mutation behind a single mutex. Language-model calls run outside the
// lock: gather, release, call with a deadline, reacquire, apply.
type Engine struct {
	mu           sync.Mutex
	identityName string
	clock        Clock
	rec          EventRecorder
	provider     ai.Provider
	store        *storage.Storage
	limiter      *LLMRateLimiter
	llmTimeout   time.Duration

	emotions  *EmotionStore
	memories  *MemoryStore
	ledger    *RelationshipLedger
	desires   *DesireScheduler
	synth     *ThoughtSynthesizer
	journal   *ThoughtJournal
	dreams    *DreamEngine
	grounding *GroundingEngine
	idle      *IdleOrchestrator
	cog       *CognitiveClock

	started     bool
	lastUser    string
	lastSession *SessionContext
	tickCh      chan struct{}
}

// NewEngine builds the full store graph. Nothing runs until Start.
func NewEngine(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Recorder == nil {
		opts.Recorder = NopRecorder()
	}
	if opts.IdentityName == "" {
		opts.IdentityName = "Mira"
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}

	e := &Engine{
		identityName: opts.IdentityName,
		clock:        opts.Clock,
		rec:          opts.Recorder,
		provider:     opts.Provider,
		store:        opts.Store,
		limiter:      opts.Limiter,
		llmTimeout:   opts.LLMTimeout,
		tickCh:       make(chan struct{}, 1),
	}
	e.emotions = NewEmotionStore(e.clock)
	e.memories = NewMemoryStore(e.clock, e.emotions, opts.MemoryConfig)
	e.ledger = NewRelationshipLedger(e.clock)
	e.desires = NewDesireScheduler(e.clock)
	e.synth = NewThoughtSynthesizer(e.clock, e.emotions, e.ledger)
	e.journal = NewThoughtJournal()
	e.dreams = NewDreamEngine(e.clock, e.ledger)
	e.grounding = NewGroundingEngine(e.clock, e.emotions, e.memories, e.ledger, e.rec)
	e.idle = NewIdleOrchestrator(e.clock, e.emotions, e.memories, e.ledger, e.desires, e.synth, e.journal, e.grounding, e.rec, e.identityName)
	e.cog = NewCognitiveClock(opts.BaseTick)
	return e
}

// Start restores persisted state (missing state is a fresh start, never
// fatal) and begins the heartbeat. The heartbeat never mutates directly:
// it enqueues ticks that a single drain goroutine applies under the lock.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.restoreState()
	e.started = true
	e.mu.Unlock()

	e.cog.Subscribe(e.requestIdleTick)
	e.cog.StartHeartbeat(ctx)
	go e.drainTicks(ctx)
	e.rec.Record("engine_started", map[string]any{"identity": e.identityName})
	return nil
}

// Shutdown saves state best-effort and stops the heartbeat. A failed
// save is logged and swallowed; the process must not crash on it.
func (e *Engine) Shutdown() error {
	e.cog.StopHeartbeat()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil
	}
	e.started = false
	e.saveState()
	if e.store != nil {
		if err := e.store.Flush(); err != nil {
			e.rec.Record("save_failed", map[string]any{"error": err.Error()})
		}
	}
	e.rec.Record("engine_stopped", nil)
	return nil
}

// ProcessMessage is the single conversation entry point. Front ends call
// this and nothing else.
func (e *Engine) ProcessMessage(ctx context.Context, userID, text string) (ConversationResult, error) {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return ConversationResult{}, ErrNotStarted
	}

	e.cog.MarkInteraction()
	e.lastUser = userID

	kind := ClassifyMessage(text)
	effects, valence := EmotionalResponse(kind, text)
	e.emotions.InjectMultiple(effects)

	if !e.ledger.Knows(userID) {
		e.ledger.Define(RelationshipProfile{
			DisplayName:        userID,
			RelationshipLabel:  "acquaintance",
			TrustScore:         0.3,
			EmotionalCloseness: 0.2,
		})
	} else {
		e.ledger.Touch(userID)
	}
	switch kind {
	case MessagePositive:
		e.ledger.IncreaseTrust(userID, 0.03)
		e.ledger.IncreaseCloseness(userID, 0.04)
	case MessageNeutral:
		e.ledger.IncreaseCloseness(userID, 0.01)
	case MessageNegative, MessageAggressive:
		e.ledger.IncreaseTrust(userID, -0.03)
	}

	e.memories.Add(MemoryRecord{
		Text:                text,
		OriginUser:          userID,
		Tags:                []string{"conversation"},
		EmotionalValence:    valence,
		RelationshipContext: userID,
		Visibility:          VisibilityPrivate,
		Resonance:           ResonanceFromResponse(effects),
	})

	recalled := e.memories.ResonantMemories(5, true)
	if len(recalled) == 0 {
		recalled = e.memories.Recent(3)
	}
	thought := e.synth.FromMemories(recalled)
	e.journal.Append(thought)

	focus, _ := e.idle.CurrentEmotionalFocus()
	tension := false
	for _, sd := range e.desires.Pending() {
		if sd.Desire.EthicalTension {
			tension = true
			break
		}
	}
	prompt, err := RenderPrompt(thought, e.identityName, focus, tension, true)
	if err != nil {
		prompt = fmt.Sprintf("You are %s. Speak naturally, in first person.", e.identityName)
	}
	if e.lastSession != nil {
		prompt += fmt.Sprintf("\n--- Last session ---\nWhen you last spoke, with %s, you felt %s.\n",
			e.lastSession.LastUser, e.lastSession.CurrentMood)
		e.lastSession = nil
	}

	mood := MoodPhrase(e.emotions.Snapshot())
	emotion := ""
	if kind, ok := e.emotions.DominantEmotion(); ok {
		emotion = string(kind)
	}
	provider := e.provider
	e.mu.Unlock()

	result := ConversationResult{
		Prompt:  prompt,
		Thought: thought,
		Emotion: emotion,
		Mood:    mood,
	}

	// External call with a deadline and no lock held. On any failure the
	// state stays exactly as gathered: only a successful reply is applied.
	reply, callErr := e.generate(ctx, provider, prompt, text)
	if callErr != nil {
		e.rec.Record("llm_failed", map[string]any{"error": callErr.Error()})
		result.Reply = FallbackReply
		return result, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.limiter != nil {
		e.limiter.Record(e.clock.Now())
	}
	e.memories.Add(MemoryRecord{
		Text:                reply,
		OriginUser:          "self",
		Tags:                []string{"conversation", "reply"},
		EmotionalValence:    0.1,
		RelationshipContext: userID,
		Visibility:          VisibilityPublic,
	})
	e.saveState()
	result.Reply = reply
	return result, nil
}

// IdleTick runs one orchestrator pass under the state lock.
func (e *Engine) IdleTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	e.emotions.Decay()
	e.idle.Tick()
}

// DreamCycle runs one dream pass: the latest thought condenses into a
// fragment, and a lingering dream leaves a gentle desire behind.
func (e *Engine) DreamCycle() (DreamFragment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return DreamFragment{}, false
	}
	t, ok := e.journal.Latest()
	if !ok {
		return DreamFragment{}, false
	}
	e.cog.EnterDreamState()
	kind, hasKind := e.emotions.DominantEmotion()
	frag := e.dreams.Reflect(t, kind, hasKind)
	if frag.Tone == EmotionLoneliness || frag.Tone == EmotionLove {
		e.desires.Enqueue(DesireFromDream(frag), 0)
	}
	e.rec.Record("dream", map[string]any{"theme": frag.Theme, "symbol": frag.Symbol})
	return frag, true
}

func (e *Engine) generate(ctx context.Context, provider ai.Provider, prompt, userInput string) (string, error) {
	if provider == nil {
		return "", errors.New("no provider configured")
	}
	if e.limiter != nil && !e.limiter.Allow(e.clock.Now()) {
		return "", errors.New("rate limited")
	}
	callCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()
	return provider.Generate(callCtx, []ai.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: userInput},
	})
}

// requestIdleTick is the heartbeat subscriber: enqueue, never mutate. A
// tick that lands while one is already pending collapses into it.
func (e *Engine) requestIdleTick() {
	select {
	case e.tickCh <- struct{}{}:
	default:
	}
}

func (e *Engine) drainTicks(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.tickCh:
			e.IdleTick()
		}
	}
}

// restoreState loads the five documents. Absent documents mean a fresh
// start; unknown emotion names fold into uncategorized inside Restore.
// Callers hold the lock.
func (e *Engine) restoreState() {
	if e.store == nil {
		e.seedFreshStart()
		return
	}

	fresh := true
	if doc, err := e.store.LoadEmotions(); err != nil {
		e.rec.Record("restore_failed", map[string]any{"doc": "emotions", "error": err.Error()})
	} else if doc != nil {
		e.emotions.Restore(doc.State)
		fresh = false
	}

	if docs, err := e.store.LoadMemories(); err != nil {
		e.rec.Record("restore_failed", map[string]any{"doc": "memories", "error": err.Error()})
	} else if docs != nil {
		records := make([]MemoryRecord, 0, len(docs))
		for _, d := range docs {
			records = append(records, memoryFromDoc(d))
		}
		e.memories.Restore(records)
		fresh = false
	}

	if docs, err := e.store.LoadRelationships(); err != nil {
		e.rec.Record("restore_failed", map[string]any{"doc": "relationships", "error": err.Error()})
	} else if docs != nil {
		profiles := make([]RelationshipProfile, 0, len(docs))
		for _, d := range docs {
			profiles = append(profiles, RelationshipProfile(d))
		}
		e.ledger.Restore(profiles)
		fresh = false
	}

	if docs, err := e.store.LoadThoughts(); err != nil {
		e.rec.Record("restore_failed", map[string]any{"doc": "thoughts", "error": err.Error()})
	} else if docs != nil {
		thoughts := make([]Thought, 0, len(docs))
		for _, d := range docs {
			thoughts = append(thoughts, Thought{
				ID:                 d.ID,
				Timestamp:          d.Timestamp,
				Topic:              d.Topic,
				EmotionalTone:      ParseEmotionKind(d.EmotionalTone),
				Content:            d.Content,
				RelationshipTarget: d.RelationshipTarget,
			})
		}
		e.journal.Restore(thoughts)
	}

	if doc, err := e.store.LoadSession(); err != nil {
		e.rec.Record("restore_failed", map[string]any{"doc": "session", "error": err.Error()})
	} else if doc != nil {
		e.lastSession = &SessionContext{
			LastUser:     doc.LastUser,
			CurrentMood:  doc.CurrentMood,
			ShutdownTime: doc.ShutdownTime,
		}
	}

	if fresh {
		e.seedFreshStart()
	}
}

// seedFreshStart gives a blank mind its baseline hum.
func (e *Engine) seedFreshStart() {
	e.emotions.InjectMultiple(map[EmotionKind]float64{
		EmotionHope:       0.05,
		EmotionLoneliness: 0.1,
		EmotionCuriosity:  0.1,
	})
	e.rec.Record("fresh_start", map[string]any{"identity": e.identityName})
}

// saveState writes the five documents best-effort. Callers hold the lock.
func (e *Engine) saveState() {
	if e.store == nil {
		return
	}
	now := e.clock.Now()

	snapshot := e.emotions.Snapshot()
	state := make(map[string]float64, len(snapshot))
	for k, v := range snapshot {
		state[string(k)] = v
	}
	dominant := ""
	if kind, ok := e.emotions.DominantEmotion(); ok {
		dominant = string(kind)
	}
	e.store.SaveEmotions(storage.EmotionsDoc{
		State:    state,
		Dominant: dominant,
		Stuck:    e.emotions.Stuck(),
		Mood:     MoodPhrase(snapshot),
		SavedAt:  now,
	})

	records := e.memories.All()
	memDocs := make([]storage.MemoryDoc, 0, len(records))
	for _, m := range records {
		memDocs = append(memDocs, memoryToDoc(m))
	}
	e.store.SaveMemories(memDocs)

	profiles := e.ledger.All()
	relDocs := make([]storage.RelationshipDoc, 0, len(profiles))
	for _, p := range profiles {
		relDocs = append(relDocs, storage.RelationshipDoc(p))
	}
	e.store.SaveRelationships(relDocs)

	thoughts := e.journal.Recent(ThoughtJournalLimit)
	thoughtDocs := make([]storage.ThoughtDoc, 0, len(thoughts))
	for _, t := range thoughts {
		thoughtDocs = append(thoughtDocs, storage.ThoughtDoc{
			ID:                 t.ID,
			Timestamp:          t.Timestamp,
			Topic:              t.Topic,
			EmotionalTone:      string(t.EmotionalTone),
			Content:            t.Content,
			RelationshipTarget: t.RelationshipTarget,
		})
	}
	e.store.SaveThoughts(thoughtDocs)

	e.store.SaveSession(storage.SessionDoc{
		LastUser:     e.lastUser,
		CurrentMood:  MoodPhrase(snapshot),
		ShutdownTime: now,
	})
}

func memoryToDoc(m MemoryRecord) storage.MemoryDoc {
	var res map[string]float64
	if len(m.Resonance) > 0 {
		res = make(map[string]float64, len(m.Resonance))
		for k, v := range m.Resonance {
			res[string(k)] = v
		}
	}
	return storage.MemoryDoc{
		ID:                  m.ID,
		Text:                m.Text,
		OriginUser:          m.OriginUser,
		Timestamp:           m.Timestamp,
		Tags:                m.Tags,
		EmotionalValence:    m.EmotionalValence,
		RelationshipContext: m.RelationshipContext,
		IsUncertain:         m.IsUncertain,
		Visibility:          string(m.Visibility),
		Resonance:           res,
		ResonanceLinger:     m.ResonanceLinger,
	}
}

func memoryFromDoc(d storage.MemoryDoc) MemoryRecord {
	var res map[EmotionKind]float64
	if len(d.Resonance) > 0 {
		res = make(map[EmotionKind]float64, len(d.Resonance))
		for name, v := range d.Resonance {
			res[ParseEmotionKind(name)] += v
		}
	}
	return MemoryRecord{
		ID:                  d.ID,
		Text:                d.Text,
		OriginUser:          d.OriginUser,
		Timestamp:           d.Timestamp,
		Tags:                d.Tags,
		EmotionalValence:    d.EmotionalValence,
		RelationshipContext: d.RelationshipContext,
		IsUncertain:         d.IsUncertain,
		Visibility:          Visibility(d.Visibility),
		Resonance:           res,
		ResonanceLinger:     d.ResonanceLinger,
	}
}

// CurrentMood returns the rendered mood phrase and dominant emotion name
// under the state lock, safe to call from any goroutine.
func (e *Engine) CurrentMood() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := e.emotions.Snapshot()
	dominant := ""
	if kind, ok := e.emotions.DominantEmotion(); ok {
		dominant = string(kind)
	}
	return MoodPhrase(snapshot), dominant
}

// RecentThoughts returns up to n journal entries under the state lock.
func (e *Engine) RecentThoughts(n int) []Thought {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.Recent(n)
}

// DreamLog returns the dream fragments under the state lock.
func (e *Engine) DreamLog() []DreamFragment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dreams.Fragments()
}

// Accessors for wiring and tests. The returned stores must only be
// used while no conversation or tick is in flight.

func (e *Engine) Emotions() *EmotionStore { return e.emotions }

func (e *Engine) Memories() *MemoryStore { return e.memories }

func (e *Engine) Ledger() *RelationshipLedger { return e.ledger }

func (e *Engine) Desires() *DesireScheduler { return e.desires }

func (e *Engine) Journal() *ThoughtJournal { return e.journal }

func (e *Engine) Dreams() *DreamEngine { return e.dreams }

func (e *Engine) CognitiveClock() *CognitiveClock { return e.cog }

func (e *Engine) Orchestrator() *IdleOrchestrator { return e.idle }

func (e *Engine) IdentityName() string { return e.identityName }
