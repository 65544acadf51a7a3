package mind

import "time"

// EmotionKind names one feeling channel. The set is closed; unknown names
// read back from disk are mapped to EmotionUncategorized, never rejected.
type EmotionKind string

const (
	EmotionJoy           EmotionKind = "joy"
	EmotionSadness       EmotionKind = "sadness"
	EmotionFear          EmotionKind = "fear"
	EmotionAnger         EmotionKind = "anger"
	EmotionDisgust       EmotionKind = "disgust"
	EmotionSurprise      EmotionKind = "surprise"
	EmotionTrust         EmotionKind = "trust"
	EmotionLove          EmotionKind = "love"
	EmotionHope          EmotionKind = "hope"
	EmotionAnxiety       EmotionKind = "anxiety"
	EmotionShame         EmotionKind = "shame"
	EmotionGuilt         EmotionKind = "guilt"
	EmotionEnvy          EmotionKind = "envy"
	EmotionPride         EmotionKind = "pride"
	EmotionContempt      EmotionKind = "contempt"
	EmotionContentment   EmotionKind = "contentment"
	EmotionAnticipation  EmotionKind = "anticipation"
	EmotionExcitement    EmotionKind = "excitement"
	EmotionAmusement     EmotionKind = "amusement"
	EmotionEmpathy       EmotionKind = "empathy"
	EmotionRegret        EmotionKind = "regret"
	EmotionLoneliness    EmotionKind = "loneliness"
	EmotionCuriosity     EmotionKind = "curiosity"
	EmotionAwe           EmotionKind = "awe"
	EmotionUncategorized EmotionKind = "uncategorized"
)

// AllEmotionKinds lists every kind once, in declaration order.
var AllEmotionKinds = []EmotionKind{
	EmotionJoy, EmotionSadness, EmotionFear, EmotionAnger, EmotionDisgust,
	EmotionSurprise, EmotionTrust, EmotionLove, EmotionHope, EmotionAnxiety,
	EmotionShame, EmotionGuilt, EmotionEnvy, EmotionPride, EmotionContempt,
	EmotionContentment, EmotionAnticipation, EmotionExcitement,
	EmotionAmusement, EmotionEmpathy, EmotionRegret, EmotionLoneliness,
	EmotionCuriosity, EmotionAwe, EmotionUncategorized,
}

// ParseEmotionKind maps a stored name to a kind, falling back to
// EmotionUncategorized for anything it does not recognize.
func ParseEmotionKind(name string) EmotionKind {
	k := EmotionKind(name)
	for _, known := range AllEmotionKinds {
		if k == known {
			return k
		}
	}
	return EmotionUncategorized
}

// Visibility controls who may ever see a memory's text.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// MemoryRecord is one remembered event. Immutable once added; only the
// resonance linger multiplier is adjusted at restore time.
type MemoryRecord struct {
	ID                  string                  `json:"id"`
	Text                string                  `json:"text"`
	OriginUser          string                  `json:"origin_user"` // person name, or "self"
	Timestamp           time.Time               `json:"timestamp"`
	Tags                []string                `json:"tags"`
	EmotionalValence    float64                 `json:"emotional_valence"` // -1..1
	RelationshipContext string                  `json:"relationship_context,omitempty"`
	IsUncertain         bool                    `json:"is_uncertain"`
	Visibility          Visibility              `json:"visibility"`
	Resonance           map[EmotionKind]float64 `json:"resonance,omitempty"`
	ResonanceLinger     float64                 `json:"resonance_linger"` // >=0, default 1.0
}

// HasTag reports whether the record carries tag.
func (m MemoryRecord) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RelationshipProfile models one known person. DisplayName is the lookup
// key; the ledger enforces case-insensitive uniqueness, not the record.
type RelationshipProfile struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	RelationshipLabel  string    `json:"relationship_label"`
	TrustScore         float64   `json:"trust_score"`         // 0..1
	EmotionalCloseness float64   `json:"emotional_closeness"` // 0..1
	CanShareEmotion    bool      `json:"can_share_emotion"`
	IsPrimary          bool      `json:"is_primary"`
	Annotations        []string  `json:"annotations,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	LastInteraction    time.Time `json:"last_interaction"`
}

// Thought is an ephemeral synthesis over memories or a desire.
type Thought struct {
	ID                 string      `json:"id"`
	Timestamp          time.Time   `json:"timestamp"`
	Topic              string      `json:"topic"`
	EmotionalTone      EmotionKind `json:"emotional_tone,omitempty"`
	Content            string      `json:"content"`
	RelationshipTarget string      `json:"relationship_target,omitempty"`
	SourceMemoryIDs    []string    `json:"source_memory_ids,omitempty"`
}

// Desire is a pending intention. Removed on resolve, never mutated.
type Desire struct {
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	Urgency        float64     `json:"urgency"`         // 0..1
	EmotionalPull  float64     `json:"emotional_pull"`  // 0..1
	ValueAlignment float64     `json:"value_alignment"` // 0..1
	DrivenBy       EmotionKind `json:"driven_by,omitempty"`
	EthicalTension bool        `json:"ethical_tension"`
}

// Score is the derived motivation used for scheduling order.
func (d Desire) Score() float64 {
	return 0.3*d.Urgency + 0.4*d.EmotionalPull + 0.3*d.ValueAlignment
}

// ScheduledDesire wraps a Desire with its queue timestamps.
type ScheduledDesire struct {
	Desire        Desire    `json:"desire"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
	CooldownUntil time.Time `json:"cooldown_until"`
}

// DreamFragment is one symbolic rendering of a thought.
type DreamFragment struct {
	ID                 string      `json:"id"`
	Timestamp          time.Time   `json:"timestamp"`
	Theme              string      `json:"theme"`
	Symbol             string      `json:"symbol"`
	Tone               EmotionKind `json:"tone,omitempty"`
	SourceThoughtID    string      `json:"source_thought_id,omitempty"`
	RelationshipTarget string      `json:"relationship_target,omitempty"`
}

// ConversationResult is what a front end gets back for one user message.
type ConversationResult struct {
	Prompt  string  `json:"prompt"`
	Reply   string  `json:"reply"`
	Thought Thought `json:"thought"`
	Emotion string  `json:"emotion"`
	Mood    string  `json:"mood"`
}

// SessionContext is the small document saved at shutdown and folded into
// the first exchange after restart.
type SessionContext struct {
	LastUser     string    `json:"last_user"`
	CurrentMood  string    `json:"current_mood"`
	ShutdownTime time.Time `json:"shutdown_time"`
}
