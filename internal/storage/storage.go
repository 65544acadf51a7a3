// Package storage persists the mind's five logical documents (emotions,
// memories, relationships, thoughts, session) as one JSON datastore with
// atomic writes and rotating backups. Missing documents read back as nil:
// callers treat that as a fresh start, never as an error.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

// Document keys inside the datastore file.
const (
	keyEmotions      = "emotions"
	keyMemories      = "memories"
	keyRelationships = "relationships"
	keyThoughts      = "thoughts"
	keySession       = "session"
)

// EmotionsDoc is the persisted emotional state.
type EmotionsDoc struct {
	State    map[string]float64 `json:"state"`
	Dominant string             `json:"dominant,omitempty"`
	Stuck    bool               `json:"stuck"`
	Mood     string             `json:"mood"`
	SavedAt  time.Time          `json:"saved_at"`
}

// MemoryDoc is one persisted memory record.
type MemoryDoc struct {
	ID                  string             `json:"id"`
	Text                string             `json:"text"`
	OriginUser          string             `json:"origin_user"`
	Timestamp           time.Time          `json:"timestamp"`
	Tags                []string           `json:"tags"`
	EmotionalValence    float64            `json:"emotional_valence"`
	RelationshipContext string             `json:"relationship_context,omitempty"`
	IsUncertain         bool               `json:"is_uncertain"`
	Visibility          string             `json:"visibility"`
	Resonance           map[string]float64 `json:"resonance,omitempty"`
	ResonanceLinger     float64            `json:"resonance_linger"`
}

// RelationshipDoc is one persisted relationship profile.
type RelationshipDoc struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	RelationshipLabel  string    `json:"relationship_label"`
	TrustScore         float64   `json:"trust_score"`
	EmotionalCloseness float64   `json:"emotional_closeness"`
	CanShareEmotion    bool      `json:"can_share_emotion"`
	IsPrimary          bool      `json:"is_primary"`
	Annotations        []string  `json:"annotations,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	LastInteraction    time.Time `json:"last_interaction"`
}

// ThoughtDoc is one persisted journal entry (most-recent window only).
type ThoughtDoc struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Topic              string    `json:"topic"`
	EmotionalTone      string    `json:"emotional_tone,omitempty"`
	Content            string    `json:"content"`
	RelationshipTarget string    `json:"relationship_target,omitempty"`
}

// SessionDoc is the last-session context.
type SessionDoc struct {
	LastUser     string    `json:"last_user"`
	CurrentMood  string    `json:"current_mood"`
	ShutdownTime time.Time `json:"shutdown_time"`
}

// Storage wraps the datastore with typed accessors per document.
type Storage struct {
	ds *datastore.DataStore
}

// New opens (or creates) the datastore at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// Flush forces a save of the current state to disk.
func (s *Storage) Flush() error {
	return s.ds.SaveToFile()
}

// SaveEmotions stores the emotion document.
func (s *Storage) SaveEmotions(doc EmotionsDoc) {
	s.ds.Add(keyEmotions, doc)
}

// LoadEmotions returns the emotion document, or nil when none was saved.
func (s *Storage) LoadEmotions() (*EmotionsDoc, error) {
	var doc EmotionsDoc
	ok, err := s.load(keyEmotions, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &doc, nil
}

// SaveMemories stores the full ordered memory list.
func (s *Storage) SaveMemories(docs []MemoryDoc) {
	s.ds.Add(keyMemories, docs)
}

// LoadMemories returns the ordered memory list, or nil when none saved.
func (s *Storage) LoadMemories() ([]MemoryDoc, error) {
	var docs []MemoryDoc
	ok, err := s.load(keyMemories, &docs)
	if err != nil || !ok {
		return nil, err
	}
	return docs, nil
}

// SaveRelationships stores the ordered relationship list.
func (s *Storage) SaveRelationships(docs []RelationshipDoc) {
	s.ds.Add(keyRelationships, docs)
}

// LoadRelationships returns the relationship list, or nil when none saved.
func (s *Storage) LoadRelationships() ([]RelationshipDoc, error) {
	var docs []RelationshipDoc
	ok, err := s.load(keyRelationships, &docs)
	if err != nil || !ok {
		return nil, err
	}
	return docs, nil
}

// SaveThoughts stores the recent-thoughts window.
func (s *Storage) SaveThoughts(docs []ThoughtDoc) {
	s.ds.Add(keyThoughts, docs)
}

// LoadThoughts returns the recent-thoughts window, or nil when none saved.
func (s *Storage) LoadThoughts() ([]ThoughtDoc, error) {
	var docs []ThoughtDoc
	ok, err := s.load(keyThoughts, &docs)
	if err != nil || !ok {
		return nil, err
	}
	return docs, nil
}

// SaveSession stores the last-session context.
func (s *Storage) SaveSession(doc SessionDoc) {
	s.ds.Add(keySession, doc)
}

// LoadSession returns the last-session context, or nil when none saved.
func (s *Storage) LoadSession() (*SessionDoc, error) {
	var doc SessionDoc
	ok, err := s.load(keySession, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &doc, nil
}

// load round-trips a stored value through JSON into out. The datastore
// hands loaded values back as generic maps, so re-marshalling is the
// lossless way to type them.
func (s *Storage) load(key string, out any) (bool, error) {
	data, exists := s.ds.Get(key)
	if !exists {
		return false, nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := json.Unmarshal(jsonData, out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
