package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "mind.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadMissingDocumentsReturnsNil(t *testing.T) {
	s := newTestStorage(t)

	if doc, err := s.LoadEmotions(); err != nil || doc != nil {
		t.Errorf("emotions = %v, %v; want nil, nil", doc, err)
	}
	if docs, err := s.LoadMemories(); err != nil || docs != nil {
		t.Errorf("memories = %v, %v; want nil, nil", docs, err)
	}
	if doc, err := s.LoadSession(); err != nil || doc != nil {
		t.Errorf("session = %v, %v; want nil, nil", doc, err)
	}
}

func TestEmotionsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	saved := EmotionsDoc{
		State:    map[string]float64{"joy": 0.4, "loneliness": 0.1},
		Dominant: "joy",
		Mood:     "faintly joy",
		SavedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	s.SaveEmotions(saved)

	got, err := s.LoadEmotions()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("document lost")
	}
	if got.Dominant != "joy" || got.Mood != "faintly joy" {
		t.Errorf("got %+v", got)
	}
	for k, want := range saved.State {
		if diff := got.State[k] - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("state[%s] = %v, want %v", k, got.State[k], want)
		}
	}
	if !got.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("saved_at = %v, want %v", got.SavedAt, saved.SavedAt)
	}
}

func TestMemoriesRoundTripPreservesOrderAndFields(t *testing.T) {
	s := newTestStorage(t)
	ts := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.SaveMemories([]MemoryDoc{
		{
			ID:                  "m1",
			Text:                "first walk",
			OriginUser:          "amber",
			Timestamp:           ts,
			Tags:                []string{"conversation"},
			EmotionalValence:    0.4,
			RelationshipContext: "Amber",
			Visibility:          "private",
			Resonance:           map[string]float64{"trust": 0.6},
			ResonanceLinger:     1.0,
		},
		{ID: "m2", Text: "second", Timestamp: ts.Add(time.Minute), Visibility: "internal", ResonanceLinger: 1.0},
	})

	got, err := s.LoadMemories()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("order lost: %+v", got)
	}
	m := got[0]
	if m.Text != "first walk" || m.OriginUser != "amber" || m.RelationshipContext != "Amber" {
		t.Errorf("fields lost: %+v", m)
	}
	if diff := m.Resonance["trust"] - 0.6; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("resonance = %v", m.Resonance)
	}
	if !m.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", m.Timestamp, ts)
	}
}

func TestRelationshipsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.SaveRelationships([]RelationshipDoc{{
		ID:                 "r1",
		DisplayName:        "Amber",
		RelationshipLabel:  "close friend",
		TrustScore:         0.7,
		EmotionalCloseness: 0.6,
		CanShareEmotion:    true,
		Annotations:        []string{"keeps her word"},
		CreatedAt:          now,
		LastInteraction:    now,
	}})

	got, err := s.LoadRelationships()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("profiles = %d, want 1", len(got))
	}
	p := got[0]
	if p.DisplayName != "Amber" || !p.CanShareEmotion || len(p.Annotations) != 1 {
		t.Errorf("profile = %+v", p)
	}
	if diff := p.TrustScore - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("trust = %v", p.TrustScore)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mind.json")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.SaveSession(SessionDoc{
		LastUser:     "amber",
		CurrentMood:  "noticeably trust",
		ShutdownTime: time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
	})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.LastUser != "amber" || got.CurrentMood != "noticeably trust" {
		t.Fatalf("session = %+v", got)
	}
}
