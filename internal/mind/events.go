package mind

import "github.com/rs/zerolog"

// EventRecorder receives every noteworthy internal event (grounding runs,
// narrated thoughts, saturation notices). Business code never logs
// directly; tests assert on recorded events instead of console output.
type EventRecorder interface {
	Record(event string, fields map[string]any)
}

type zerologRecorder struct {
	log zerolog.Logger
}

// NewZerologRecorder wraps a zerolog logger as an EventRecorder.
func NewZerologRecorder(log zerolog.Logger) EventRecorder {
	return &zerologRecorder{log: log}
}

func (r *zerologRecorder) Record(event string, fields map[string]any) {
	ev := r.log.Info().Str("event", event)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Send()
}

type nopRecorder struct{}

func (nopRecorder) Record(string, map[string]any) {}

// NopRecorder discards every event.
func NopRecorder() EventRecorder { return nopRecorder{} }
