package pipeline

import "github.com/rs/zerolog"

// LogPublisher writes every event as a debug-level structured log line.
type LogPublisher struct {
	Logger zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	ev := p.Logger.Debug().Str("event", e.Name)
	if e.Session != "" {
		ev = ev.Str("session", e.Session)
	}
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg("pipeline event")
}
