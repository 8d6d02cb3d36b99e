package pipeline

// Event represents a pipeline lifecycle event: a name, the session it concerns and
// optional fields.
type Event struct {
	Name    string
	Session string
	Fields  map[string]any
}

// EventPublisher receives events from the pipeline. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
