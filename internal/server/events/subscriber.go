package events

// Subscriber consumes the unified event stream. Implementations adapt
// it to a transport (WebSocket, SSE).
type Subscriber interface {
	// Send delivers an event. Implementations must not block.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
