// Package events fans catalog engine events out to the realtime
// transports. Engine hooks publish into a single broker; WebSocket and
// SSE subscribers receive every event through one pipeline.
package events

import "time"

// EventType labels a catalog event.
type EventType string

// Event types published by the engine and transports.
const (
	// CatalogUpdated fires when the live projection is replaced.
	CatalogUpdated EventType = "catalog.updated"

	// TopicsSeeded fires after a pass inserts seed records.
	TopicsSeeded EventType = "topics.seeded"

	// DuplicatesRemoved fires after a pass deletes duplicate records.
	DuplicatesRemoved EventType = "duplicates.removed"

	// SyncCompleted fires after an on-demand reconciliation pass.
	SyncCompleted EventType = "sync.completed"

	// ClientConnected fires when a realtime client attaches.
	ClientConnected EventType = "client.connected"
)

// Event is a typed, timestamped payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
