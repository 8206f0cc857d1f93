// Package adapters bridges the event broker to the realtime
// transports.
package adapters

import (
	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	ws "github.com/phodsawiR/MedGuideApp2/internal/server/websocket"
)

// WebSocketSubscriber forwards broker events to the WebSocket hub.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates the WebSocket bridge.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send implements events.Subscriber.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close implements events.Subscriber. The hub owns its own lifecycle.
func (w *WebSocketSubscriber) Close() error {
	return nil
}
