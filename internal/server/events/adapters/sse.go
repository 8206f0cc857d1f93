package adapters

import (
	"strconv"

	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	"github.com/phodsawiR/MedGuideApp2/internal/server/sse"
)

// SSESubscriber forwards broker events to the SSE broadcaster.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber creates the SSE bridge.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send implements events.Subscriber.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatInt(event.Timestamp.UnixNano(), 10),
		Data:  event.Data,
	})
	return nil
}

// Close implements events.Subscriber. The broadcaster owns its own
// lifecycle.
func (s *SSESubscriber) Close() error {
	return nil
}
