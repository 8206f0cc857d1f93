package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
)

type captureSubscriber struct {
	events chan Event
	closed chan struct{}
}

func newCaptureSubscriber() *captureSubscriber {
	return &captureSubscriber{
		events: make(chan Event, 16),
		closed: make(chan struct{}),
	}
}

func (c *captureSubscriber) Send(e Event) error {
	c.events <- e
	return nil
}

func (c *captureSubscriber) Close() error {
	close(c.closed)
	return nil
}

func TestBrokerFansOutToAllSubscribers(t *testing.T) {
	b := NewBroker(&logging.Nop)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	first := newCaptureSubscriber()
	second := newCaptureSubscriber()
	b.Subscribe(first)
	b.Subscribe(second)

	b.Publish(CatalogUpdated, map[string]any{"topics": 3})

	for _, sub := range []*captureSubscriber{first, second} {
		select {
		case event := <-sub.events:
			assert.Equal(t, CatalogUpdated, event.Type)
			assert.False(t, event.Timestamp.IsZero())
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber never received the event")
		}
	}
	assert.Equal(t, int64(1), b.EventsPublished())
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker(&logging.Nop)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	sub := newCaptureSubscriber()
	b.Subscribe(sub)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Unsubscribe(sub)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	select {
	case <-sub.closed:
	case <-time.After(time.Second):
		t.Fatal("unsubscribe did not close the subscriber")
	}

	b.Publish(TopicsSeeded, nil)
	select {
	case <-sub.events:
		t.Fatal("unsubscribed subscriber received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerShutdownClosesSubscribers(t *testing.T) {
	b := NewBroker(&logging.Nop)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	sub := newCaptureSubscriber()
	b.Subscribe(sub)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-sub.closed:
	case <-time.After(time.Second):
		t.Fatal("shutdown did not close the subscriber")
	}
}
