package view

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

// ChangeFunc is invoked from the materializer's loop with each new
// snapshot. Implementations must not block.
type ChangeFunc func(catalogs.Topics)

// Materializer keeps an always-current local projection of the remote
// topic collection, driven by the store's push subscription. The
// projection is replaced wholesale on every push; the materializer
// never patches it incrementally.
type Materializer struct {
	store      store.Store
	collection string
	orderBy    string
	logger     *zerolog.Logger
	onChange   ChangeFunc

	mu      sync.RWMutex
	current catalogs.Topics

	sub  store.Subscription
	done chan struct{}
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithCollection overrides the observed collection path.
func WithCollection(collection string) Option {
	return func(m *Materializer) {
		m.collection = collection
	}
}

// WithOnChange registers a callback fired after each projection
// replacement.
func WithOnChange(fn ChangeFunc) Option {
	return func(m *Materializer) {
		m.onChange = fn
	}
}

// WithLogger overrides the materializer's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Materializer) {
		m.logger = logger
	}
}

// NewMaterializer creates a materializer over the given store.
func NewMaterializer(s store.Store, opts ...Option) *Materializer {
	m := &Materializer{
		store:      s,
		collection: "topics",
		orderBy:    "system",
		logger:     logging.Default(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start subscribes to the collection and launches the single-writer
// loop. It returns once the subscription is established; the initial
// snapshot arrives through the loop.
func (m *Materializer) Start(ctx context.Context) error {
	sub, err := m.store.Subscribe(ctx, store.Query{
		Collection: m.collection,
		OrderBy:    m.orderBy,
	})
	if err != nil {
		return err
	}
	m.sub = sub

	go m.run(ctx)
	return nil
}

// run is the only writer of the projection.
func (m *Materializer) run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.sub.Close()
			return
		case snapshot, ok := <-m.sub.Updates():
			if !ok {
				return
			}
			m.mu.Lock()
			m.current = snapshot
			m.mu.Unlock()

			m.logger.Debug().
				Str("collection", m.collection).
				Int("records", len(snapshot)).
				Msg("Projection replaced")

			if m.onChange != nil {
				m.onChange(snapshot)
			}
		}
	}
}

// Stop releases the subscription and waits for the loop to exit.
// Calling Stop on a materializer that never started is a no-op.
func (m *Materializer) Stop() {
	if m.sub == nil {
		return
	}
	m.sub.Close()
	<-m.done
}

// Topics returns a copy of the current projection.
func (m *Materializer) Topics() catalogs.Topics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Copy()
}

// Len returns the size of the current projection.
func (m *Materializer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.current)
}
