// Package progress tracks which topics a caller identity has marked
// reviewed. The overlay is a sparse record-id -> bool map owned by one
// identity, persisted in its own keyed document and merged into the
// presented view at render time.
package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

// DocPath returns the keyed-document path of an identity's overlay.
func DocPath(id identity.Identity) string {
	return fmt.Sprintf("users/%s/progress", id)
}

// Overlay is the per-identity reviewed map. Toggles apply locally
// first and persist asynchronously with a merge write; persistence
// failures are logged and swallowed, keeping the optimistic state.
type Overlay struct {
	store  store.Store
	id     identity.Identity
	path   string
	logger *zerolog.Logger

	mu       sync.RWMutex
	reviewed map[string]bool

	sub  store.DocSubscription
	done chan struct{}
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLogger overrides the overlay's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Overlay) {
		o.logger = logger
	}
}

// WithPath overrides the overlay's document path.
func WithPath(path string) Option {
	return func(o *Overlay) {
		o.path = path
	}
}

// NewOverlay creates the overlay for one identity.
func NewOverlay(s store.Store, id identity.Identity, opts ...Option) *Overlay {
	o := &Overlay{
		store:    s,
		id:       id,
		path:     DocPath(id),
		logger:   logging.Default(),
		reviewed: make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start subscribes to the overlay document and begins applying remote
// state. The overlay is re-read fresh each session; it carries no
// local persistence.
func (o *Overlay) Start(ctx context.Context) error {
	sub, err := o.store.SubscribeDoc(ctx, o.path)
	if err != nil {
		return err
	}
	o.sub = sub

	go o.run(ctx)
	return nil
}

func (o *Overlay) run(ctx context.Context) {
	defer close(o.done)
	for {
		select {
		case <-ctx.Done():
			o.sub.Close()
			return
		case fields, ok := <-o.sub.Updates():
			if !ok {
				return
			}
			o.replace(fields)
		}
	}
}

// replace swaps in the remote document state.
func (o *Overlay) replace(fields store.Fields) {
	next := make(map[string]bool, len(fields))
	for id, v := range fields {
		if b, ok := v.(bool); ok {
			next[id] = b
		}
	}

	o.mu.Lock()
	o.reviewed = next
	o.mu.Unlock()
}

// Stop releases the document subscription.
func (o *Overlay) Stop() {
	if o.sub == nil {
		return
	}
	o.sub.Close()
	<-o.done
}

// Reviewed reports whether the identity has marked the record id.
func (o *Overlay) Reviewed(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.reviewed[id]
}

// All returns a copy of the full overlay map.
func (o *Overlay) All() map[string]bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]bool, len(o.reviewed))
	for id, v := range o.reviewed {
		out[id] = v
	}
	return out
}

// Toggle flips the reviewed flag for a record id. The local state
// changes immediately; the full overlay is then persisted in the
// background with a merge write. A failed write is logged and
// swallowed, and the local state is not rolled back.
func (o *Overlay) Toggle(ctx context.Context, id string) bool {
	o.mu.Lock()
	o.reviewed[id] = !o.reviewed[id]
	now := o.reviewed[id]
	fields := make(store.Fields, len(o.reviewed))
	for rid, v := range o.reviewed {
		fields[rid] = v
	}
	o.mu.Unlock()

	// The write outlives the caller; a request-scoped context would be
	// canceled before it lands.
	writeCtx := context.WithoutCancel(ctx)
	go func() {
		if err := o.store.MergeWrite(writeCtx, o.path, fields); err != nil {
			o.logger.Warn().
				Err(err).
				Str("path", o.path).
				Str("record", id).
				Msg("Progress write failed, keeping optimistic state")
		}
	}()

	return now
}
