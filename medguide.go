// Package medguide is a catalog synchronization and reconciliation
// engine for the study-topic catalog. It keeps a remote topic
// collection consistent with an embedded seed catalog, maintains a live
// local projection of the collection, overlays per-identity review
// progress, and derives a filtered, sorted presentation list.
package medguide

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phodsawiR/MedGuideApp2/internal/embedded"
	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/progress"
	"github.com/phodsawiR/MedGuideApp2/pkg/reconcile"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
	"github.com/phodsawiR/MedGuideApp2/pkg/store/memory"
	"github.com/phodsawiR/MedGuideApp2/pkg/view"
)

// Topic is a catalog record joined with the session identity's
// reviewed flag.
type Topic struct {
	catalogs.Topic
	Reviewed bool `json:"reviewed"`
}

// MedGuide is the engine's public interface.
type MedGuide interface {
	// Start completes the identity handshake, runs the initial
	// reconciliation pass, and begins live materialization. It blocks
	// until the engine is serving or the context is canceled. Mutating
	// operations called before Start return ErrIdentityNotReady.
	Start(ctx context.Context) error

	// Identity returns the session identity once the handshake has
	// completed.
	Identity() (identity.Identity, error)

	// Topics returns the presented list: the live projection passed
	// through the current filter, annotated with review progress.
	Topics() []Topic

	// AllTopics returns the unfiltered live projection.
	AllTopics() catalogs.Topics

	// Systems returns the distinct system names in the projection.
	Systems() []string

	// Filter returns the current presentation filter.
	Filter() view.Filter

	// SetFilter replaces the presentation filter.
	SetFilter(f view.Filter)

	// ToggleReviewed flips the reviewed flag for a record id under the
	// session identity and reports the new value.
	ToggleReviewed(ctx context.Context, id string) (bool, error)

	// Reconcile runs an on-demand dedup + seed pass.
	Reconcile(ctx context.Context) (reconcile.Result, error)

	// Store exposes the underlying store, for the server and CLI.
	Store() store.Store

	// Collection returns the reconciled and observed collection path.
	Collection() string

	// Seed returns a copy of the seed catalog.
	Seed() catalogs.Topics

	// OnCatalogChanged registers a hook fired with each new projection.
	OnCatalogChanged(fn CatalogChangedFunc)

	// OnDuplicatesRemoved registers a hook fired after a pass that
	// deleted duplicate records.
	OnDuplicatesRemoved(fn DuplicatesRemovedFunc)

	// OnSeeded registers a hook fired after a pass that inserted seed
	// records.
	OnSeeded(fn SeededFunc)

	// Close releases the projection and overlay subscriptions.
	Close() error
}

// medguide is the unexported implementation behind New.
type medguide struct {
	store      store.Store
	seed       catalogs.Topics
	provider   identity.Provider
	collection string
	logger     *zerolog.Logger

	reconciler   *reconcile.Reconciler
	materializer *view.Materializer
	overlay      *progress.Overlay

	mu      sync.RWMutex
	filter  view.Filter
	id      identity.Identity
	started bool
	closed  bool

	hooksMu           sync.RWMutex
	catalogChanged    []CatalogChangedFunc
	duplicatesRemoved []DuplicatesRemovedFunc
	seeded            []SeededFunc
}

// New creates an engine. Without options it runs on an in-memory store
// seeded from the embedded catalog, with an anonymous identity minted
// on Start.
func New(opts ...Option) (MedGuide, error) {
	seed, err := embedded.Topics()
	if err != nil {
		return nil, err
	}

	m := &medguide{
		store:      memory.New(),
		seed:       seed,
		collection: reconcile.DefaultCollection,
		filter:     view.DefaultFilter(),
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	m.reconciler = reconcile.New(m.store, m.seed,
		reconcile.WithCollection(m.collection),
		reconcile.WithLogger(m.logger),
	)
	return m, nil
}

// Start implements MedGuide.
func (m *medguide) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("engine already started")
	}
	if m.provider == nil {
		m.provider = identity.NewAnonymous(ctx)
	}
	provider := m.provider
	m.mu.Unlock()

	var id identity.Identity
	select {
	case <-ctx.Done():
		return ctx.Err()
	case got, ok := <-provider.Ready():
		if !ok {
			return errors.ErrIdentityNotReady
		}
		id = got
	}
	m.logger.Debug().Str("identity", string(id)).Msg("Identity ready")

	// One reconciliation pass per session, before the projection
	// starts observing. A failed pass must not take down the live
	// view; the collection self-corrects on the next pass.
	if result, err := m.reconciler.Run(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Startup reconciliation failed, continuing with live view")
	} else {
		m.fireReconcileHooks(result)
	}

	mat := view.NewMaterializer(m.store,
		view.WithCollection(m.collection),
		view.WithLogger(m.logger),
		view.WithOnChange(m.fireCatalogChanged),
	)
	if err := mat.Start(ctx); err != nil {
		return err
	}

	overlay := progress.NewOverlay(m.store, id, progress.WithLogger(m.logger))
	if err := overlay.Start(ctx); err != nil {
		mat.Stop()
		return err
	}

	m.mu.Lock()
	m.id = id
	m.materializer = mat
	m.overlay = overlay
	m.started = true
	m.mu.Unlock()

	m.logger.Info().
		Str("collection", m.collection).
		Int("seed_records", len(m.seed)).
		Msg("Engine started")
	return nil
}

// Identity implements MedGuide.
func (m *medguide) Identity() (identity.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started {
		return "", errors.ErrIdentityNotReady
	}
	return m.id, nil
}

// Topics implements MedGuide.
func (m *medguide) Topics() []Topic {
	m.mu.RLock()
	mat, overlay, filter := m.materializer, m.overlay, m.filter
	m.mu.RUnlock()
	if mat == nil {
		return nil
	}

	presented := filter.Apply(mat.Topics())
	out := make([]Topic, len(presented))
	for i, t := range presented {
		out[i] = Topic{Topic: t, Reviewed: overlay.Reviewed(t.ID)}
	}
	return out
}

// AllTopics implements MedGuide.
func (m *medguide) AllTopics() catalogs.Topics {
	m.mu.RLock()
	mat := m.materializer
	m.mu.RUnlock()
	if mat == nil {
		return nil
	}
	return mat.Topics()
}

// Systems implements MedGuide.
func (m *medguide) Systems() []string {
	return m.AllTopics().Systems()
}

// Filter implements MedGuide.
func (m *medguide) Filter() view.Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// SetFilter implements MedGuide.
func (m *medguide) SetFilter(f view.Filter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// ToggleReviewed implements MedGuide.
func (m *medguide) ToggleReviewed(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	overlay := m.overlay
	m.mu.RUnlock()
	if overlay == nil {
		return false, errors.ErrIdentityNotReady
	}
	return overlay.Toggle(ctx, id), nil
}

// Reconcile implements MedGuide.
func (m *medguide) Reconcile(ctx context.Context) (reconcile.Result, error) {
	result, err := m.reconciler.Run(ctx)
	if err != nil {
		return result, err
	}
	m.fireReconcileHooks(result)
	return result, nil
}

// Store implements MedGuide.
func (m *medguide) Store() store.Store {
	return m.store
}

// Collection implements MedGuide.
func (m *medguide) Collection() string {
	return m.collection
}

// Seed implements MedGuide.
func (m *medguide) Seed() catalogs.Topics {
	return m.seed.Copy()
}

// Close implements MedGuide.
func (m *medguide) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	mat, overlay := m.materializer, m.overlay
	m.mu.Unlock()

	if overlay != nil {
		overlay.Stop()
	}
	if mat != nil {
		mat.Stop()
	}
	return nil
}
