// Package reconcile brings the remote topic collection in line with
// the embedded seed catalog: duplicate records sharing a normalized
// key are removed, and seed records missing from the collection are
// inserted, in one atomic batch.
//
// The pass is idempotent (re-running on the post-commit state is a
// no-op) and convergent under concurrent execution: racing callers can
// at worst re-introduce a duplicate, which the next pass removes.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

// DefaultCollection is the collection path reconciled by default.
const DefaultCollection = "topics"

// Plan describes the mutations a reconciliation pass would commit.
type Plan struct {
	// Deletes lists ids of records whose normalized key was already
	// seen earlier in the snapshot scan.
	Deletes []string

	// Creates lists seed records whose key has no surviving remote
	// record.
	Creates catalogs.Topics

	// Kept maps each normalized key to the id of its surviving record.
	Kept map[catalogs.Key]string
}

// Empty reports whether the plan carries no work.
func (p Plan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Creates) == 0
}

// ComputePlan scans the snapshot once in its given order. The first
// record observed for a key survives; later ones are marked for
// deletion. Records missing either identity field are skipped
// entirely: they are never deleted and never satisfy a seed key.
func ComputePlan(snapshot, seed catalogs.Topics) Plan {
	plan := Plan{Kept: make(map[catalogs.Key]string, len(snapshot))}

	for i := range snapshot {
		if !snapshot[i].Identified() {
			continue
		}
		key := snapshot[i].Key()
		if _, seen := plan.Kept[key]; seen {
			plan.Deletes = append(plan.Deletes, snapshot[i].ID)
			continue
		}
		plan.Kept[key] = snapshot[i].ID
	}

	for i := range seed {
		if !seed[i].Identified() {
			continue
		}
		if _, ok := plan.Kept[seed[i].Key()]; ok {
			continue
		}
		create := seed[i]
		create.ID = "" // the store assigns a fresh id on commit
		plan.Creates = append(plan.Creates, create)
	}

	return plan
}

// Result summarizes a committed reconciliation pass.
type Result struct {
	// Removed is the number of duplicate records deleted.
	Removed int

	// Seeded is the number of seed records inserted.
	Seeded int
}

// Changed reports whether the pass committed any mutation.
func (r Result) Changed() bool {
	return r.Removed > 0 || r.Seeded > 0
}

// Reconciler runs the dedup + seed pass against a store.
type Reconciler struct {
	store      store.Store
	seed       catalogs.Topics
	collection string
	logger     *zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCollection overrides the reconciled collection path.
func WithCollection(collection string) Option {
	return func(r *Reconciler) {
		r.collection = collection
	}
}

// WithLogger overrides the reconciler's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a reconciler for the given store and seed catalog.
func New(s store.Store, seed catalogs.Topics, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:      s,
		seed:       seed,
		collection: DefaultCollection,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run snapshots the collection, computes the plan, and commits it as a
// single all-or-nothing batch. A plan with no work commits nothing.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	snapshot, err := r.store.SnapshotAll(ctx, r.collection)
	if err != nil {
		return Result{}, errors.NewDocError("snapshot", r.collection, err)
	}

	plan := ComputePlan(snapshot, r.seed)
	if plan.Empty() {
		r.logger.Debug().
			Str("collection", r.collection).
			Int("records", len(snapshot)).
			Msg("Catalog already consistent")
		return Result{}, nil
	}

	batch := store.Batch{Deletes: plan.Deletes, Creates: plan.Creates}
	if err := r.store.CommitBatch(ctx, r.collection, batch); err != nil {
		return Result{}, errors.NewBatchError(r.collection, len(plan.Deletes), len(plan.Creates), err)
	}

	result := Result{Removed: len(plan.Deletes), Seeded: len(plan.Creates)}
	r.logger.Info().
		Str("collection", r.collection).
		Int("removed", result.Removed).
		Int("seeded", result.Seeded).
		Msg("Catalog reconciled")
	return result, nil
}
