package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
	"github.com/phodsawiR/MedGuideApp2/pkg/store/memory"
)

var seed = catalogs.Topics{
	{System: "X", Title: "T", YieldScore: 5},
	{System: "Y", Title: "U", YieldScore: 4},
}

func newReconciler(s store.Store) *Reconciler {
	return New(s, seed, WithLogger(&logging.Nop))
}

func TestComputePlanFirstOccurrenceWins(t *testing.T) {
	snapshot := catalogs.Topics{
		{ID: "a", System: "X", Title: "T"},
		{ID: "b", System: "x ", Title: " t"}, // same key as a
		{ID: "c", System: "X", Title: "T"},   // same key again
	}

	plan := ComputePlan(snapshot, nil)
	assert.Equal(t, []string{"b", "c"}, plan.Deletes)
	assert.Equal(t, "a", plan.Kept[catalogs.NewKey("X", "T")])
	assert.Empty(t, plan.Creates)
}

func TestComputePlanSkipsUnidentifiedRecords(t *testing.T) {
	snapshot := catalogs.Topics{
		{ID: "a", System: "", Title: "orphan"},
		{ID: "b", System: "", Title: "orphan"},
	}

	plan := ComputePlan(snapshot, catalogs.Topics{{System: "", Title: "orphan"}})
	assert.Empty(t, plan.Deletes, "records without identity are never deleted")
	assert.Empty(t, plan.Creates, "seeds without identity are never inserted")
}

func TestComputePlanStripsSeedIDs(t *testing.T) {
	plan := ComputePlan(nil, catalogs.Topics{{ID: "stale", System: "X", Title: "T"}})
	require.Len(t, plan.Creates, 1)
	assert.Empty(t, plan.Creates[0].ID)
}

func TestRunSeedsEmptyStore(t *testing.T) {
	s := memory.New()
	result, err := newReconciler(s).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 0, Seeded: 2}, result)

	snapshot, err := s.SnapshotAll(context.Background(), DefaultCollection)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	for _, topic := range snapshot {
		assert.NotEmpty(t, topic.ID)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	s := memory.New()
	r := newReconciler(s)
	ctx := context.Background()

	first, err := r.Run(ctx)
	require.NoError(t, err)
	assert.True(t, first.Changed())

	second, err := r.Run(ctx)
	require.NoError(t, err)
	assert.False(t, second.Changed(), "second pass on unchanged store is a no-op")
}

func TestRunConverges(t *testing.T) {
	// Arbitrary starting state: duplicates of (X,T), no (Y,U), and an
	// unrelated extra record.
	s := memory.New(memory.WithSeed(DefaultCollection, catalogs.Topics{
		{System: "X", Title: "T"},
		{System: "X", Title: "T"},
		{System: "X", Title: "T"},
		{System: "Z", Title: "Extra"},
	}))
	ctx := context.Background()

	result, err := newReconciler(s).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 2, Seeded: 1}, result)

	snapshot, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)

	counts := make(map[catalogs.Key]int)
	for _, topic := range snapshot {
		counts[topic.Key()]++
	}
	for key, n := range counts {
		assert.Equal(t, 1, n, "key %s must be unique after reconciliation", key)
	}
	assert.Equal(t, 1, counts[catalogs.NewKey("X", "T")])
	assert.Equal(t, 1, counts[catalogs.NewKey("Y", "U")])
}

func TestRunPreservesUniqueNonSeedRecords(t *testing.T) {
	s := memory.New(memory.WithSeed(DefaultCollection, catalogs.Topics{
		{System: "X", Title: "T"},
		{System: "Y", Title: "U"},
		{System: "Custom", Title: "Hand-written topic"},
	}))
	ctx := context.Background()

	result, err := newReconciler(s).Run(ctx)
	require.NoError(t, err)
	assert.False(t, result.Changed())

	snapshot, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	assert.Len(t, snapshot, 3, "unique non-seed records survive")
}

func TestRunScenarioDuplicatesAndMissingSeed(t *testing.T) {
	// Three identical (X,T) records from prior bad writes, no (Y,U).
	s := memory.New(memory.WithSeed(DefaultCollection, catalogs.Topics{
		{System: "X", Title: "T"},
		{System: "X", Title: "T"},
		{System: "X", Title: "T"},
	}))
	ctx := context.Background()

	before, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	beforeIDs := make(map[string]struct{}, len(before))
	for _, topic := range before {
		beforeIDs[topic.ID] = struct{}{}
	}

	result, err := newReconciler(s).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 2, Seeded: 1}, result)

	after, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	require.Len(t, after, 2)

	var kept, created *catalogs.Topic
	for i := range after {
		switch after[i].Key() {
		case catalogs.NewKey("X", "T"):
			kept = &after[i]
		case catalogs.NewKey("Y", "U"):
			created = &after[i]
		}
	}
	require.NotNil(t, kept)
	require.NotNil(t, created)

	_, survivedFromBefore := beforeIDs[kept.ID]
	assert.True(t, survivedFromBefore, "one of the original three survives")
	_, reused := beforeIDs[created.ID]
	assert.False(t, reused, "the seeded record gets a freshly assigned id")
}

// failingStore rejects commits to exercise the failure path.
type failingStore struct {
	store.Store
}

func (f *failingStore) CommitBatch(context.Context, string, store.Batch) error {
	return errors.ErrStoreUnavailable
}

func TestRunCommitFailure(t *testing.T) {
	s := memory.New(memory.WithSeed(DefaultCollection, catalogs.Topics{
		{System: "X", Title: "T"},
		{System: "X", Title: "T"},
	}))

	r := New(&failingStore{Store: s}, seed, WithLogger(&logging.Nop))
	result, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
	assert.False(t, result.Changed())

	// Nothing applied: the duplicate pair is still present.
	snapshot, err := s.SnapshotAll(context.Background(), DefaultCollection)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
}

func TestConcurrentPassesConvergeByNextRun(t *testing.T) {
	// Two callers race the same pass; the worst case is a
	// re-introduced duplicate, removed by a follow-up run.
	s := memory.New()
	ctx := context.Background()

	snapA, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	snapB, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)

	planA := ComputePlan(snapA, seed)
	planB := ComputePlan(snapB, seed)

	require.NoError(t, s.CommitBatch(ctx, DefaultCollection, store.Batch{Deletes: planA.Deletes, Creates: planA.Creates}))
	require.NoError(t, s.CommitBatch(ctx, DefaultCollection, store.Batch{Deletes: planB.Deletes, Creates: planB.Creates}))

	// Both inserted the full seed: duplicates exist now.
	mid, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	assert.Len(t, mid, 4)

	result, err := newReconciler(s).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Removed)

	final, err := s.SnapshotAll(ctx, DefaultCollection)
	require.NoError(t, err)
	assert.Len(t, final, 2)
}
