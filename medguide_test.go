package medguide

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
	"github.com/phodsawiR/MedGuideApp2/pkg/store/memory"
	"github.com/phodsawiR/MedGuideApp2/pkg/view"
)

var testSeed = catalogs.Topics{
	{System: "Cardiovascular System", Title: "ACS: EKG & Management", YieldScore: 5, Summary: "MONA"},
	{System: "Nervous System", Title: "Stroke Localization", YieldScore: 5, Summary: "MCA ACA"},
	{System: "Renal & Urinary System", Title: "Urolithiasis", YieldScore: 2, Summary: "stones"},
}

func newTestEngine(t *testing.T, opts ...Option) MedGuide {
	t.Helper()
	base := []Option{
		WithSeed(testSeed),
		WithIdentityProvider(identity.NewStatic("tester")),
		WithLogger(&logging.Nop),
	}
	m, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestEngineStartSeedsEmptyStore(t *testing.T) {
	m := newTestEngine(t)
	require.NoError(t, m.Start(context.Background()))

	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })

	id, err := m.Identity()
	require.NoError(t, err)
	assert.Equal(t, identity.Identity("tester"), id)

	assert.Equal(t, []string{
		"Cardiovascular System",
		"Nervous System",
		"Renal & Urinary System",
	}, m.Systems())
}

func TestEngineRemovesDuplicatesOnStart(t *testing.T) {
	dup := catalogs.Topic{System: "Cardiovascular System", Title: "ACS: EKG & Management", YieldScore: 5}
	s := memory.New(memory.WithSeed("topics", catalogs.Topics{dup, dup, dup}))

	var removed, seeded int
	m := newTestEngine(t, WithStore(s))
	m.OnDuplicatesRemoved(func(n int) { removed = n })
	m.OnSeeded(func(n int) { seeded = n })

	require.NoError(t, m.Start(context.Background()))

	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, seeded, "the other seed records are inserted")
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })
}

// flakyBatchStore fails the first n batch commits.
type flakyBatchStore struct {
	store.Store
	mu       sync.Mutex
	failures int
}

func (s *flakyBatchStore) CommitBatch(ctx context.Context, collection string, batch store.Batch) error {
	s.mu.Lock()
	fail := s.failures > 0
	if fail {
		s.failures--
	}
	s.mu.Unlock()
	if fail {
		return errors.ErrStoreUnavailable
	}
	return s.Store.CommitBatch(ctx, collection, batch)
}

func TestEngineStartSurvivesReconcileFailure(t *testing.T) {
	s := &flakyBatchStore{Store: memory.New(), failures: 1}
	m := newTestEngine(t, WithStore(s))

	require.NoError(t, m.Start(context.Background()))

	id, err := m.Identity()
	require.NoError(t, err)
	assert.Equal(t, identity.Identity("tester"), id)
	assert.Empty(t, m.AllTopics(), "seed commit failed, collection still empty")

	// The next pass seeds the collection and the live view catches up.
	result, err := m.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(testSeed), result.Seeded)
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })
}

func TestEngineGatesOnIdentity(t *testing.T) {
	m := newTestEngine(t)

	_, err := m.Identity()
	assert.True(t, errors.IsIdentityNotReady(err))

	_, err = m.ToggleReviewed(context.Background(), "r1")
	assert.True(t, errors.IsIdentityNotReady(err))

	assert.Nil(t, m.Topics())
}

func TestEngineToggleReviewedAnnotatesView(t *testing.T) {
	m := newTestEngine(t)
	require.NoError(t, m.Start(context.Background()))
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })

	target := m.AllTopics()[0]
	now, err := m.ToggleReviewed(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, now)

	m.SetFilter(view.Filter{System: view.AllSystems, MinYield: 1})
	for _, topic := range m.Topics() {
		assert.Equal(t, topic.ID == target.ID, topic.Reviewed)
	}
}

func TestEngineFilterShapesPresentedList(t *testing.T) {
	m := newTestEngine(t)
	require.NoError(t, m.Start(context.Background()))
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })

	// The default filter hides yield scores below 3.
	assert.Len(t, m.Topics(), 2)

	m.SetFilter(view.Filter{System: "Renal & Urinary System", MinYield: 1})
	got := m.Topics()
	require.Len(t, got, 1)
	assert.Equal(t, "Urolithiasis", got[0].Title)
}

func TestEngineStartTwiceFails(t *testing.T) {
	m := newTestEngine(t)
	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()))
}

func TestEngineReconcileOnDemand(t *testing.T) {
	m := newTestEngine(t)
	require.NoError(t, m.Start(context.Background()))
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })

	// The store is already consistent after Start.
	result, err := m.Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Changed())

	// A duplicate written behind the engine's back is cleaned up.
	_, err = m.Store().CreateDoc(context.Background(), "topics",
		catalogs.Topic{System: "Nervous System", Title: "Stroke Localization", YieldScore: 5})
	require.NoError(t, err)

	result, err = m.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	waitFor(t, func() bool { return len(m.AllTopics()) == len(testSeed) })
}

func TestEngineDefaultSeedIsEmbeddedCatalog(t *testing.T) {
	m, err := New(
		WithIdentityProvider(identity.NewStatic("tester")),
		WithLogger(&logging.Nop),
	)
	require.NoError(t, err)
	defer m.Close()

	assert.NotEmpty(t, m.Seed())
}
