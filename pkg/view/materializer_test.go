package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store/memory"
)

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

func TestMaterializerTracksStore(t *testing.T) {
	s := memory.New(memory.WithSeed("topics", catalogs.Topics{
		{System: "Nervous System", Title: "Stroke"},
	}))
	ctx := context.Background()

	m := NewMaterializer(s, WithLogger(&logging.Nop))
	require.NoError(t, m.Start(ctx))
	defer m.Stop()

	waitFor(t, func() bool { return m.Len() == 1 })

	_, err := s.CreateDoc(ctx, "topics", catalogs.Topic{System: "Cardiovascular System", Title: "ACS"})
	require.NoError(t, err)

	waitFor(t, func() bool { return m.Len() == 2 })

	topics := m.Topics()
	assert.Equal(t, "Cardiovascular System", topics[0].System, "projection keeps store-side order")
}

func TestMaterializerOnChange(t *testing.T) {
	s := memory.New()
	changes := make(chan int, 16)

	m := NewMaterializer(s,
		WithLogger(&logging.Nop),
		WithOnChange(func(ts catalogs.Topics) { changes <- len(ts) }),
	)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Equal(t, 0, <-changes, "initial snapshot fires the hook")

	_, err := s.CreateDoc(context.Background(), "topics", catalogs.Topic{System: "X", Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, 1, <-changes)
}

func TestMaterializerStopReleasesSubscription(t *testing.T) {
	s := memory.New()
	m := NewMaterializer(s, WithLogger(&logging.Nop))
	require.NoError(t, m.Start(context.Background()))

	m.Stop() // must not hang
	m.Stop() // second stop is a no-op

	// Writes after stop do not reach the projection.
	_, err := s.CreateDoc(context.Background(), "topics", catalogs.Topic{System: "X", Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestMaterializerTopicsReturnsCopy(t *testing.T) {
	s := memory.New(memory.WithSeed("topics", catalogs.Topics{{System: "X", Title: "T"}}))
	m := NewMaterializer(s, WithLogger(&logging.Nop))
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	waitFor(t, func() bool { return m.Len() == 1 })

	got := m.Topics()
	got[0].Title = "mutated"
	assert.Equal(t, "T", m.Topics()[0].Title)
}
