package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
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

func TestOverlayToggleIsOptimistic(t *testing.T) {
	s := memory.New()
	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()

	assert.True(t, o.Toggle(context.Background(), "r1"), "flip reads back immediately")
	assert.True(t, o.Reviewed("r1"))

	// The full overlay lands in the identity's document.
	waitFor(t, func() bool {
		fields, err := s.GetDoc(context.Background(), DocPath("alice"))
		return err == nil && fields["r1"] == true
	})
}

func TestOverlayToggleTwiceClears(t *testing.T) {
	s := memory.New()
	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()

	o.Toggle(context.Background(), "r1")
	assert.False(t, o.Toggle(context.Background(), "r1"))
	assert.False(t, o.Reviewed("r1"))

	waitFor(t, func() bool {
		fields, err := s.GetDoc(context.Background(), DocPath("alice"))
		return err == nil && fields["r1"] == false
	})
}

func TestOverlayIsolationBetweenIdentities(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	a := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	b := NewOverlay(s, identity.Identity("bob"), WithLogger(&logging.Nop))
	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))
	defer a.Stop()
	defer b.Stop()

	a.Toggle(ctx, "r1")

	waitFor(t, func() bool {
		_, err := s.GetDoc(ctx, DocPath("alice"))
		return err == nil
	})

	assert.True(t, a.Reviewed("r1"))
	assert.False(t, b.Reviewed("r1"), "another identity's overlay is untouched")
	_, err := s.GetDoc(ctx, DocPath("bob"))
	assert.True(t, errors.IsNotFound(err))
}

func TestOverlayLoadsExistingDocument(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.MergeWrite(ctx, DocPath("alice"), store.Fields{"r1": true, "r2": false}))

	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(ctx))
	defer o.Stop()

	waitFor(t, func() bool { return o.Reviewed("r1") })
	assert.False(t, o.Reviewed("r2"))
	assert.Equal(t, map[string]bool{"r1": true, "r2": false}, o.All())
}

func TestOverlayFollowsRemoteWrites(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(ctx))
	defer o.Stop()

	// A write from another session for the same identity flows in.
	require.NoError(t, s.MergeWrite(ctx, DocPath("alice"), store.Fields{"r9": true}))
	waitFor(t, func() bool { return o.Reviewed("r9") })
}

type failingWriteStore struct {
	store.Store
}

func (f *failingWriteStore) MergeWrite(ctx context.Context, path string, fields store.Fields) error {
	return errors.ErrStoreUnavailable
}

func TestOverlayKeepsLocalStateOnWriteFailure(t *testing.T) {
	s := &failingWriteStore{Store: memory.New()}
	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()

	assert.True(t, o.Toggle(context.Background(), "r1"))

	// The failed write is swallowed and the optimistic flip survives.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, o.Reviewed("r1"))
}

type ctxRecordingStore struct {
	store.Store
	writeErr chan error
}

func (r *ctxRecordingStore) MergeWrite(ctx context.Context, path string, fields store.Fields) error {
	err := r.Store.MergeWrite(ctx, path, fields)
	if err == nil {
		err = ctx.Err()
	}
	r.writeErr <- err
	return err
}

func TestOverlayWriteOutlivesCallerContext(t *testing.T) {
	s := &ctxRecordingStore{Store: memory.New(), writeErr: make(chan error, 1)}
	o := NewOverlay(s, identity.Identity("alice"), WithLogger(&logging.Nop))
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()

	// A request-scoped context is canceled as soon as the handler
	// returns; the background write must not be.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, o.Toggle(ctx, "r1"))

	select {
	case err := <-s.writeErr:
		assert.NoError(t, err, "write context canceled with the caller")
	case <-time.After(2 * time.Second):
		t.Fatal("merge write never ran")
	}
}

func TestOverlayStopWithoutStart(t *testing.T) {
	o := NewOverlay(memory.New(), identity.Identity("alice"))
	o.Stop()
}
