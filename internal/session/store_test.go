package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/pricing"
)

func newOrderDraft(t *testing.T) *draft.OrderDraft {
	t.Helper()
	cat := catalog.NewSnapshot(nil, nil)
	d, err := draft.NewOrderDraft("c1", cat, pricing.TaxIncluded)
	require.NoError(t, err)
	return d
}

func TestStore_OpenGetClose(t *testing.T) {
	store := NewStore(time.Minute)

	id := store.OpenOrder(newOrderDraft(t))
	require.NotEmpty(t, id)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, sess.Order)
	assert.Nil(t, sess.Pack)

	store.Close(id)
	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveLatch(t *testing.T) {
	store := NewStore(time.Minute)
	id := store.OpenOrder(newOrderDraft(t))

	require.NoError(t, store.BeginSave(id))
	assert.ErrorIs(t, store.BeginSave(id), ErrSaveInProgress)

	store.EndSave(id)
	assert.NoError(t, store.BeginSave(id))
}

func TestStore_SweepExpiresIdleSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	idle := store.OpenOrder(newOrderDraft(t))
	saving := store.OpenOrder(newOrderDraft(t))
	require.NoError(t, store.BeginSave(saving))

	store.sweep(time.Now().Add(time.Second))

	_, err := store.Get(idle)
	assert.ErrorIs(t, err, ErrNotFound)

	// A session with a save in flight survives the sweep.
	_, err = store.Get(saving)
	assert.NoError(t, err)
}

func TestStore_UnknownSessionLatch(t *testing.T) {
	store := NewStore(time.Minute)
	assert.ErrorIs(t, store.BeginSave("missing"), ErrNotFound)
}

func TestAutosaver_LastWriteWins(t *testing.T) {
	a := NewAutosaver(20 * time.Millisecond)

	var mu sync.Mutex
	var got []string
	record := func(v string) func(context.Context) {
		return func(context.Context) {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}
	}

	a.Schedule("c1", record("first"))
	a.Schedule("c1", record("second"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "second"
	}, time.Second, 5*time.Millisecond)
}

func TestAutosaver_CancelDropsPendingWrite(t *testing.T) {
	a := NewAutosaver(20 * time.Millisecond)

	var ran bool
	var mu sync.Mutex
	a.Schedule("c1", func(context.Context) {
		mu.Lock()
		ran = true
		mu.Unlock()
	})
	a.Cancel("c1")

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, ran)
}

func TestAutosaver_IndependentKeys(t *testing.T) {
	a := NewAutosaver(10 * time.Millisecond)

	var mu sync.Mutex
	ran := make(map[string]bool)
	mark := func(key string) func(context.Context) {
		return func(context.Context) {
			mu.Lock()
			ran[key] = true
			mu.Unlock()
		}
	}

	a.Schedule("c1", mark("c1"))
	a.Schedule("c2", mark("c2"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ran["c1"] && ran["c2"]
	}, time.Second, 5*time.Millisecond)
}
