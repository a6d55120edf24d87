package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCRUD(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "wallets", map[string]any{"source": "Cash", "balance": int64(100)})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, "Cash", doc.Fields["source"])

	require.NoError(t, m.Update(ctx, "wallets", id, map[string]any{"balance": int64(250)}))

	doc, err = m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, int64(250), doc.Fields["balance"])
	assert.Equal(t, "Cash", doc.Fields["source"], "partial update keeps other fields")

	require.NoError(t, m.Delete(ctx, "wallets", id))
	_, err = m.Get(ctx, "wallets", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "wallets", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Update(ctx, "wallets", "nope", map[string]any{"x": 1}), ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "wallets", "nope"), ErrNotFound)
}

func TestMemoryQueryByField(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "wallets", map[string]any{"userId": "u1", "source": "Cash"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "wallets", map[string]any{"userId": "u1", "source": "Bank"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "wallets", map[string]any{"userId": "u2", "source": "Cash"})
	require.NoError(t, err)

	docs, err := m.QueryByField(ctx, "wallets", "userId", "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = m.QueryByField(ctx, "wallets", "userId", "u3")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryReturnedDocsAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "wallets", map[string]any{"balance": int64(100)})
	require.NoError(t, err)

	doc, err := m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	doc.Fields["balance"] = int64(999)

	doc, err = m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), doc.Fields["balance"], "mutating a returned doc must not leak into the store")
}

func TestMemoryRunAtomicCommit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "wallets", map[string]any{"balance": int64(100)})
	require.NoError(t, err)
	ref := Ref{Collection: "wallets", ID: id}

	var createdID string
	err = m.RunAtomic(ctx, []Ref{ref}, func(tx Tx) error {
		doc, ok := tx.Get(ref)
		require.True(t, ok)
		balance := Int64Field(doc.Fields, "balance")
		tx.Update(ref, map[string]any{"balance": balance - 30})
		createdID = tx.Create("transactions", map[string]any{"amount": int64(30)})
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, createdID)

	doc, err := m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, int64(70), doc.Fields["balance"])

	_, err = m.Get(ctx, "transactions", createdID)
	assert.NoError(t, err)
}

func TestMemoryRunAtomicRollback(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Create(ctx, "wallets", map[string]any{"balance": int64(100)})
	require.NoError(t, err)
	ref := Ref{Collection: "wallets", ID: id}

	boom := errors.New("boom")
	err = m.RunAtomic(ctx, []Ref{ref}, func(tx Tx) error {
		tx.Update(ref, map[string]any{"balance": int64(0)})
		tx.Create("transactions", map[string]any{"amount": int64(30)})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := m.Get(ctx, "wallets", id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), doc.Fields["balance"], "failed callback writes nothing")

	docs, err := m.QueryByField(ctx, "transactions", "amount", "30")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryRunAtomicMissingRef(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ref := Ref{Collection: "wallets", ID: "missing"}
	err := m.RunAtomic(ctx, []Ref{ref}, func(tx Tx) error {
		_, ok := tx.Get(ref)
		assert.False(t, ok, "missing refs read as absent, not as an error")
		return nil
	})
	assert.NoError(t, err)
}

func TestMemorySubscribe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ch, stop, err := m.Subscribe(ctx, "wallets", "userId", "u1")
	require.NoError(t, err)

	id, err := m.Create(ctx, "wallets", map[string]any{"userId": "u1", "balance": int64(5)})
	require.NoError(t, err)

	snap := <-ch
	assert.Equal(t, id, snap.Doc.ID)
	assert.False(t, snap.Deleted)

	// A different user's wallet must not be delivered.
	_, err = m.Create(ctx, "wallets", map[string]any{"userId": "u2"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "wallets", id))
	snap = <-ch
	assert.Equal(t, id, snap.Doc.ID)
	assert.True(t, snap.Deleted)

	stop()
	_, open := <-ch
	assert.False(t, open, "stop closes the channel")

	// Stopping twice must not panic.
	stop()
}

func TestMemorySubscribeAfterStopDropsEvents(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, stop, err := m.Subscribe(ctx, "wallets", "userId", "u1")
	require.NoError(t, err)
	stop()

	_, err = m.Create(ctx, "wallets", map[string]any{"userId": "u1"})
	assert.NoError(t, err, "mutations proceed with no live subscribers")
}
