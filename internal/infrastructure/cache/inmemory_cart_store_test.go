package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func TestInMemoryCartStore_AddAccumulates(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	productID := uuid.New()

	require.NoError(t, store.Add(ctx, "sess-1", productID, 2))
	require.NoError(t, store.Add(ctx, "sess-1", productID, 3))

	snap, err := store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), snap[productID])
}

func TestInMemoryCartStore_AddRejectsNonPositive(t *testing.T) {
	store := NewInMemoryCartStore()
	assert.Error(t, store.Add(context.Background(), "sess-1", uuid.New(), 0))
	assert.Error(t, store.Add(context.Background(), "sess-1", uuid.New(), -2))
}

func TestInMemoryCartStore_EnforcesAggregateInvariants(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()

	// the nil product ID is rejected by the Cart aggregate, and the
	// rejected session leaves no cart behind
	var domainErr *shared.DomainError
	err := store.Add(ctx, "sess-1", uuid.Nil, 1)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)

	err = store.SetQuantity(ctx, "sess-1", uuid.Nil, 3)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)

	snap, err := store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestInMemoryCartStore_SetQuantity(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	productID := uuid.New()

	require.NoError(t, store.SetQuantity(ctx, "sess-1", productID, 4))
	snap, err := store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), snap[productID])

	// non-positive removes the entry
	require.NoError(t, store.SetQuantity(ctx, "sess-1", productID, 0))
	snap, err = store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotContains(t, snap, productID)
}

func TestInMemoryCartStore_SessionsAreIsolated(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	productID := uuid.New()

	require.NoError(t, store.Add(ctx, "sess-1", productID, 1))
	require.NoError(t, store.Add(ctx, "sess-2", productID, 7))

	count1, err := store.ItemCount(ctx, "sess-1")
	require.NoError(t, err)
	count2, err := store.ItemCount(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count1)
	assert.Equal(t, int64(7), count2)
}

func TestInMemoryCartStore_RemoveAbsentIsNoOp(t *testing.T) {
	store := NewInMemoryCartStore()
	assert.NoError(t, store.Remove(context.Background(), "sess-1", uuid.New()))
}

func TestInMemoryCartStore_Clear(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sess-1", uuid.New(), 2))
	require.NoError(t, store.Clear(ctx, "sess-1"))
	require.NoError(t, store.Clear(ctx, "sess-1"), "clearing twice is fine")

	count, err := store.ItemCount(ctx, "sess-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInMemoryCartStore_SnapshotIsDetached(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	productID := uuid.New()

	require.NoError(t, store.Add(ctx, "sess-1", productID, 2))
	snap, err := store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)

	snap[productID] = 99

	fresh, err := store.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh[productID])
}

func TestInMemoryCartStore_UnknownSessionYieldsEmptySnapshot(t *testing.T) {
	store := NewInMemoryCartStore()
	snap, err := store.Snapshot(context.Background(), "ghost")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestInMemoryCartStore_ConcurrentAdds(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	productID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Add(ctx, "sess-1", productID, 1)
		}()
	}
	wg.Wait()

	count, err := store.ItemCount(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)
}
