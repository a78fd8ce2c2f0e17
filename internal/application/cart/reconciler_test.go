package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

func TestReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("total equals sum over resolvable entries", func(t *testing.T) {
		productA := newCatalogProduct(t, "Running Shoes", "100.00", 5)
		productB := newCatalogProduct(t, "Socks", "50.00", 10)
		ghostID := uuid.New()

		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, mock.Anything).
			Return([]catalog.Product{*productA, *productB}, nil)

		r := NewReconciler(products)
		result, err := r.Reconcile(ctx, cart.Snapshot{
			productA.ID: 2,
			productB.ID: 1,
			ghostID:     4,
		})
		require.NoError(t, err)

		require.Len(t, result.Lines, 2)
		assert.True(t, result.Total.Equal(decimal.RequireFromString("250.00")))
		assert.Equal(t, []uuid.UUID{ghostID}, result.Unresolved)
	})

	t.Run("caps display quantity at stock without touching the subtotal", func(t *testing.T) {
		productA := newCatalogProduct(t, "Running Shoes", "100.00", 1)

		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, mock.Anything).
			Return([]catalog.Product{*productA}, nil)

		r := NewReconciler(products)
		result, err := r.Reconcile(ctx, cart.Snapshot{productA.ID: 3})
		require.NoError(t, err)

		require.Len(t, result.Lines, 1)
		line := result.Lines[0]
		assert.Equal(t, int64(3), line.Requested)
		assert.Equal(t, int64(1), line.DisplayQuantity())
		assert.True(t, line.ShortStock())
		// the subtotal keeps the requested quantity; commit decides fulfillability
		assert.True(t, line.LineTotal.Equal(decimal.RequireFromString("300.00")))
	})

	t.Run("empty snapshot yields empty result without a catalog read", func(t *testing.T) {
		products := new(MockProductRepository)

		r := NewReconciler(products)
		result, err := r.Reconcile(ctx, cart.Snapshot{})
		require.NoError(t, err)
		assert.Empty(t, result.Lines)
		assert.Empty(t, result.Unresolved)
		assert.True(t, result.Total.IsZero())
		products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("single batch read regardless of cart size", func(t *testing.T) {
		productA := newCatalogProduct(t, "Running Shoes", "100.00", 5)
		productB := newCatalogProduct(t, "Socks", "50.00", 10)
		productC := newCatalogProduct(t, "Cap", "25.00", 2)

		products := new(MockProductRepository)
		products.On("FindByIDs", ctx, mock.MatchedBy(func(ids []uuid.UUID) bool {
			return len(ids) == 3
		})).Return([]catalog.Product{*productA, *productB, *productC}, nil).Once()

		r := NewReconciler(products)
		_, err := r.Reconcile(ctx, cart.Snapshot{
			productA.ID: 1,
			productB.ID: 1,
			productC.ID: 1,
		})
		require.NoError(t, err)
		products.AssertExpectations(t)
	})
}
