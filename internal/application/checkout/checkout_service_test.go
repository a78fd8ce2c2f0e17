package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockCartStore is a mock implementation of cart.Store
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, sessionID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartStore) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, sessionID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartStore) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	args := m.Called(ctx, sessionID, productID)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCartStore) Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cart.Snapshot), args.Error(1)
}

func (m *MockCartStore) ItemCount(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func validRequest() Request {
	return Request{
		Street:     "1 Main St",
		City:       "Springfield",
		Region:     "IL",
		PostalCode: "62701",
		Country:    "USA",
	}
}

// Rejections below happen before the transaction; the db handle is
// never touched and may be nil.
func TestService_Checkout_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an authenticated user", func(t *testing.T) {
		svc := NewService(nil, new(MockCartStore), nil, nil, nil, zap.NewNop())

		_, err := svc.Checkout(ctx, "sess-1", uuid.Nil, validRequest())
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("rejects incomplete address before reading the cart", func(t *testing.T) {
		store := new(MockCartStore)
		svc := NewService(nil, store, nil, nil, nil, zap.NewNop())

		req := validRequest()
		req.City = "   "
		_, err := svc.Checkout(ctx, "sess-1", uuid.New(), req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ADDRESS", domainErr.Code)
		store.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		store := new(MockCartStore)
		store.On("Snapshot", ctx, "sess-1").Return(cart.Snapshot{}, nil)

		svc := NewService(nil, store, nil, nil, nil, zap.NewNop())
		_, err := svc.Checkout(ctx, "sess-1", uuid.New(), validRequest())
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})
}
