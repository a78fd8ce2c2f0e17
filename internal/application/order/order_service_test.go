package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	address := valueobject.MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA")
	o, err := order.New("ORD-20260828-abcd", uuid.New(), address)
	require.NoError(t, err)

	price, err := valueobject.NewMoneyUSDFromString("100.00")
	require.NoError(t, err)
	_, err = o.AddLine(uuid.New(), "Running Shoes", price, 2)
	require.NoError(t, err)
	require.NoError(t, o.MarkPaid())
	o.ClearDomainEvents()
	return o
}

func newTestService(orders *MockOrderRepository, products *MockProductRepository, publisher *MockEventPublisher) *Service {
	return NewService(orders, products, publisher, zap.NewNop())
}

func TestService_GetForUser(t *testing.T) {
	ctx := context.Background()
	o := paidOrder(t)

	t.Run("returns own order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindByIDForUser", ctx, o.UserID, o.ID).Return(o, nil)

		svc := newTestService(orders, new(MockProductRepository), new(MockEventPublisher))
		resp, err := svc.GetForUser(ctx, o.UserID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.Number, resp.Number)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Running Shoes", resp.Lines[0].ProductName)
	})

	t.Run("propagates not found for foreign orders", func(t *testing.T) {
		orders := new(MockOrderRepository)
		stranger := uuid.New()
		orders.On("FindByIDForUser", ctx, stranger, o.ID).Return(nil, shared.ErrNotFound)

		svc := newTestService(orders, new(MockProductRepository), new(MockEventPublisher))
		_, err := svc.GetForUser(ctx, stranger, o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	o := paidOrder(t)

	orders := new(MockOrderRepository)
	orders.On("FindByUser", ctx, o.UserID, mock.AnythingOfType("shared.Filter")).
		Return([]order.Order{*o}, nil)
	orders.On("CountByUser", ctx, o.UserID).Return(int64(1), nil)

	svc := newTestService(orders, new(MockProductRepository), new(MockEventPublisher))
	page, err := svc.ListForUser(ctx, o.UserID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, o.Number, page.Items[0].Number)
	assert.Equal(t, 1, page.Items[0].LineCount)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves pending to processing", func(t *testing.T) {
		o := paidOrder(t)

		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, o.ID).Return(o, nil)
		orders.On("Save", ctx, o).Return(nil)

		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		svc := newTestService(orders, new(MockProductRepository), publisher)
		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "processing"})
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
	})

	t.Run("rejects illegal transition", func(t *testing.T) {
		o := paidOrder(t)

		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, o.ID).Return(o, nil)

		svc := newTestService(orders, new(MockProductRepository), new(MockEventPublisher))
		_, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})
		assert.Error(t, err)
		orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cancellation refunds and restocks", func(t *testing.T) {
		o := paidOrder(t)
		line := o.Lines[0]

		orders := new(MockOrderRepository)
		orders.On("FindByID", ctx, o.ID).Return(o, nil)
		orders.On("Save", ctx, o).Return(nil)

		products := new(MockProductRepository)
		products.On("IncrementStock", ctx, line.ProductID, line.Quantity).Return(nil)

		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		svc := newTestService(orders, products, publisher)
		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "cancelled", Reason: "fraud review"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "refunded", resp.PaymentStatus)
		products.AssertExpectations(t)
	})
}
