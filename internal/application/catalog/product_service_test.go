package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

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

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListWithProductCounts(ctx context.Context) ([]catalog.CategoryWithCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.CategoryWithCount), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func mustProduct(t *testing.T, name, price string, stock int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyUSDFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(name, money, stock)
	require.NoError(t, err)
	return product
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and saves", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		svc := NewProductService(products, new(MockCategoryRepository))
		resp, err := svc.Create(ctx, CreateProductRequest{
			Name:  "Running Shoes",
			Price: decimal.RequireFromString("89.99"),
			Stock: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, "Running Shoes", resp.Name)
		assert.Equal(t, int64(10), resp.Stock)
		assert.True(t, resp.InStock)
		products.AssertExpectations(t)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), new(MockCategoryRepository))
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:  "Running Shoes",
			Price: decimal.RequireFromString("-1"),
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categoryID := uuid.New()
		categories.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		svc := NewProductService(new(MockProductRepository), categories)
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:       "Running Shoes",
			Price:      decimal.RequireFromString("89.99"),
			CategoryID: &categoryID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes price without touching name", func(t *testing.T) {
		product := mustProduct(t, "Running Shoes", "89.99", 10)

		products := new(MockProductRepository)
		products.On("FindByID", ctx, product.ID).Return(product, nil)
		products.On("Save", ctx, product).Return(nil)

		newPrice := decimal.RequireFromString("79.99")
		svc := NewProductService(products, new(MockCategoryRepository))
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Price: &newPrice})
		require.NoError(t, err)
		assert.Equal(t, "Running Shoes", resp.Name)
		assert.True(t, resp.Price.Equal(newPrice))
	})

	t.Run("propagates not found", func(t *testing.T) {
		products := new(MockProductRepository)
		id := uuid.New()
		products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		svc := NewProductService(products, new(MockCategoryRepository))
		_, err := svc.Update(ctx, id, UpdateProductRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_Restock(t *testing.T) {
	ctx := context.Background()
	product := mustProduct(t, "Running Shoes", "89.99", 2)

	products := new(MockProductRepository)
	products.On("FindByID", ctx, product.ID).Return(product, nil)
	products.On("IncrementStock", ctx, product.ID, int64(5)).Return(nil)

	svc := NewProductService(products, new(MockCategoryRepository))
	_, err := svc.Restock(ctx, product.ID, RestockRequest{Quantity: 5})
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	productA := mustProduct(t, "Running Shoes", "89.99", 10)
	productB := mustProduct(t, "Socks", "9.50", 3)

	products := new(MockProductRepository)
	products.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Product{*productA, *productB}, nil)
	products.On("Count", ctx, mock.AnythingOfType("shared.Filter")).
		Return(int64(2), nil)

	svc := NewProductService(products, new(MockCategoryRepository))
	page, err := svc.List(ctx, ProductListFilter{Search: "sho"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
}
