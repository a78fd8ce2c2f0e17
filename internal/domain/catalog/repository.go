package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs fetches all listed products in one batch read. Unknown IDs
	// are silently absent from the result; callers detect them by set
	// difference.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity from the product's
	// stock, failing with shared.ErrInsufficientStock when fewer than
	// quantity units remain. This is the only stock mutation allowed
	// during checkout commit.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int64) error

	// IncrementStock atomically adds quantity back to the product's stock
	// (admin restock, cancelled-order returns).
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int64) error
}

// CategoryWithCount is a read model pairing a category with the number of
// products assigned to it.
type CategoryWithCount struct {
	Category
	ProductCount int64
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)
	ListWithProductCounts(ctx context.Context) ([]CategoryWithCount, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
