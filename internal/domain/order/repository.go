package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// Create persists a new order with all of its lines
	Create(ctx context.Context, o *Order) error

	// FindByID finds an order by ID with its lines loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser finds an order by ID scoped to its owner.
	// Returns ErrNotFound when the order exists but belongs to someone else.
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its human-facing number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindByUser lists a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindAll lists orders with filtering, for administration
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save updates an existing order with optimistic locking.
	// Returns ErrConcurrencyConflict when the stored version moved on.
	Save(ctx context.Context, o *Order) error
}
