package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
)

// Service exposes the cart mutation surface plus the reconciled view.
// All operations are scoped to one visitor session; the store itself is
// injected, never reached through ambient state.
type Service struct {
	store      cart.Store
	reconciler *Reconciler
}

// NewService creates a new cart Service
func NewService(store cart.Store, reconciler *Reconciler) *Service {
	return &Service{store: store, reconciler: reconciler}
}

// Add adds quantity of a product to the session cart, merging with any
// existing entry. A zero quantity defaults to one. Stock is not checked
// here; shortfalls surface at reconciliation and commit.
func (s *Service) Add(ctx context.Context, sessionID string, req AddItemRequest) error {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return s.store.Add(ctx, sessionID, req.ProductID, quantity)
}

// SetQuantity overwrites an entry's quantity; zero or less removes it
func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	return s.store.SetQuantity(ctx, sessionID, productID, quantity)
}

// Remove deletes an entry. Removing an absent entry is not an error.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return s.store.Remove(ctx, sessionID, productID)
}

// Clear empties the session cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// ItemCount returns the sum of all quantities, for display badges
func (s *Service) ItemCount(ctx context.Context, sessionID string) (ItemCountResponse, error) {
	count, err := s.store.ItemCount(ctx, sessionID)
	if err != nil {
		return ItemCountResponse{}, err
	}
	return ItemCountResponse{ItemCount: count}, nil
}

// View reconciles the session cart against the catalog and returns the
// priced view. Read-only; entries that no longer resolve are reported
// in Unresolved, not silently dropped from the store.
func (s *Service) View(ctx context.Context, sessionID string) (*CartResponse, error) {
	snap, err := s.store.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reconciled, err := s.reconciler.Reconcile(ctx, snap)
	if err != nil {
		return nil, err
	}

	resp := ToCartResponse(reconciled)
	return &resp, nil
}

// Prune removes entries whose products no longer exist, as reported by
// an earlier View. Recoverable referential failures end here.
func (s *Service) Prune(ctx context.Context, sessionID string, productIDs []uuid.UUID) error {
	for _, productID := range productIDs {
		if err := s.store.Remove(ctx, sessionID, productID); err != nil {
			return err
		}
	}
	return nil
}
