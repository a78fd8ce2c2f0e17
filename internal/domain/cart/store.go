package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store holds cart state keyed by session identifier. A session owns its
// cart exclusively; implementations never share or merge carts across
// sessions. Stores are injected into request handlers rather than
// accessed as ambient global state.
type Store interface {
	// Add increments the entry for productID by quantity (quantity must
	// be positive), creating the cart and the entry as needed.
	Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error

	// SetQuantity overwrites the entry for productID. A non-positive
	// quantity removes the entry.
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error

	// Remove deletes the entry for productID; a no-op when absent.
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error

	// Clear removes all entries for the session.
	Clear(ctx context.Context, sessionID string) error

	// Snapshot returns an immutable copy of the session's entries. An
	// unknown session yields an empty snapshot, not an error.
	Snapshot(ctx context.Context, sessionID string) (Snapshot, error)

	// ItemCount returns the sum of all quantities for the session.
	ItemCount(ctx context.Context, sessionID string) (int64, error)
}
