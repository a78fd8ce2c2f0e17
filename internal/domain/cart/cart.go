package cart

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Snapshot is an immutable point-in-time copy of a cart's entries,
// mapping product ID to desired quantity. Mutating a snapshot never
// affects the cart it was taken from.
type Snapshot map[uuid.UUID]int64

// IsEmpty returns true if the snapshot holds no entries
func (s Snapshot) IsEmpty() bool {
	return len(s) == 0
}

// ProductIDs returns the product IDs referenced by the snapshot
func (s Snapshot) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// ItemCount returns the sum of all quantities in the snapshot
func (s Snapshot) ItemCount() int64 {
	var total int64
	for _, qty := range s {
		total += qty
	}
	return total
}

// Cart holds the desired purchases of one visitor session. Entries map a
// product ID to a positive quantity; a non-positive quantity never exists
// as an entry, it means removal. The cart knows nothing about prices or
// stock - that is the reconciler's job.
type Cart struct {
	sessionID string
	items     map[uuid.UUID]int64
}

// New creates an empty cart for the given session
func New(sessionID string) *Cart {
	return &Cart{
		sessionID: sessionID,
		items:     make(map[uuid.UUID]int64),
	}
}

// FromSnapshot rebuilds a cart from a snapshot, dropping non-positive
// quantities. Used by stores when loading persisted session state.
func FromSnapshot(sessionID string, snap Snapshot) *Cart {
	c := New(sessionID)
	for id, qty := range snap {
		if qty > 0 {
			c.items[id] = qty
		}
	}
	return c
}

// SessionID returns the owning session identifier
func (c *Cart) SessionID() string {
	return c.sessionID
}

// Add increments the entry for productID by quantity, creating it if
// absent. Stock is deliberately not checked here; visitors may queue more
// than is on hand and the conflict is resolved at reconciliation/commit.
func (c *Cart) Add(productID uuid.UUID, quantity int64) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.items[productID] += quantity
	return nil
}

// SetQuantity overwrites the entry for productID. A non-positive quantity
// removes the entry.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int64) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	if quantity <= 0 {
		delete(c.items, productID)
		return nil
	}

	c.items[productID] = quantity
	return nil
}

// Remove deletes the entry for productID. Removing an absent entry is a
// no-op, not an error.
func (c *Cart) Remove(productID uuid.UUID) {
	delete(c.items, productID)
}

// Clear removes all entries
func (c *Cart) Clear() {
	c.items = make(map[uuid.UUID]int64)
}

// Snapshot returns an immutable copy of the current entries
func (c *Cart) Snapshot() Snapshot {
	snap := make(Snapshot, len(c.items))
	for id, qty := range c.items {
		snap[id] = qty
	}
	return snap
}

// Quantity returns the quantity for productID, zero when absent
func (c *Cart) Quantity(productID uuid.UUID) int64 {
	return c.items[productID]
}

// ItemCount returns the sum of all quantities, for display badges
func (c *Cart) ItemCount() int64 {
	var total int64
	for _, qty := range c.items {
		total += qty
	}
	return total
}

// IsEmpty returns true if the cart holds no entries
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Len returns the number of distinct products in the cart
func (c *Cart) Len() int {
	return len(c.items)
}
