package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ReconciledLine is a point-in-time priced view of one cart entry.
// It is derived, never stored, and goes stale the moment the cart or
// catalog changes.
type ReconciledLine struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Requested int64
	Available int64
	LineTotal decimal.Decimal
	ImageURL  string
}

// ShortStock reports whether the requested quantity exceeds current stock
func (l ReconciledLine) ShortStock() bool {
	return l.Requested > l.Available
}

// DisplayQuantity is the requested quantity capped at current stock.
// Display only; the authoritative stock check happens at commit time.
func (l ReconciledLine) DisplayQuantity() int64 {
	if l.Requested > l.Available {
		return l.Available
	}
	return l.Requested
}

// ReconciledCart is the result of joining a cart snapshot against the
// catalog: priced lines for resolvable entries, the identifiers that no
// longer resolve to a product, and the total over resolvable entries.
type ReconciledCart struct {
	Lines      []ReconciledLine
	Unresolved []uuid.UUID
	Total      decimal.Decimal
}

// Reconciler joins cart snapshots against current catalog data.
// Read-only: it never mutates the cart or the catalog.
type Reconciler struct {
	products catalog.ProductRepository
}

// NewReconciler creates a new Reconciler
func NewReconciler(products catalog.ProductRepository) *Reconciler {
	return &Reconciler{products: products}
}

// Reconcile prices a snapshot against the catalog. All referenced
// products are fetched in one batch read regardless of cart size.
func (r *Reconciler) Reconcile(ctx context.Context, snap cart.Snapshot) (*ReconciledCart, error) {
	result := &ReconciledCart{
		Lines: make([]ReconciledLine, 0, len(snap)),
		Total: decimal.Zero,
	}
	if snap.IsEmpty() {
		return result, nil
	}

	products, err := r.products.FindByIDs(ctx, snap.ProductIDs())
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for productID, quantity := range snap {
		product, ok := byID[productID]
		if !ok {
			result.Unresolved = append(result.Unresolved, productID)
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(quantity))
		result.Lines = append(result.Lines, ReconciledLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Requested: quantity,
			Available: product.Stock,
			LineTotal: lineTotal,
			ImageURL:  product.ImageURL,
		})
		result.Total = result.Total.Add(lineTotal)
	}

	return result, nil
}
