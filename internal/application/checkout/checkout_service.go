package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductRepositoryFactory builds a product repository bound to the
// given database handle, so the same repository code runs inside and
// outside a transaction.
type ProductRepositoryFactory func(db *gorm.DB) catalog.ProductRepository

// OrderRepositoryFactory builds an order repository bound to the given
// database handle.
type OrderRepositoryFactory func(db *gorm.DB) order.Repository

// Service converts a session cart and a shipping destination into a
// durable order, or fails with no partial effects.
//
// The commit runs as one database transaction: order header, order
// lines, and per-product conditional stock decrements all land together
// or not at all. The cart is cleared only after the transaction has
// durably committed.
type Service struct {
	db          *gorm.DB
	carts       cart.Store
	newProducts ProductRepositoryFactory
	newOrders   OrderRepositoryFactory
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewService creates a new checkout Service
func NewService(
	db *gorm.DB,
	carts cart.Store,
	newProducts ProductRepositoryFactory,
	newOrders OrderRepositoryFactory,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:          db,
		carts:       carts,
		newProducts: newProducts,
		newOrders:   newOrders,
		publisher:   publisher,
		logger:      logger,
	}
}

// Checkout places an order for the session's cart.
//
// Failure modes, in detection order:
//   - incomplete address or empty cart: rejected before any storage write
//   - cart entries whose product vanished: rejected naming the products
//   - requested quantity over current stock, read inside the
//     transaction: *order.StockConflictError naming each shortfall
//   - a conditional decrement losing to a concurrent checkout: the same
//     stock-conflict failure after re-reading availability
//   - anything else during commit: shared.ErrCheckoutFailed, with full
//     rollback
func (s *Service) Checkout(ctx context.Context, sessionID string, userID uuid.UUID, req Request) (*Response, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	address, err := valueobject.NewAddress(req.Street, req.City, req.Region, req.PostalCode, req.Country)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	snap, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snap.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	var placed *order.Order
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.commit(ctx, tx, userID, address, snap)
		if err != nil {
			return err
		}
		placed = o
		return nil
	})
	if txErr != nil {
		var domainErr *shared.DomainError
		var conflict *order.StockConflictError
		if errors.As(txErr, &domainErr) || errors.As(txErr, &conflict) {
			return nil, txErr
		}
		s.logger.Error("checkout transaction failed",
			zap.String("session_id", sessionID),
			zap.String("user_id", userID.String()),
			zap.Error(txErr),
		)
		return nil, shared.ErrCheckoutFailed
	}

	// The order is durable from here on. Cart clearing and event
	// publication are follow-ups that must not fail the checkout.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.String("order_number", placed.Number),
			zap.Error(err),
		)
	}

	if err := s.publisher.Publish(ctx, placed.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_number", placed.Number),
			zap.Error(err),
		)
	}
	placed.ClearDomainEvents()

	return &Response{
		OrderID:     placed.ID,
		OrderNumber: placed.Number,
		Total:       placed.TotalAmount,
		PlacedAt:    placed.CreatedAt,
	}, nil
}

// commit runs inside the transaction boundary. The cart is
// re-reconciled here against the catalog; nothing from any earlier,
// display-only reconciliation is reused.
func (s *Service) commit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, address valueobject.Address, snap cart.Snapshot) (*order.Order, error) {
	products := s.newProducts(tx)
	orders := s.newOrders(tx)

	found, err := products.FindByIDs(ctx, snap.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	// Validate every line before mutating anything, so a rejection
	// reports the complete set of problems in one pass.
	var missing []uuid.UUID
	var shortfalls []order.Shortfall
	for _, productID := range sortedIDs(snap) {
		product, ok := byID[productID]
		if !ok {
			missing = append(missing, productID)
			continue
		}
		if quantity := snap[productID]; product.Stock < quantity {
			shortfalls = append(shortfalls, order.Shortfall{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			})
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
			fmt.Sprintf("%d cart item(s) are no longer available", len(missing)))
	}
	if len(shortfalls) > 0 {
		return nil, order.NewStockConflictError(shortfalls)
	}

	o, err := order.New(newOrderNumber(), userID, address)
	if err != nil {
		return nil, err
	}
	for _, productID := range sortedIDs(snap) {
		product := byID[productID]
		if _, err := o.AddLine(product.ID, product.Name, product.PriceMoney(), snap[productID]); err != nil {
			return nil, err
		}
	}

	// No real payment gateway: capture is simulated at commit time.
	if err := o.MarkPaid(); err != nil {
		return nil, err
	}

	if err := orders.Create(ctx, o); err != nil {
		return nil, err
	}

	// Stock leaves the catalog through conditional decrements only.
	// Losing one means a concurrent checkout took the units between our
	// read and this write; re-read availability and fail the whole
	// transaction as a plain stock conflict.
	for _, line := range o.Lines {
		if err := products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				return nil, s.conflictFor(ctx, products, line)
			}
			return nil, err
		}
	}

	return o, nil
}

// conflictFor rebuilds a shortfall report for a decrement that lost a
// race, using the freshest stock value still visible to the transaction.
func (s *Service) conflictFor(ctx context.Context, products catalog.ProductRepository, line order.Line) error {
	available := int64(0)
	if product, err := products.FindByID(ctx, line.ProductID); err == nil {
		available = product.Stock
	}
	return order.NewStockConflictError([]order.Shortfall{{
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Requested:   line.Quantity,
		Available:   available,
	}})
}

// sortedIDs returns the snapshot's product IDs in a stable order.
// Deterministic line ordering keeps lock acquisition order consistent
// across concurrent checkouts of overlapping carts.
func sortedIDs(snap cart.Snapshot) []uuid.UUID {
	ids := snap.ProductIDs()
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// newOrderNumber mints a human-facing order number: date plus a short
// random suffix. Uniqueness is enforced by the orders table.
func newOrderNumber() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(buf))
}
