package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Checkout outcomes recorded on the checkout counter.
const (
	CheckoutOutcomeCompleted     = "completed"
	CheckoutOutcomeStockConflict = "stock_conflict"
	CheckoutOutcomeEmptyCart     = "empty_cart"
	CheckoutOutcomeFailed        = "failed"
)

// StoreMetrics records storefront business metrics: checkout outcomes,
// order revenue, and cart activity.
type StoreMetrics struct {
	checkouts    *Counter
	orderAmount  *Histogram
	cartAdds     *Counter
	cartRemovals *Counter
}

// NewStoreMetrics creates the storefront metric instruments on the meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	checkouts, err := NewCounter(meter,
		"store.checkouts.total",
		"Number of checkout attempts by outcome",
		"{checkout}",
	)
	if err != nil {
		return nil, err
	}

	orderAmount, err := NewHistogram(meter, HistogramOpts{
		Name:        "store.order.amount",
		Description: "Distribution of placed order totals",
		Unit:        "USD",
		Boundaries:  []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	if err != nil {
		return nil, err
	}

	cartAdds, err := NewCounter(meter,
		"store.cart.adds.total",
		"Number of items added to carts",
		"{item}",
	)
	if err != nil {
		return nil, err
	}

	cartRemovals, err := NewCounter(meter,
		"store.cart.removals.total",
		"Number of items removed from carts",
		"{item}",
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		checkouts:    checkouts,
		orderAmount:  orderAmount,
		cartAdds:     cartAdds,
		cartRemovals: cartRemovals,
	}, nil
}

// RecordCheckout counts a checkout attempt with its outcome
func (m *StoreMetrics) RecordCheckout(ctx context.Context, outcome string) {
	m.checkouts.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordOrderAmount records the total of a successfully placed order
func (m *StoreMetrics) RecordOrderAmount(ctx context.Context, amount decimal.Decimal) {
	m.orderAmount.Record(ctx, amount.InexactFloat64())
}

// RecordCartAdd counts items added to a cart
func (m *StoreMetrics) RecordCartAdd(ctx context.Context, quantity int64) {
	m.cartAdds.Add(ctx, quantity)
}

// RecordCartRemoval counts items removed from a cart
func (m *StoreMetrics) RecordCartRemoval(ctx context.Context, quantity int64) {
	m.cartRemovals.Add(ctx, quantity)
}
