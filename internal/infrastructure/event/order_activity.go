package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderActivityHandler writes an audit trail of order lifecycle events
// to the structured log. It subscribes to the order event types only.
type OrderActivityHandler struct {
	logger *zap.Logger
}

// NewOrderActivityHandler creates a handler backed by the given logger
func NewOrderActivityHandler(logger *zap.Logger) *OrderActivityHandler {
	return &OrderActivityHandler{logger: logger.Named("order-activity")}
}

// EventTypes declares the order lifecycle events this handler consumes
func (h *OrderActivityHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderPaid,
		order.EventTypeOrderStatusChanged,
	}
}

// Handle records the event in the activity log
func (h *OrderActivityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.PlacedEvent:
		h.logger.Info("order placed",
			zap.String("order_id", e.AggregateID().String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("user_id", e.UserID.String()),
		)
	case *order.PaidEvent:
		h.logger.Info("order paid",
			zap.String("order_id", e.AggregateID().String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.Int("lines", len(e.Lines)),
		)
	case *order.StatusChangedEvent:
		h.logger.Info("order status changed",
			zap.String("order_id", e.AggregateID().String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("from", e.FromStatus.String()),
			zap.String("to", e.ToStatus.String()),
		)
	default:
		h.logger.Debug("unhandled order event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*OrderActivityHandler)(nil)
