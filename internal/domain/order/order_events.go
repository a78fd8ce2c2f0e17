package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderPaid          = "order.paid"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// PlacedEvent is raised when a new order is created
type PlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
}

// NewPlacedEvent creates a new PlacedEvent
func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		UserID:          o.UserID,
	}
}

// EventType returns the event type name
func (e *PlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// LineInfo carries line details on order events
type LineInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaidEvent is raised when payment is captured for an order
type PaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []LineInfo      `json:"lines"`
}

// NewPaidEvent creates a new PaidEvent
func NewPaidEvent(o *Order) *PaidEvent {
	lines := make([]LineInfo, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = LineInfo{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		}
	}
	return &PaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *PaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// StatusChangedEvent is raised on every fulfillment status transition,
// cancellation included
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	Reason      string    `json:"reason,omitempty"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(o *Order, from Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		FromStatus:      from,
		ToStatus:        o.Status,
		Reason:          o.CancelReason,
	}
}

// EventType returns the event type name
func (e *StatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}
