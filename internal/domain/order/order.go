package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states no further transition leaves
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Line represents a line item in an order.
// ProductName and UnitPrice are frozen at checkout time so later
// catalog edits never change what the customer was charged.
type Line struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int64
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// NewLine creates a new order line with the amount derived from price and quantity
func NewLine(orderID, productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int64) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	price := unitPrice.Round().Amount()
	return &Line{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   price,
		Quantity:    quantity,
		LineTotal:   price.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}, nil
}

// UnitPriceMoney returns the frozen unit price as Money
func (l *Line) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.UnitPrice)
}

// LineTotalMoney returns the line total as Money
func (l *Line) LineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.LineTotal)
}

// Order represents a placed order aggregate root.
// An order is born pending and immutable in content: lines are only
// added while assembling the aggregate, before it is first persisted.
type Order struct {
	shared.BaseAggregateRoot
	Number          string
	UserID          uuid.UUID
	ShippingAddress valueobject.Address
	Lines           []Line
	TotalAmount     decimal.Decimal
	Status          Status
	PaymentStatus   PaymentStatus
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// New creates a new pending, unpaid order with no lines
func New(number string, userID uuid.UUID, shippingAddress valueobject.Address) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		UserID:            userID,
		ShippingAddress:   shippingAddress,
		Lines:             make([]Line, 0),
		TotalAmount:       decimal.Zero,
		Status:            StatusPending,
		PaymentStatus:     PaymentStatusUnpaid,
	}

	o.AddDomainEvent(NewPlacedEvent(o))

	return o, nil
}

// AddLine appends a line for a product not yet on the order.
// Only allowed while the order is still pending and unpaid.
func (o *Order) AddLine(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int64) (*Line, error) {
	if o.Status != StatusPending || o.PaymentStatus != PaymentStatusUnpaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to an order that left the pending state")
	}

	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already appears on the order")
		}
	}

	line, err := NewLine(o.ID, productID, productName, unitPrice, quantity)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.Touch()

	return line, nil
}

// MarkPaid records a successful payment capture
func (o *Order) MarkPaid() error {
	if o.PaymentStatus != PaymentStatusUnpaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay an order with payment status %s", o.PaymentStatus))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot pay an order without lines")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaidAt = &now
	o.Touch()

	o.AddDomainEvent(NewPaidEvent(o))

	return nil
}

// Refund marks a paid order as refunded
func (o *Order) Refund() error {
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund an order with payment status %s", o.PaymentStatus))
	}

	o.PaymentStatus = PaymentStatusRefunded
	o.Touch()

	return nil
}

// TransitionTo moves the order to the target fulfillment status
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == StatusCancelled {
		return shared.NewDomainError("INVALID_STATUS", "Use Cancel to cancel an order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Touch()

	o.AddDomainEvent(NewStatusChangedEvent(o, from))

	return nil
}

// Cancel cancels the order. Allowed only from pending or processing.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	from := o.Status
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.Touch()

	o.AddDomainEvent(NewStatusChangedEvent(o, from))

	return nil
}

// recalculateTotal recomputes the order total from its lines
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.LineTotal)
	}
	o.TotalAmount = total
}

// TotalMoney returns the order total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// LineCount returns the number of lines on the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// LineForProduct returns the line for a product, or nil
func (o *Order) LineForProduct(productID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}
