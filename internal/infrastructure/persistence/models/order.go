package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate.
// The shipping address is stored as a JSON column via the Address
// value object's Valuer/Scanner implementation.
type OrderModel struct {
	AggregateModel
	Number          string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb;not null"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Status          order.Status        `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   order.PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string           `gorm:"type:varchar(500)"`
	Lines           []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for an order line.
// Unit price and product name are frozen copies taken at checkout.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int64           `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain order Line.
func (m *OrderLineModel) ToDomain() order.Line {
	return order.Line{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomain converts the persistence model to a domain Order with lines.
func (m *OrderModel) ToDomain() *order.Order {
	lines := make([]order.Line, len(m.Lines))
	for i := range m.Lines {
		lines[i] = m.Lines[i].ToDomain()
	}
	return &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		UserID:            m.UserID,
		ShippingAddress:   m.ShippingAddress,
		Lines:             lines,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Number = o.Number
	m.UserID = o.UserID
	m.ShippingAddress = o.ShippingAddress
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaidAt = o.PaidAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason

	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = OrderLineModel{
			ID:          line.ID,
			OrderID:     line.OrderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
			CreatedAt:   line.CreatedAt,
		}
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
