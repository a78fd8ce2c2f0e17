package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// LineResponse represents an order line in API responses. Name and
// unit price are the values frozen at order time.
type LineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Response represents a full order in API responses
type Response struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	UserID          uuid.UUID       `json:"user_id"`
	ShippingAddress string          `json:"shipping_address"`
	Lines           []LineResponse  `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SummaryResponse represents an order in list views
type SummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	UserID        uuid.UUID       `json:"user_id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	LineCount     int             `json:"line_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListFilter represents filter options for order listing
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest represents an admin status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// ToResponse converts a domain Order to Response
func ToResponse(o *order.Order) Response {
	lines := make([]LineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = LineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		}
	}
	return Response{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		ShippingAddress: o.ShippingAddress.FullAddress(),
		Lines:           lines,
		Total:           o.TotalAmount,
		Status:          o.Status.String(),
		PaymentStatus:   o.PaymentStatus.String(),
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToSummaryResponse converts a domain Order to SummaryResponse
func ToSummaryResponse(o *order.Order) SummaryResponse {
	return SummaryResponse{
		ID:            o.ID,
		Number:        o.Number,
		UserID:        o.UserID,
		Total:         o.TotalAmount,
		Status:        o.Status.String(),
		PaymentStatus: o.PaymentStatus.String(),
		LineCount:     o.LineCount(),
		CreatedAt:     o.CreatedAt,
	}
}
