package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateItemRequest represents a request to overwrite a cart quantity.
// A quantity of zero or less removes the entry.
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// LineItemResponse is one priced cart line in API responses.
// UnitPrice is the catalog price at reconciliation time, not a quote.
type LineItemResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int64           `json:"quantity"`
	DisplayQuantity int64           `json:"display_quantity"`
	Available       int64           `json:"available"`
	ShortStock      bool            `json:"short_stock"`
	LineTotal       decimal.Decimal `json:"line_total"`
	ImageURL        string          `json:"image_url,omitempty"`
}

// CartResponse represents the reconciled cart
type CartResponse struct {
	Items      []LineItemResponse `json:"items"`
	Unresolved []uuid.UUID        `json:"unresolved,omitempty"`
	Total      decimal.Decimal    `json:"total"`
	ItemCount  int64              `json:"item_count"`
}

// ItemCountResponse carries the badge count
type ItemCountResponse struct {
	ItemCount int64 `json:"item_count"`
}

// ToCartResponse converts a reconciliation result to the API shape
func ToCartResponse(rc *ReconciledCart) CartResponse {
	items := make([]LineItemResponse, len(rc.Lines))
	var count int64
	for i, line := range rc.Lines {
		items[i] = LineItemResponse{
			ProductID:       line.ProductID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Requested,
			DisplayQuantity: line.DisplayQuantity(),
			Available:       line.Available,
			ShortStock:      line.ShortStock(),
			LineTotal:       line.LineTotal,
			ImageURL:        line.ImageURL,
		}
		count += line.Requested
	}
	return CartResponse{
		Items:      items,
		Unresolved: rc.Unresolved,
		Total:      rc.Total,
		ItemCount:  count,
	}
}
