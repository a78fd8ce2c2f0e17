package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Shortfall describes a single product that could not be fulfilled
// at the requested quantity during checkout.
type Shortfall struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int64     `json:"requested"`
	Available   int64     `json:"available"`
}

// StockConflictError reports every product whose available stock fell
// short of the cart quantity at commit time. The checkout transaction
// that produced it has been rolled back; no stock was taken.
type StockConflictError struct {
	Shortfalls []Shortfall
}

// Error implements the error interface
func (e *StockConflictError) Error() string {
	if len(e.Shortfalls) == 0 {
		return "insufficient stock"
	}
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("%s (requested %d, available %d)", s.ProductName, s.Requested, s.Available)
	}
	return "insufficient stock for " + strings.Join(parts, ", ")
}

// NewStockConflictError creates a StockConflictError from shortfalls
func NewStockConflictError(shortfalls []Shortfall) *StockConflictError {
	return &StockConflictError{Shortfalls: shortfalls}
}
