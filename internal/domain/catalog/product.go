package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for catalog operations. Stock is the
// authoritative on-hand quantity; it is mutated by admin restocks and by
// the checkout commit's conditional decrement.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	CategoryID  *uuid.UUID
	Price       decimal.Decimal
	Stock       int64
	ImageURL    string
}

// NewProduct creates a new product
func NewProduct(name string, price valueobject.Money, stock int64) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Price:             price.Amount().Round(2),
		Stock:             stock,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// ChangePrice updates the selling price. Historical orders are unaffected
// because order lines freeze the price at commit time.
func (p *Product) ChangePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	old := p.Price
	p.Price = price.Amount().Round(2)
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, old))

	return nil
}

// SetStock replaces the on-hand stock quantity (admin edit)
func (p *Product) SetStock(stock int64) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()

	return nil
}

// Restock increases the on-hand stock quantity
func (p *Product) Restock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()

	return nil
}

// SetCategory assigns the product to a category (nil clears it)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// SetImageURL sets the product image location
func (p *Product) SetImageURL(url string) {
	p.ImageURL = strings.TrimSpace(url)
	p.UpdatedAt = time.Now()
}

// PriceMoney returns the price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// InStock returns true if at least quantity units are on hand
func (p *Product) InStock(quantity int64) bool {
	return p.Stock >= quantity
}

// IsOutOfStock returns true if no units are on hand
func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
