package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types for the catalog domain
const (
	EventTypeProductCreated = "catalog.product.created"
)

// ProductCreatedEvent is emitted when a product is listed
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		Name:            p.Name,
		Price:           p.Price,
		Stock:           p.Stock,
	}
}
