package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is the catalog aggregate root. Stock lives directly on the
// product row; every mutation goes through the inventory adjustment
// path so the movement ledger stays complete.
type Product struct {
	shared.StoreAggregateRoot
	CategoryID      *uuid.UUID
	Name            string
	Description     string
	Price           decimal.Decimal
	ProductionCost  decimal.Decimal
	DiscountPrice   *decimal.Decimal
	DiscountEndDate *time.Time
	Stock           int
	IsActive        bool
	Images          []ProductImage `gorm:"foreignKey:ProductID"`
	Tags            []Tag          `gorm:"many2many:product_tags"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductImage is an ordered image attached to a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID
	URL       string
	Position  int
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProduct creates a new inactive-stock product listing
func NewProduct(storeID uuid.UUID, name, description string, price, productionCost decimal.Decimal, stock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name must be between 1 and 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if productionCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCTION_COST", "Production cost cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Description:        strings.TrimSpace(description),
		Price:              price,
		ProductionCost:     productionCost,
		Stock:              stock,
		IsActive:           true,
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// EffectivePrice returns the price actually charged at the given
// moment: the discount price while a discount is set and unexpired,
// otherwise the list price.
func (p *Product) EffectivePrice(at time.Time) decimal.Decimal {
	if p.DiscountPrice == nil {
		return p.Price
	}
	if p.DiscountEndDate != nil && !p.DiscountEndDate.After(at) {
		return p.Price
	}
	return *p.DiscountPrice
}

// SetPrice updates the list price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// SetProductionCost updates the unit production cost used by revenue reporting
func (p *Product) SetProductionCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRODUCTION_COST", "Production cost cannot be negative")
	}
	p.ProductionCost = cost
	p.UpdatedAt = time.Now()
	return nil
}

// SetDiscount applies a discounted price, optionally time-bounded
func (p *Product) SetDiscount(price decimal.Decimal, endDate *time.Time) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
	}
	if price.GreaterThan(p.Price) {
		return shared.NewDomainError("INVALID_PRICE", "Discount price cannot exceed the list price")
	}
	p.DiscountPrice = &price
	p.DiscountEndDate = endDate
	p.UpdatedAt = time.Now()
	return nil
}

// ClearDiscount removes any active discount
func (p *Product) ClearDiscount() {
	p.DiscountPrice = nil
	p.DiscountEndDate = nil
	p.UpdatedAt = time.Now()
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name must be between 1 and 200 characters")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// SetDescription updates the product description
func (p *Product) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
}

// SetCategory assigns the product to a category (nil clears it)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// Activate makes the product orderable
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// Deactivate hides the product from ordering
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// SetStock replaces the stock count with an absolute value
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// AddStock increases stock by a positive amount
func (p *Product) AddStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_STOCK", "Amount must be positive")
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// SubtractStock decreases stock by a positive amount. Stock never goes
// negative; the failure names the product and the remaining amount so
// order errors stay actionable for the caller.
func (p *Product) SubtractStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_STOCK", "Amount must be positive")
	}
	if quantity > p.Stock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for product '%s'. Available: %d, Requested: %d", p.Name, p.Stock, quantity))
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// AddImage appends an image URL at the next position
func (p *Product) AddImage(url string) error {
	url = strings.TrimSpace(url)
	if url == "" || len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL must be between 1 and 500 characters")
	}
	p.Images = append(p.Images, ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		URL:        url,
		Position:   len(p.Images),
	})
	p.UpdatedAt = time.Now()
	return nil
}

// RemoveImage deletes the image with the given URL
func (p *Product) RemoveImage(url string) error {
	for i, img := range p.Images {
		if img.URL == url {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			for j := range p.Images {
				p.Images[j].Position = j
			}
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Image not found on product")
}
