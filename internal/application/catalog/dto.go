package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest carries a new product listing
type CreateProductRequest struct {
	StoreID        uuid.UUID       `json:"store_id"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	Stock          int             `json:"stock"`
}

// UpdateProductRequest carries partial product changes
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	ProductionCost  *decimal.Decimal `json:"production_cost"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	DiscountPrice   *decimal.Decimal `json:"discount_price"`
	DiscountEndDate *time.Time       `json:"discount_end_date"`
	ClearDiscount   bool             `json:"clear_discount"`
	IsActive        *bool            `json:"is_active"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	StoreID         uuid.UUID        `json:"store_id"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	ProductionCost  decimal.Decimal  `json:"production_cost"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountEndDate *time.Time       `json:"discount_end_date,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	Stock           int              `json:"stock"`
	IsActive        bool             `json:"is_active"`
	Images          []string         `json:"images"`
	Tags            []string         `json:"tags"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tags = append(tags, tag.Name)
	}
	return ProductResponse{
		ID:              p.ID,
		StoreID:         p.StoreID,
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		ProductionCost:  p.ProductionCost,
		DiscountPrice:   p.DiscountPrice,
		DiscountEndDate: p.DiscountEndDate,
		EffectivePrice:  p.EffectivePrice(time.Now()),
		Stock:           p.Stock,
		IsActive:        p.IsActive,
		Images:          images,
		Tags:            tags,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses maps a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

// CategoryResponse is a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse maps a category to its API shape
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// TagResponse is a tag in API responses
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToTagResponse maps a tag to its API shape
func ToTagResponse(t *catalog.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}
