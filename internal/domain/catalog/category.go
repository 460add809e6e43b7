package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products within a store. Names are unique per store
// and a category cannot be deleted while products still reference it.
type Category struct {
	shared.StoreAggregateRoot
	Name        string
	Description string
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category for a store
func NewCategory(storeID uuid.UUID, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name must be between 1 and 100 characters")
	}
	return &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Description:        strings.TrimSpace(description),
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name must be between 1 and 100 characters")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}
