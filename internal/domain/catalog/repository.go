package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// WithTx returns a repository bound to the given transaction handle
	WithTx(tx shared.Tx) ProductRepository

	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate loads the product under a row-level lock so the
	// stock check and decrement of one order cannot interleave with
	// another order's.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceTags(ctx context.Context, productID uuid.UUID, tags []Tag) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Category, error)
	ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository defines persistence operations for tags
type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tag, error)
	Save(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}
