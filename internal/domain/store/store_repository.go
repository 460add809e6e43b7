package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// StoreRepository defines persistence operations for stores
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Store, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Statistics aggregates product count, order count and lifetime
	// revenue from delivered orders for one store.
	Statistics(ctx context.Context, storeID uuid.UUID) (*Statistics, error)
}

// Statistics is a read model summarizing a store's activity to date
type Statistics struct {
	StoreID      uuid.UUID       `json:"store_id"`
	ProductCount int64           `json:"product_count"`
	OrderCount   int64           `json:"order_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}
