package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	WithTx(tx shared.Tx) OrderRepository

	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)
	// FindByStore returns orders containing at least one line for one of
	// the store's products.
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	// SaveWithLines persists the order and its lines atomically
	SaveWithLines(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
