package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MovementRepository defines persistence operations for the stock ledger
type MovementRepository interface {
	WithTx(tx shared.Tx) MovementRepository

	Save(ctx context.Context, m *StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
