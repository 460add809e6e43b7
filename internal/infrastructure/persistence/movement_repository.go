package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormMovementRepository) WithTx(tx shared.Tx) inventory.MovementRepository {
	return &GormMovementRepository{db: txDB(tx, r.db)}
}

// Save appends a movement to the ledger
func (r *GormMovementRepository) Save(ctx context.Context, m *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByProduct returns a product's movements, newest first
func (r *GormMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("product_id = ?", productID)
	if filter.OrderBy == "" {
		query = query.Order("created_at DESC")
	}
	if err := applyFilter(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByProduct counts a product's ledger entries
func (r *GormMovementRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
