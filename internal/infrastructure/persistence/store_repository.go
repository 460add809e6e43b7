package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"gorm.io/gorm"
)

// GormStoreRepository implements store.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByOwner finds the store owned by a user
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ExistsByName checks if a store with the given name exists
func (r *GormStoreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds stores matching the filter
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	var stores []store.Store
	query := applyFilter(r.db.WithContext(ctx).Model(&store.Store{}), filter)
	query = applySearch(query, filter, "name")
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Count counts stores matching the filter
func (r *GormStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&store.Store{}), filter)
	query = applySearch(query, filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a store
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Statistics aggregates the store's lifetime counters. Revenue counts
// only delivered orders.
func (r *GormStoreRepository) Statistics(ctx context.Context, storeID uuid.UUID) (*store.Statistics, error) {
	stats := &store.Statistics{StoreID: storeID, Revenue: decimal.Zero}

	if err := r.db.WithContext(ctx).
		Table("products").
		Where("store_id = ?", storeID).
		Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Table("orders").
		Where("id IN (?)", r.storeOrderIDs(ctx, storeID)).
		Count(&stats.OrderCount).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("SUM(total_amount)").
		Where("status = ?", "delivered").
		Where("id IN (?)", r.storeOrderIDs(ctx, storeID)).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}

	return stats, nil
}

// storeOrderIDs builds a subquery selecting the orders that contain at
// least one product of the store. Orders have no store column of their
// own; the relation goes through the order lines.
func (r *GormStoreRepository) storeOrderIDs(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("order_lines").
		Select("DISTINCT order_lines.order_id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.store_id = ?", storeID)
}
