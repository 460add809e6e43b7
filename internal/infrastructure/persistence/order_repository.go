package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormOrderRepository) WithTx(tx shared.Tx) order.OrderRepository {
	return &GormOrderRepository{db: txDB(tx, r.db)}
}

// FindByID finds an order by ID with its lines preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByCustomer finds a customer's orders
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Preload("Lines").
		Where("customer_id = ?", customerID)
	query = r.defaultOrder(applyFilter(query, filter), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStore returns orders containing at least one line for one of the
// store's products.
func (r *GormOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Preload("Lines").
		Where("orders.id IN (?)", r.storeOrderIDs(storeID))
	query = r.defaultOrder(applyFilter(query, filter), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Preload("Lines")
	query = r.defaultOrder(applyFilter(query, filter), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts a customer's orders
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStore counts orders containing lines for the store's products
func (r *GormOrderRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("orders.id IN (?)", r.storeOrderIDs(storeID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveWithLines persists the order and its lines atomically
func (r *GormOrderRepository) SaveWithLines(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(o).Error
}

// Save updates the order row without touching its lines
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Omit("Lines").Save(o).Error
}

// Delete deletes an order and its lines
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&order.OrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&order.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// storeOrderIDs builds the subquery of order IDs touching the store's
// products.
func (r *GormOrderRepository) storeOrderIDs(storeID uuid.UUID) *gorm.DB {
	return r.db.Table("order_lines").
		Select("DISTINCT order_lines.order_id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.store_id = ?", storeID)
}

func (r *GormOrderRepository) defaultOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy == "" {
		query = query.Order("created_at DESC")
	}
	return query
}
