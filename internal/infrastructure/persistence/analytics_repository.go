package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/analytics"
	"github.com/storefront/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements analytics.Repository with aggregate
// queries over the order tables. Delivered metrics window on
// delivered_at, canceled metrics on canceled_at, everything else on
// created_at.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// storeLines joins order lines to the store's products and their orders
func (r *GormAnalyticsRepository) storeLines(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("order_lines").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("products.store_id = ?", storeID)
}

// storeOrders selects distinct orders touching the store's products
func (r *GormAnalyticsRepository) storeOrders(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	sub := r.db.Table("order_lines").
		Select("DISTINCT order_lines.order_id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.store_id = ?", storeID)
	return r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("orders.id IN (?)", sub)
}

// SalesTotals sums revenue and production cost over delivered lines
func (r *GormAnalyticsRepository) SalesTotals(ctx context.Context, storeID uuid.UUID, w analytics.Window) (*analytics.SalesTotals, error) {
	var row struct {
		Income decimal.NullDecimal
		Costs  decimal.NullDecimal
	}
	err := r.storeLines(ctx, storeID).
		Select(`SUM(order_lines.quantity * order_lines.unit_price) AS income,
			SUM(order_lines.quantity * products.production_cost) AS costs`).
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	totals := &analytics.SalesTotals{}
	if row.Income.Valid {
		totals.Income = row.Income.Decimal
	}
	if row.Costs.Valid {
		totals.Costs = row.Costs.Decimal
	}
	return totals, nil
}

// DeliveredOrderCount counts delivered orders in the window
func (r *GormAnalyticsRepository) DeliveredOrderCount(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	var count int64
	err := r.storeOrders(ctx, storeID).
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Count(&count).Error
	return count, err
}

// StatusCounts groups orders created in the window by status
func (r *GormAnalyticsRepository) StatusCounts(ctx context.Context, storeID uuid.UUID, w analytics.Window) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.storeOrders(ctx, storeID).
		Select("orders.status AS status, COUNT(*) AS count").
		Where("orders.created_at >= ? AND orders.created_at <= ?", w.Start, w.End).
		Group("orders.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ItemsSold sums line quantities over delivered orders
func (r *GormAnalyticsRepository) ItemsSold(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	var row struct {
		Total *int64
	}
	err := r.storeLines(ctx, storeID).
		Select("SUM(order_lines.quantity) AS total").
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Total == nil {
		return 0, nil
	}
	return *row.Total, nil
}

// TopProducts ranks the store's products by delivered quantity
func (r *GormAnalyticsRepository) TopProducts(ctx context.Context, storeID uuid.UUID, w analytics.Window, limit int) ([]analytics.ProductSales, error) {
	var rows []analytics.ProductSales
	err := r.storeLines(ctx, storeID).
		Select(`order_lines.product_id AS product_id,
			products.name AS product_name,
			SUM(order_lines.quantity) AS quantity_sold`).
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Group("order_lines.product_id, products.name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CanceledTotals counts canceled orders and sums the store's line
// amounts on them.
func (r *GormAnalyticsRepository) CanceledTotals(ctx context.Context, storeID uuid.UUID, w analytics.Window) (*analytics.CanceledTotals, error) {
	var row struct {
		OrderCount  int64
		LostRevenue decimal.NullDecimal
	}
	err := r.storeLines(ctx, storeID).
		Select(`COUNT(DISTINCT orders.id) AS order_count,
			SUM(order_lines.quantity * order_lines.unit_price) AS lost_revenue`).
		Where("orders.status = ?", order.StatusCanceled).
		Where("orders.canceled_at >= ? AND orders.canceled_at <= ?", w.Start, w.End).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	totals := &analytics.CanceledTotals{Count: row.OrderCount}
	if row.LostRevenue.Valid {
		totals.LostRevenue = row.LostRevenue.Decimal
	}
	return totals, nil
}

// AvgFulfillmentSeconds averages delivered_at minus created_at over
// delivered orders. GORM has no portable interval arithmetic so the
// rows are folded in Go; delivered order counts stay small per store
// and window.
func (r *GormAnalyticsRepository) AvgFulfillmentSeconds(ctx context.Context, storeID uuid.UUID, w analytics.Window) (float64, error) {
	var orders []order.Order
	err := r.storeOrders(ctx, storeID).
		Select("orders.created_at, orders.delivered_at").
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Find(&orders).Error
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}
	var total float64
	for _, o := range orders {
		if o.DeliveredAt == nil {
			continue
		}
		total += o.DeliveredAt.Sub(o.CreatedAt).Seconds()
	}
	return total / float64(len(orders)), nil
}

// DistinctCustomers counts customers who placed an order in the window
func (r *GormAnalyticsRepository) DistinctCustomers(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	var count int64
	err := r.storeOrders(ctx, storeID).
		Where("orders.created_at >= ? AND orders.created_at <= ?", w.Start, w.End).
		Distinct("orders.customer_id").
		Count(&count).Error
	return count, err
}

// ConvertedCustomers counts customers with a delivered order in the window
func (r *GormAnalyticsRepository) ConvertedCustomers(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	var count int64
	err := r.storeOrders(ctx, storeID).
		Where("orders.status = ?", order.StatusDelivered).
		Where("orders.delivered_at >= ? AND orders.delivered_at <= ?", w.Start, w.End).
		Distinct("orders.customer_id").
		Count(&count).Error
	return count, err
}
