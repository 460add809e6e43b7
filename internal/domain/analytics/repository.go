package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals is the raw aggregate over delivered lines in a window
type SalesTotals struct {
	Income decimal.Decimal
	Costs  decimal.Decimal
}

// CanceledTotals is the raw aggregate over canceled orders in a window
type CanceledTotals struct {
	Count       int64
	LostRevenue decimal.Decimal
}

// Repository runs the aggregation queries the analytics service
// composes into reports. Delivered metrics window on delivered_at,
// canceled metrics on canceled_at, everything else on created_at.
type Repository interface {
	// SalesTotals sums quantity*unit_price and quantity*production_cost
	// over delivered order lines of the store's products.
	SalesTotals(ctx context.Context, storeID uuid.UUID, w Window) (*SalesTotals, error)

	// DeliveredOrderCount counts distinct delivered orders in the window
	DeliveredOrderCount(ctx context.Context, storeID uuid.UUID, w Window) (int64, error)

	// StatusCounts counts distinct orders created in the window, grouped
	// by status.
	StatusCounts(ctx context.Context, storeID uuid.UUID, w Window) (map[string]int64, error)

	// ItemsSold sums line quantities over delivered orders
	ItemsSold(ctx context.Context, storeID uuid.UUID, w Window) (int64, error)

	// TopProducts ranks the store's products by delivered quantity
	TopProducts(ctx context.Context, storeID uuid.UUID, w Window, limit int) ([]ProductSales, error)

	// CanceledTotals counts canceled orders and sums their line amounts
	CanceledTotals(ctx context.Context, storeID uuid.UUID, w Window) (*CanceledTotals, error)

	// AvgFulfillmentSeconds averages delivered_at minus created_at over
	// delivered orders. Zero when there are none.
	AvgFulfillmentSeconds(ctx context.Context, storeID uuid.UUID, w Window) (float64, error)

	// DistinctCustomers counts customers who placed an order in the window
	DistinctCustomers(ctx context.Context, storeID uuid.UUID, w Window) (int64, error)

	// ConvertedCustomers counts customers with a delivered order in the window
	ConvertedCustomers(ctx context.Context, storeID uuid.UUID, w Window) (int64, error)
}
