package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope identifies what a report covers
type Scope struct {
	StoreID uuid.UUID `json:"store_id"`
	Period  Period    `json:"period"`
	Window  Window    `json:"date_range"`
}

// IncomeReport is the gross income over delivered orders in the window
type IncomeReport struct {
	Scope
	TotalIncome decimal.Decimal `json:"total_income"`
	Currency    string          `json:"currency"`
}

// RevenueReport is income minus production costs
type RevenueReport struct {
	Scope
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	TotalCosts          decimal.Decimal `json:"total_costs"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
	Currency            string          `json:"currency"`
}

// OrdersReport counts orders touching the store in the window
type OrdersReport struct {
	Scope
	TotalOrders     int64            `json:"total_orders"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
}

// AOVReport is income divided by the delivered order count
type AOVReport struct {
	Scope
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalOrders       int64           `json:"total_orders"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	Currency          string          `json:"currency"`
}

// ProductSales is one entry of the top-sellers ranking
type ProductSales struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int64     `json:"quantity_sold"`
}

// ItemsSoldReport sums delivered quantities and ranks products
type ItemsSoldReport struct {
	Scope
	TotalItemsSold int64          `json:"total_items_sold"`
	TopProducts    []ProductSales `json:"top_products"`
}

// ReturnedReport covers canceled orders and the income they took away
type ReturnedReport struct {
	Scope
	ReturnedOrdersCount int64           `json:"returned_orders_count"`
	TotalOrders         int64           `json:"total_orders"`
	ReturnRatePercent   decimal.Decimal `json:"return_rate_percent"`
	LostRevenue         decimal.Decimal `json:"lost_revenue"`
	Currency            string          `json:"currency"`
}

// FulfilledReport covers delivered orders and time to deliver
type FulfilledReport struct {
	Scope
	FulfilledOrdersCount   int64           `json:"fulfilled_orders_count"`
	TotalOrders            int64           `json:"total_orders"`
	FulfillmentRatePercent decimal.Decimal `json:"fulfillment_rate_percent"`
	AverageFulfillmentDays decimal.Decimal `json:"average_fulfillment_days"`
}

// ConversionReport exposes both conversion definitions. ConversionRate
// divides delivered by completed journeys only; TotalConversionRate
// keeps in-progress orders in the denominator.
type ConversionReport struct {
	Scope
	ConversionRatePercent         decimal.Decimal  `json:"conversion_rate_percent"`
	TotalConversionRatePercent    decimal.Decimal  `json:"total_conversion_rate_percent"`
	CustomerConversionRatePercent decimal.Decimal  `json:"customer_conversion_rate_percent"`
	ConvertedOrders               int64            `json:"converted_orders"`
	NonConvertedOrders            int64            `json:"non_converted_orders"`
	InProgressOrders              int64            `json:"in_progress_orders"`
	TotalOrders                   int64            `json:"total_orders"`
	CompletedJourneys             int64            `json:"completed_journeys"`
	TotalCustomers                int64            `json:"total_customers"`
	ConvertedCustomers            int64            `json:"converted_customers"`
	StatusBreakdown               map[string]int64 `json:"status_breakdown"`
}

// GrowthMetric compares the current window against the preceding one
type GrowthMetric struct {
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	GrowthPercent decimal.Decimal `json:"growth_percent"`
}

// GrowthReport holds period-over-period change for the headline metrics
type GrowthReport struct {
	Scope
	Sales             GrowthMetric `json:"sales"`
	Customers         GrowthMetric `json:"customers"`
	AverageOrderValue GrowthMetric `json:"average_order_value"`
}

// Dashboard composes every report into one payload
type Dashboard struct {
	Scope
	Income            *IncomeReport     `json:"income"`
	Revenue           *RevenueReport    `json:"revenue"`
	Orders            *OrdersReport     `json:"orders"`
	AverageOrderValue *AOVReport        `json:"average_order_value"`
	ItemsSold         *ItemsSoldReport  `json:"items_sold"`
	ReturnedOrders    *ReturnedReport   `json:"returned_orders"`
	FulfilledOrders   *FulfilledReport  `json:"fulfilled_orders"`
	Conversion        *ConversionReport `json:"conversion"`
	Growth            *GrowthReport     `json:"growth"`
}

// Summary is the compact dashboard: the four headline metrics with
// their previous-period deltas.
type Summary struct {
	Scope
	Income         GrowthMetric `json:"income"`
	Orders         GrowthMetric `json:"orders"`
	AOV            GrowthMetric `json:"average_order_value"`
	ConversionRate GrowthMetric `json:"conversion_rate"`
}
