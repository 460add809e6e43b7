package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

const (
	currencyUSD       = "USD"
	topProductsLimit  = 10
	dashboardCacheTTL = 2 * time.Minute
)

// Query selects the reporting window: an explicit range wins; otherwise
// the named period is measured backward from the end date.
type Query struct {
	Period    analytics.Period
	StartDate *time.Time
	EndDate   *time.Time
}

func (q Query) resolve() (analytics.Period, analytics.Window) {
	period := q.Period
	if !period.IsValid() {
		period = analytics.PeriodWeek
	}
	return period, analytics.ResolveWindow(period, q.StartDate, q.EndDate)
}

// Cache stores rendered payloads for a short TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AnalyticsService composes aggregation queries into the reporting
// payloads. All percentage math happens here, in decimals rounded to
// two places.
type AnalyticsService struct {
	repo   analytics.Repository
	cache  Cache
	logger *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repo analytics.Repository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		logger: logger,
	}
}

// SetCache enables dashboard caching
func (s *AnalyticsService) SetCache(cache Cache) {
	s.cache = cache
}

// Income reports gross income over delivered orders in the window
func (s *AnalyticsService) Income(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.IncomeReport, error) {
	period, w := q.resolve()
	totals, err := s.repo.SalesTotals(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	return &analytics.IncomeReport{
		Scope:       scope(storeID, period, w),
		TotalIncome: totals.Income,
		Currency:    currencyUSD,
	}, nil
}

// Revenue reports income minus production costs with the profit margin
func (s *AnalyticsService) Revenue(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.RevenueReport, error) {
	period, w := q.resolve()
	totals, err := s.repo.SalesTotals(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	revenue := totals.Income.Sub(totals.Costs)
	margin := decimal.Zero
	if totals.Income.IsPositive() {
		margin = revenue.Div(totals.Income).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &analytics.RevenueReport{
		Scope:               scope(storeID, period, w),
		TotalRevenue:        revenue,
		TotalIncome:         totals.Income,
		TotalCosts:          totals.Costs,
		ProfitMarginPercent: margin,
		Currency:            currencyUSD,
	}, nil
}

// Orders reports order counts with a status breakdown
func (s *AnalyticsService) Orders(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.OrdersReport, error) {
	period, w := q.resolve()
	counts, err := s.repo.StatusCounts(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return &analytics.OrdersReport{
		Scope:           scope(storeID, period, w),
		TotalOrders:     total,
		StatusBreakdown: counts,
	}, nil
}

// AverageOrderValue reports income divided by delivered order count
func (s *AnalyticsService) AverageOrderValue(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.AOVReport, error) {
	period, w := q.resolve()
	totals, err := s.repo.SalesTotals(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	delivered, err := s.repo.DeliveredOrderCount(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	aov := decimal.Zero
	if delivered > 0 {
		aov = totals.Income.Div(decimal.NewFromInt(delivered)).Round(2)
	}
	return &analytics.AOVReport{
		Scope:             scope(storeID, period, w),
		AverageOrderValue: aov,
		TotalOrders:       delivered,
		TotalIncome:       totals.Income,
		Currency:          currencyUSD,
	}, nil
}

// ItemsSold reports delivered quantities and the top ten products
func (s *AnalyticsService) ItemsSold(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.ItemsSoldReport, error) {
	period, w := q.resolve()
	total, err := s.repo.ItemsSold(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, storeID, w, topProductsLimit)
	if err != nil {
		return nil, err
	}
	return &analytics.ItemsSoldReport{
		Scope:          scope(storeID, period, w),
		TotalItemsSold: total,
		TopProducts:    top,
	}, nil
}

// ReturnedOrders reports canceled orders, their lost income, and the
// return rate against all orders created in the window.
func (s *AnalyticsService) ReturnedOrders(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.ReturnedReport, error) {
	period, w := q.resolve()
	canceled, err := s.repo.CanceledTotals(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.StatusCounts(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(canceled.Count).Div(decimal.NewFromInt(total)).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &analytics.ReturnedReport{
		Scope:               scope(storeID, period, w),
		ReturnedOrdersCount: canceled.Count,
		TotalOrders:         total,
		ReturnRatePercent:   rate,
		LostRevenue:         canceled.LostRevenue,
		Currency:            currencyUSD,
	}, nil
}

// FulfilledOrders reports delivered counts, the fulfillment rate, and
// the mean days from creation to delivery.
func (s *AnalyticsService) FulfilledOrders(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.FulfilledReport, error) {
	period, w := q.resolve()
	fulfilled, err := s.repo.DeliveredOrderCount(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.StatusCounts(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(fulfilled).Div(decimal.NewFromInt(total)).Mul(decimal.NewFromInt(100)).Round(2)
	}
	avgSeconds, err := s.repo.AvgFulfillmentSeconds(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	avgDays := decimal.NewFromFloat(avgSeconds / 86400).Round(1)
	return &analytics.FulfilledReport{
		Scope:                  scope(storeID, period, w),
		FulfilledOrdersCount:   fulfilled,
		TotalOrders:            total,
		FulfillmentRatePercent: rate,
		AverageFulfillmentDays: avgDays,
	}, nil
}

// Conversion reports both conversion definitions plus the customer
// variant. The headline rate divides delivered orders by completed
// journeys (delivered + canceled); the total variant keeps in-progress
// orders in the denominator.
func (s *AnalyticsService) Conversion(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.ConversionReport, error) {
	period, w := q.resolve()
	counts, err := s.repo.StatusCounts(ctx, storeID, w)
	if err != nil {
		return nil, err
	}

	var converted, nonConverted, inProgress int64
	for status, count := range counts {
		switch status {
		case "delivered":
			converted += count
		case "canceled":
			nonConverted += count
		default:
			inProgress += count
		}
	}
	total := converted + nonConverted + inProgress
	completed := converted + nonConverted

	report := &analytics.ConversionReport{
		Scope:              scope(storeID, period, w),
		ConvertedOrders:    converted,
		NonConvertedOrders: nonConverted,
		InProgressOrders:   inProgress,
		TotalOrders:        total,
		CompletedJourneys:  completed,
		StatusBreakdown:    counts,
	}
	report.ConversionRatePercent = ratio(converted, completed)
	report.TotalConversionRatePercent = ratio(converted, total)

	totalCustomers, err := s.repo.DistinctCustomers(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	convertedCustomers, err := s.repo.ConvertedCustomers(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	report.TotalCustomers = totalCustomers
	report.ConvertedCustomers = convertedCustomers
	report.CustomerConversionRatePercent = ratio(convertedCustomers, totalCustomers)

	return report, nil
}

// Growth compares sales, customers, and AOV against the immediately
// preceding window of equal length.
func (s *AnalyticsService) Growth(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.GrowthReport, error) {
	period, w := q.resolve()
	prev := w.Previous()

	curTotals, err := s.repo.SalesTotals(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	prevTotals, err := s.repo.SalesTotals(ctx, storeID, prev)
	if err != nil {
		return nil, err
	}

	curCustomers, err := s.repo.DistinctCustomers(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	prevCustomers, err := s.repo.DistinctCustomers(ctx, storeID, prev)
	if err != nil {
		return nil, err
	}

	curDelivered, err := s.repo.DeliveredOrderCount(ctx, storeID, w)
	if err != nil {
		return nil, err
	}
	prevDelivered, err := s.repo.DeliveredOrderCount(ctx, storeID, prev)
	if err != nil {
		return nil, err
	}

	curAOV := decimal.Zero
	if curDelivered > 0 {
		curAOV = curTotals.Income.Div(decimal.NewFromInt(curDelivered)).Round(2)
	}
	prevAOV := decimal.Zero
	if prevDelivered > 0 {
		prevAOV = prevTotals.Income.Div(decimal.NewFromInt(prevDelivered)).Round(2)
	}

	return &analytics.GrowthReport{
		Scope:             scope(storeID, period, w),
		Sales:             growth(curTotals.Income, prevTotals.Income),
		Customers:         growth(decimal.NewFromInt(curCustomers), decimal.NewFromInt(prevCustomers)),
		AverageOrderValue: growth(curAOV, prevAOV),
	}, nil
}

// Dashboard composes every report into one payload. Results are cached
// briefly per store and window.
func (s *AnalyticsService) Dashboard(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.Dashboard, error) {
	period, w := q.resolve()
	key := dashboardCacheKey(storeID, w)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var cached analytics.Dashboard
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	income, err := s.Income(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Revenue(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	aov, err := s.AverageOrderValue(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	itemsSold, err := s.ItemsSold(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	returned, err := s.ReturnedOrders(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	fulfilled, err := s.FulfilledOrders(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	conversion, err := s.Conversion(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	growthReport, err := s.Growth(ctx, storeID, q)
	if err != nil {
		return nil, err
	}

	dashboard := &analytics.Dashboard{
		Scope:             scope(storeID, period, w),
		Income:            income,
		Revenue:           revenue,
		Orders:            orders,
		AverageOrderValue: aov,
		ItemsSold:         itemsSold,
		ReturnedOrders:    returned,
		FulfilledOrders:   fulfilled,
		Conversion:        conversion,
		Growth:            growthReport,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(dashboard); err == nil {
			if err := s.cache.Set(ctx, key, raw, dashboardCacheTTL); err != nil {
				s.logger.Warn("failed to cache dashboard", zap.Error(err))
			}
		}
	}

	return dashboard, nil
}

// Summary reports the four headline metrics with previous-period deltas
func (s *AnalyticsService) Summary(ctx context.Context, storeID uuid.UUID, q Query) (*analytics.Summary, error) {
	period, w := q.resolve()
	prevQ := Query{StartDate: &w.Start, EndDate: &w.End}
	prevW := w.Previous()
	prevQ.StartDate, prevQ.EndDate = &prevW.Start, &prevW.End

	cur, err := s.headline(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	prev, err := s.headline(ctx, storeID, prevQ)
	if err != nil {
		return nil, err
	}

	return &analytics.Summary{
		Scope:          scope(storeID, period, w),
		Income:         growth(cur.income, prev.income),
		Orders:         growth(cur.orders, prev.orders),
		AOV:            growth(cur.aov, prev.aov),
		ConversionRate: growth(cur.conversion, prev.conversion),
	}, nil
}

type headlineMetrics struct {
	income     decimal.Decimal
	orders     decimal.Decimal
	aov        decimal.Decimal
	conversion decimal.Decimal
}

func (s *AnalyticsService) headline(ctx context.Context, storeID uuid.UUID, q Query) (*headlineMetrics, error) {
	incomeReport, err := s.Income(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	ordersReport, err := s.Orders(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	aovReport, err := s.AverageOrderValue(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	conversionReport, err := s.Conversion(ctx, storeID, q)
	if err != nil {
		return nil, err
	}
	return &headlineMetrics{
		income:     incomeReport.TotalIncome,
		orders:     decimal.NewFromInt(ordersReport.TotalOrders),
		aov:        aovReport.AverageOrderValue,
		conversion: conversionReport.ConversionRatePercent,
	}, nil
}

func scope(storeID uuid.UUID, period analytics.Period, w analytics.Window) analytics.Scope {
	return analytics.Scope{StoreID: storeID, Period: period, Window: w}
}

// ratio returns num/den as a percentage rounded to two places, zero
// when the denominator is zero.
func ratio(num, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(den)).Mul(decimal.NewFromInt(100)).Round(2)
}

// growth builds the period-over-period metric. A previous value of
// zero reports 100% growth when the current value is positive, else 0%.
func growth(current, previous decimal.Decimal) analytics.GrowthMetric {
	m := analytics.GrowthMetric{Current: current, Previous: previous}
	if previous.IsZero() {
		if current.IsPositive() {
			m.GrowthPercent = decimal.NewFromInt(100)
		} else {
			m.GrowthPercent = decimal.Zero
		}
		return m
	}
	m.GrowthPercent = current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	return m
}

func dashboardCacheKey(storeID uuid.UUID, w analytics.Window) string {
	return fmt.Sprintf("analytics:dashboard:%s:%d:%d", storeID, w.Start.Unix(), w.End.Unix())
}
