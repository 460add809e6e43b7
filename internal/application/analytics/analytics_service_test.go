package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of analytics.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SalesTotals(ctx context.Context, storeID uuid.UUID, w analytics.Window) (*analytics.SalesTotals, error) {
	args := m.Called(ctx, storeID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.SalesTotals), args.Error(1)
}

func (m *MockRepository) DeliveredOrderCount(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) StatusCounts(ctx context.Context, storeID uuid.UUID, w analytics.Window) (map[string]int64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockRepository) ItemsSold(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) TopProducts(ctx context.Context, storeID uuid.UUID, w analytics.Window, limit int) ([]analytics.ProductSales, error) {
	args := m.Called(ctx, storeID, w, limit)
	return args.Get(0).([]analytics.ProductSales), args.Error(1)
}

func (m *MockRepository) CanceledTotals(ctx context.Context, storeID uuid.UUID, w analytics.Window) (*analytics.CanceledTotals, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(*analytics.CanceledTotals), args.Error(1)
}

func (m *MockRepository) AvgFulfillmentSeconds(ctx context.Context, storeID uuid.UUID, w analytics.Window) (float64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) DistinctCustomers(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ConvertedCustomers(ctx context.Context, storeID uuid.UUID, w analytics.Window) (int64, error) {
	args := m.Called(ctx, storeID, w)
	return args.Get(0).(int64), args.Error(1)
}

func weekQuery() Query {
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return Query{Period: analytics.PeriodWeek, EndDate: &end}
}

func TestRevenue(t *testing.T) {
	storeID := uuid.New()
	repo := new(MockRepository)
	svc := NewAnalyticsService(repo, zap.NewNop())

	t.Run("income 500 with costs 200 gives revenue 300 and margin 60", func(t *testing.T) {
		repo.On("SalesTotals", mock.Anything, storeID, mock.Anything).Return(&analytics.SalesTotals{
			Income: decimal.RequireFromString("500"),
			Costs:  decimal.RequireFromString("200"),
		}, nil).Once()

		report, err := svc.Revenue(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.TotalRevenue.Equal(decimal.RequireFromString("300")))
		assert.True(t, report.ProfitMarginPercent.Equal(decimal.RequireFromString("60")))
	})

	t.Run("zero income gives zero margin", func(t *testing.T) {
		repo.On("SalesTotals", mock.Anything, storeID, mock.Anything).Return(&analytics.SalesTotals{
			Income: decimal.Zero,
			Costs:  decimal.Zero,
		}, nil).Once()

		report, err := svc.Revenue(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.ProfitMarginPercent.IsZero())
	})
}

func TestAverageOrderValue(t *testing.T) {
	storeID := uuid.New()
	repo := new(MockRepository)
	svc := NewAnalyticsService(repo, zap.NewNop())

	t.Run("divides income by delivered orders only", func(t *testing.T) {
		repo.On("SalesTotals", mock.Anything, storeID, mock.Anything).Return(&analytics.SalesTotals{
			Income: decimal.RequireFromString("500"),
		}, nil).Once()
		repo.On("DeliveredOrderCount", mock.Anything, storeID, mock.Anything).Return(int64(2), nil).Once()

		report, err := svc.AverageOrderValue(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.AverageOrderValue.Equal(decimal.RequireFromString("250")))
		assert.Equal(t, int64(2), report.TotalOrders)
	})

	t.Run("zero delivered orders gives zero AOV", func(t *testing.T) {
		repo.On("SalesTotals", mock.Anything, storeID, mock.Anything).Return(&analytics.SalesTotals{
			Income: decimal.Zero,
		}, nil).Once()
		repo.On("DeliveredOrderCount", mock.Anything, storeID, mock.Anything).Return(int64(0), nil).Once()

		report, err := svc.AverageOrderValue(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.AverageOrderValue.IsZero())
	})
}

func TestConversion(t *testing.T) {
	storeID := uuid.New()

	t.Run("one delivered and one canceled gives 50 percent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewAnalyticsService(repo, zap.NewNop())
		repo.On("StatusCounts", mock.Anything, storeID, mock.Anything).Return(map[string]int64{
			"delivered": 1,
			"canceled":  1,
		}, nil).Once()
		repo.On("DistinctCustomers", mock.Anything, storeID, mock.Anything).Return(int64(2), nil).Once()
		repo.On("ConvertedCustomers", mock.Anything, storeID, mock.Anything).Return(int64(1), nil).Once()

		report, err := svc.Conversion(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.ConversionRatePercent.Equal(decimal.RequireFromString("50")))
		assert.True(t, report.TotalConversionRatePercent.Equal(decimal.RequireFromString("50")))
	})

	t.Run("pending order changes total rate but not headline rate", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewAnalyticsService(repo, zap.NewNop())
		repo.On("StatusCounts", mock.Anything, storeID, mock.Anything).Return(map[string]int64{
			"delivered": 1,
			"canceled":  1,
			"pending":   1,
		}, nil).Once()
		repo.On("DistinctCustomers", mock.Anything, storeID, mock.Anything).Return(int64(3), nil).Once()
		repo.On("ConvertedCustomers", mock.Anything, storeID, mock.Anything).Return(int64(1), nil).Once()

		report, err := svc.Conversion(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.ConversionRatePercent.Equal(decimal.RequireFromString("50")))
		assert.True(t, report.TotalConversionRatePercent.Equal(decimal.RequireFromString("33.33")))
		assert.Equal(t, int64(1), report.InProgressOrders)
		assert.Equal(t, int64(2), report.CompletedJourneys)
	})

	t.Run("no orders gives zero rates", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewAnalyticsService(repo, zap.NewNop())
		repo.On("StatusCounts", mock.Anything, storeID, mock.Anything).Return(map[string]int64{}, nil).Once()
		repo.On("DistinctCustomers", mock.Anything, storeID, mock.Anything).Return(int64(0), nil).Once()
		repo.On("ConvertedCustomers", mock.Anything, storeID, mock.Anything).Return(int64(0), nil).Once()

		report, err := svc.Conversion(context.Background(), storeID, weekQuery())

		require.NoError(t, err)
		assert.True(t, report.ConversionRatePercent.IsZero())
	})
}

func TestGrowth(t *testing.T) {
	storeID := uuid.New()

	t.Run("previous zero and current positive reports 100 percent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewAnalyticsService(repo, zap.NewNop())
		q := weekQuery()
		_, w := q.resolve()
		prev := w.Previous()

		repo.On("SalesTotals", mock.Anything, storeID, w).Return(&analytics.SalesTotals{
			Income: decimal.RequireFromString("200"),
		}, nil).Once()
		repo.On("SalesTotals", mock.Anything, storeID, prev).Return(&analytics.SalesTotals{
			Income: decimal.Zero,
		}, nil).Once()
		repo.On("DistinctCustomers", mock.Anything, storeID, w).Return(int64(4), nil).Once()
		repo.On("DistinctCustomers", mock.Anything, storeID, prev).Return(int64(0), nil).Once()
		repo.On("DeliveredOrderCount", mock.Anything, storeID, w).Return(int64(2), nil).Once()
		repo.On("DeliveredOrderCount", mock.Anything, storeID, prev).Return(int64(0), nil).Once()

		report, err := svc.Growth(context.Background(), storeID, q)

		require.NoError(t, err)
		assert.True(t, report.Sales.GrowthPercent.Equal(decimal.RequireFromString("100")))
		assert.True(t, report.Customers.GrowthPercent.Equal(decimal.RequireFromString("100")))
	})

	t.Run("both zero reports zero percent", func(t *testing.T) {
		m := growth(decimal.Zero, decimal.Zero)
		assert.True(t, m.GrowthPercent.IsZero())
	})

	t.Run("regular change computes signed percentage", func(t *testing.T) {
		m := growth(decimal.RequireFromString("150"), decimal.RequireFromString("100"))
		assert.True(t, m.GrowthPercent.Equal(decimal.RequireFromString("50")))

		m = growth(decimal.RequireFromString("50"), decimal.RequireFromString("100"))
		assert.True(t, m.GrowthPercent.Equal(decimal.RequireFromString("-50")))
	})
}

func TestFulfilledOrders(t *testing.T) {
	storeID := uuid.New()
	repo := new(MockRepository)
	svc := NewAnalyticsService(repo, zap.NewNop())

	repo.On("DeliveredOrderCount", mock.Anything, storeID, mock.Anything).Return(int64(3), nil).Once()
	repo.On("StatusCounts", mock.Anything, storeID, mock.Anything).Return(map[string]int64{
		"delivered": 3,
		"pending":   1,
	}, nil).Once()
	repo.On("AvgFulfillmentSeconds", mock.Anything, storeID, mock.Anything).Return(float64(2*86400), nil).Once()

	report, err := svc.FulfilledOrders(context.Background(), storeID, weekQuery())

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.FulfilledOrdersCount)
	assert.True(t, report.FulfillmentRatePercent.Equal(decimal.RequireFromString("75")))
	assert.True(t, report.AverageFulfillmentDays.Equal(decimal.RequireFromString("2")))
}
