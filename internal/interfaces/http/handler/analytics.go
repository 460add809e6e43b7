package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/analytics"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AnalyticsHandler exposes the sales reporting endpoints under the
// caller's own store.
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.AnalyticsService
	storeService     *storeapp.StoreService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.AnalyticsService, storeService *storeapp.StoreService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		storeService:     storeService,
	}
}

// AnalyticsQuery selects the reporting window. Period defaults to week;
// explicit start/end dates override it.
type AnalyticsQuery struct {
	Period    string `form:"period" binding:"omitempty,oneof=week month quarter year"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// bindQuery resolves the caller's store and parses the window query.
func (h *AnalyticsHandler) bindQuery(c *gin.Context) (uuid.UUID, analyticsapp.Query, bool) {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, analyticsapp.Query{}, false
	}

	var req AnalyticsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, analyticsapp.Query{}, false
	}

	q := analyticsapp.Query{Period: analytics.Period(req.Period)}
	if t, ok := parseDate(req.StartDate); ok {
		q.StartDate = &t
	}
	if t, ok := parseDate(req.EndDate); ok {
		q.EndDate = &t
	}
	return store.ID, q, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func report[T any](h *AnalyticsHandler, c *gin.Context, fn func(storeID uuid.UUID, q analyticsapp.Query) (T, error)) {
	storeID, q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := fn(storeID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Income handles GET /api/v1/stores/me/analytics/income
func (h *AnalyticsHandler) Income(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.IncomeReport, error) {
		return h.analyticsService.Income(c.Request.Context(), storeID, q)
	})
}

// Revenue handles GET /api/v1/stores/me/analytics/revenue
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.RevenueReport, error) {
		return h.analyticsService.Revenue(c.Request.Context(), storeID, q)
	})
}

// Orders handles GET /api/v1/stores/me/analytics/orders
func (h *AnalyticsHandler) Orders(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.OrdersReport, error) {
		return h.analyticsService.Orders(c.Request.Context(), storeID, q)
	})
}

// AverageOrderValue handles GET /api/v1/stores/me/analytics/average-order-value
func (h *AnalyticsHandler) AverageOrderValue(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.AOVReport, error) {
		return h.analyticsService.AverageOrderValue(c.Request.Context(), storeID, q)
	})
}

// ItemsSold handles GET /api/v1/stores/me/analytics/items-sold
func (h *AnalyticsHandler) ItemsSold(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.ItemsSoldReport, error) {
		return h.analyticsService.ItemsSold(c.Request.Context(), storeID, q)
	})
}

// ReturnedOrders handles GET /api/v1/stores/me/analytics/returned-orders
func (h *AnalyticsHandler) ReturnedOrders(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.ReturnedReport, error) {
		return h.analyticsService.ReturnedOrders(c.Request.Context(), storeID, q)
	})
}

// FulfilledOrders handles GET /api/v1/stores/me/analytics/fulfilled-orders
func (h *AnalyticsHandler) FulfilledOrders(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.FulfilledReport, error) {
		return h.analyticsService.FulfilledOrders(c.Request.Context(), storeID, q)
	})
}

// Conversion handles GET /api/v1/stores/me/analytics/conversion
func (h *AnalyticsHandler) Conversion(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.ConversionReport, error) {
		return h.analyticsService.Conversion(c.Request.Context(), storeID, q)
	})
}

// Growth handles GET /api/v1/stores/me/analytics/growth
func (h *AnalyticsHandler) Growth(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.GrowthReport, error) {
		return h.analyticsService.Growth(c.Request.Context(), storeID, q)
	})
}

// Dashboard handles GET /api/v1/stores/me/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.Dashboard, error) {
		return h.analyticsService.Dashboard(c.Request.Context(), storeID, q)
	})
}

// Summary handles GET /api/v1/stores/me/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	report(h, c, func(storeID uuid.UUID, q analyticsapp.Query) (*analytics.Summary, error) {
		return h.analyticsService.Summary(c.Request.Context(), storeID, q)
	})
}
