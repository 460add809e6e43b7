package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth      *handler.AuthHandler
	Store     *handler.StoreHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Tag       *handler.TagHandler
	Inventory *handler.InventoryHandler
	Order     *handler.OrderHandler
	Analytics *handler.AnalyticsHandler
	Review    *handler.ReviewHandler
	Chat      *handler.ChatHandler
}

// New builds the gin engine with all middleware and routes registered
func New(cfg *config.Config, logger *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(cfg.HTTP),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	authRequired := middleware.RequireAuth(jwtService)
	ownerOnly := middleware.RequireStoreOwner()
	customerOnly := middleware.RequireCustomer()

	// Identity
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.GET("/me", authRequired, h.Auth.Me)
		authGroup.PUT("/me", authRequired, h.Auth.UpdateProfile)
		authGroup.PUT("/me/password", authRequired, h.Auth.ChangePassword)
	}

	// Stores
	stores := api.Group("/stores")
	{
		stores.GET("", h.Store.List)
		stores.POST("", authRequired, ownerOnly, h.Store.Create)
		stores.GET("/me", authRequired, ownerOnly, h.Store.GetMine)
		stores.GET("/me/statistics", authRequired, ownerOnly, h.Store.Statistics)
		stores.GET("/me/orders", authRequired, ownerOnly, h.Order.ListForStore)
		stores.GET("/:id", h.Store.Get)
		stores.PUT("/:id", authRequired, ownerOnly, h.Store.Update)
		stores.GET("/:id/products", h.Product.ListByStore)
		stores.GET("/:id/categories", h.Category.ListByStore)

		analyticsGroup := stores.Group("/me/analytics", authRequired, ownerOnly)
		{
			analyticsGroup.GET("/income", h.Analytics.Income)
			analyticsGroup.GET("/revenue", h.Analytics.Revenue)
			analyticsGroup.GET("/orders", h.Analytics.Orders)
			analyticsGroup.GET("/average-order-value", h.Analytics.AverageOrderValue)
			analyticsGroup.GET("/items-sold", h.Analytics.ItemsSold)
			analyticsGroup.GET("/returned-orders", h.Analytics.ReturnedOrders)
			analyticsGroup.GET("/fulfilled-orders", h.Analytics.FulfilledOrders)
			analyticsGroup.GET("/conversion", h.Analytics.Conversion)
			analyticsGroup.GET("/growth", h.Analytics.Growth)
			analyticsGroup.GET("/dashboard", h.Analytics.Dashboard)
			analyticsGroup.GET("/summary", h.Analytics.Summary)
		}
	}

	// Catalog
	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", authRequired, ownerOnly, h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", authRequired, ownerOnly, h.Product.Update)
		products.DELETE("/:id", authRequired, ownerOnly, h.Product.Delete)
		products.PUT("/:id/tags", authRequired, ownerOnly, h.Product.SetTags)
		products.POST("/:id/images", authRequired, ownerOnly, h.Product.UploadImage)
		products.DELETE("/:id/images", authRequired, ownerOnly, h.Product.DeleteImage)
		products.POST("/:id/stock", authRequired, ownerOnly, h.Inventory.Adjust)
		products.GET("/:id/stock/movements", authRequired, ownerOnly, h.Inventory.Movements)
		products.GET("/:id/reviews", h.Review.ListByProduct)
		products.GET("/:id/reviews/summary", h.Review.Summary)
	}

	categories := api.Group("/categories", authRequired, ownerOnly)
	{
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Rename)
		categories.DELETE("/:id", h.Category.Delete)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", h.Tag.List)
		tags.GET("/:id", h.Tag.Get)
		tags.POST("", authRequired, ownerOnly, h.Tag.Create)
		tags.DELETE("/:id", authRequired, ownerOnly, h.Tag.Delete)
	}

	// Orders
	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", customerOnly, h.Order.Create)
		orders.GET("/me", customerOnly, h.Order.ListMine)
		orders.GET("/number/:number", h.Order.GetByNumber)
		orders.GET("/:id", h.Order.Get)
		orders.PATCH("/:id/status", ownerOnly, h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.DELETE("/:id", ownerOnly, h.Order.Delete)
	}

	// Reviews
	reviews := api.Group("/reviews")
	{
		reviews.GET("/:id", h.Review.Get)
		reviews.POST("", authRequired, customerOnly, h.Review.Create)
		reviews.PUT("/:id", authRequired, customerOnly, h.Review.Update)
		reviews.DELETE("/:id", authRequired, customerOnly, h.Review.Delete)
	}

	// Chat
	chat := api.Group("/chat", authRequired)
	{
		chat.POST("/messages", h.Chat.Send)
		chat.GET("/messages", h.Chat.History)
		chat.DELETE("/messages/:id", h.Chat.DeleteMessage)
		chat.GET("/threads", h.Chat.Threads)
		chat.POST("/read", h.Chat.MarkRead)
		chat.POST("/heartbeat", h.Chat.Heartbeat)
		chat.POST("/disconnect", h.Chat.Disconnect)
	}

	return engine
}
