package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	chatapp "github.com/storefront/backend/internal/application/chat"
	identityapp "github.com/storefront/backend/internal/application/identity"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	orderapp "github.com/storefront/backend/internal/application/order"
	reviewapp "github.com/storefront/backend/internal/application/review"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/chat"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.User{}, &store.Store{},
		&catalog.Category{}, &catalog.Tag{}, &catalog.Product{}, &catalog.ProductImage{},
		&inventory.StockMovement{},
		&order.Order{}, &order.OrderLine{},
		&review.Review{}, &chat.Message{},
	))

	logger := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret",
		RefreshSecret:          "test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "storefront-test",
	})

	uow := persistence.NewGormUnitOfWork(db)
	userRepo := persistence.NewGormUserRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	tagRepo := persistence.NewGormTagRepository(db)
	movementRepo := persistence.NewGormMovementRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)
	messageRepo := persistence.NewGormMessageRepository(db)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db)

	bus := event.NewInMemoryEventBus(logger)

	authService := identityapp.NewAuthService(userRepo, jwtService, bus, logger)
	storeService := storeapp.NewStoreService(storeRepo, userRepo, bus, logger)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, tagRepo, logger)
	productService.SetImageStorage(storage.NewStubImageStorage())
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, logger)
	tagService := catalogapp.NewTagService(tagRepo, logger)
	stockService := inventoryapp.NewStockService(uow, productRepo, movementRepo, logger)
	orderService := orderapp.NewOrderService(uow, orderRepo, productRepo, userRepo, stockService, logger)
	orderService.SetEventPublisher(bus)
	analyticsService := analyticsapp.NewAnalyticsService(analyticsRepo, logger)
	analyticsService.SetCache(cache.NewMemoryCache())
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, logger)
	chatService := chatapp.NewChatService(messageRepo, storeRepo, cache.NewMemoryPresenceRegistry(), time.Minute, logger)

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	return New(cfg, logger, jwtService, Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Store:     handler.NewStoreHandler(storeService),
		Product:   handler.NewProductHandler(productService, storeService),
		Category:  handler.NewCategoryHandler(categoryService, storeService),
		Tag:       handler.NewTagHandler(tagService),
		Inventory: handler.NewInventoryHandler(stockService, productService, storeService),
		Order:     handler.NewOrderHandler(orderService, productService, storeService),
		Analytics: handler.NewAnalyticsHandler(analyticsService, storeService),
		Review:    handler.NewReviewHandler(reviewService),
		Chat:      handler.NewChatHandler(chatService, storeService),
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func registerAndLogin(t *testing.T, engine *gin.Engine, email, kind string) string {
	t.Helper()
	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "s3cretpass",
		"name":     "Test User",
		"kind":     kind,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	engine := newTestServer(t)
	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/orders/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, env.Success)
}

func TestStorefrontFlow(t *testing.T) {
	engine := newTestServer(t)

	ownerToken := registerAndLogin(t, engine, "owner@example.com", "store_owner")
	customerToken := registerAndLogin(t, engine, "buyer@example.com", "customer")

	// Owner opens a store.
	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/stores", ownerToken, map[string]any{
		"name":        "Bean There",
		"description": "Specialty coffee",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Customers cannot open stores.
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/stores", customerToken, map[string]any{
		"name": "Nope",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Owner lists a product.
	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/products", ownerToken, map[string]any{
		"name":            "House Blend",
		"description":     "250g whole beans",
		"price":           "12.50",
		"production_cost": "6.00",
		"stock":           10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, 10, product.Stock)

	// Customer places an order for three units.
	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"lines": []map[string]any{
			{"product_id": product.ID, "quantity": 3},
		},
		"shipping_address": "1 Main St",
		"shipping_city":    "Springfield",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	require.Equal(t, "pending", placed.Status)
	require.Equal(t, "37.50", placed.TotalAmount)

	// Stock was decremented transactionally.
	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, 7, product.Stock)

	// Owner confirms, ships, delivers.
	for _, status := range []string{"confirmed", "shipped", "delivered"} {
		w, _ = doJSON(t, engine, http.MethodPatch, "/api/v1/orders/"+placed.ID+"/status", ownerToken, map[string]any{
			"status": status,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// Delivered is terminal.
	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+placed.ID+"/cancel", customerToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "ERR_INVALID_STATE", env.Error.Code)

	// Analytics over the owner's store sees the delivered revenue.
	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/stores/me/analytics/income?period=week", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var income struct {
		TotalIncome string `json:"total_income"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &income))
	require.Equal(t, "37.5", income.TotalIncome)

	// Customer reviews the delivered product.
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/reviews", customerToken, map[string]any{
		"product_id": product.ID,
		"rating":     5,
		"comment":    "Great beans",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/products/"+product.ID+"/reviews/summary", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		ReviewCount int64 `json:"review_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Equal(t, int64(1), summary.ReviewCount)
}

func TestCancelRestoresStock(t *testing.T) {
	engine := newTestServer(t)

	ownerToken := registerAndLogin(t, engine, "owner2@example.com", "store_owner")
	customerToken := registerAndLogin(t, engine, "buyer2@example.com", "customer")

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/stores", ownerToken, map[string]any{"name": "Widget World"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/products", ownerToken, map[string]any{
		"name":  "Widget",
		"price": "5.00",
		"stock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"lines": []map[string]any{{"product_id": product.ID, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	// Oversell is rejected once stock is exhausted.
	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/orders", customerToken, map[string]any{
		"lines": []map[string]any{{"product_id": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "ERR_INSUFFICIENT_STOCK", env.Error.Code)

	// Cancel puts the stock back.
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+placed.ID+"/cancel", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, 4, product.Stock)
}

func TestChatFlow(t *testing.T) {
	engine := newTestServer(t)

	ownerToken := registerAndLogin(t, engine, "owner3@example.com", "store_owner")
	customerToken := registerAndLogin(t, engine, "buyer3@example.com", "customer")

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/stores", ownerToken, map[string]any{"name": "Chatty"})
	require.Equal(t, http.StatusCreated, w.Code)
	var st struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &st))

	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))

	msg := map[string]any{
		"store_id":    st.ID,
		"customer_id": me.ID,
		"type":        "text",
		"content":     "Is the widget in stock?",
	}
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/chat/messages", customerToken, msg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A third party cannot read the thread.
	strangerToken := registerAndLogin(t, engine, "stranger@example.com", "customer")
	path := fmt.Sprintf("/api/v1/chat/messages?store_id=%s&customer_id=%s", st.ID, me.ID)
	w, _ = doJSON(t, engine, http.MethodGet, path, strangerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The store owner sees one thread with one unread message.
	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/chat/threads", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var threads []struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &threads))
	require.Len(t, threads, 1)
	require.Equal(t, int64(1), threads[0].UnreadCount)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/chat/read", ownerToken, map[string]any{
		"store_id":    st.ID,
		"customer_id": me.ID,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w, env = doJSON(t, engine, http.MethodGet, "/api/v1/chat/threads", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &threads))
	require.Equal(t, int64(0), threads[0].UnreadCount)
}
