package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	chatapp "github.com/storefront/backend/internal/application/chat"
	identityapp "github.com/storefront/backend/internal/application/identity"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	orderapp "github.com/storefront/backend/internal/application/order"
	reviewapp "github.com/storefront/backend/internal/application/review"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/chat"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, cfg.Log.Level)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Redis backs the analytics cache and chat presence; without it the
	// in-memory fallbacks keep a single instance fully functional.
	var (
		analyticsCache analyticsapp.Cache
		presence       chat.PresenceRegistry
	)
	if redisClient, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("redis unavailable, using in-memory cache and presence", zap.Error(err))
		analyticsCache = cache.NewMemoryCache()
		presence = cache.NewMemoryPresenceRegistry()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		analyticsCache = cache.NewRedisCache(redisClient, "analytics:")
		presence = cache.NewRedisPresenceRegistry(redisClient)
		log.Info("redis connected")
	}

	var imageStorage catalogapp.ImageStorage
	if s3Storage, err := storage.NewS3ImageStorage(cfg.Storage, log); err != nil {
		log.Warn("object storage not configured, image uploads disabled", zap.Error(err))
		imageStorage = storage.NewStubImageStorage()
	} else {
		imageStorage = s3Storage
	}

	// Repositories
	uow := persistence.NewGormUnitOfWork(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, eventBus, log)
	storeService := storeapp.NewStoreService(storeRepo, userRepo, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, tagRepo, log)
	productService.SetImageStorage(imageStorage)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	tagService := catalogapp.NewTagService(tagRepo, log)
	stockService := inventoryapp.NewStockService(uow, productRepo, movementRepo, log)
	orderService := orderapp.NewOrderService(uow, orderRepo, productRepo, userRepo, stockService, log)
	orderService.SetEventPublisher(eventBus)
	analyticsService := analyticsapp.NewAnalyticsService(analyticsRepo, log)
	analyticsService.SetCache(analyticsCache)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, log)
	chatService := chatapp.NewChatService(messageRepo, storeRepo, presence, cfg.Chat.PresenceTTL, log)

	engine := router.New(cfg, log, jwtService, router.Handlers{
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

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
