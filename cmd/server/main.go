package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/oms/backend/internal/application/catalog"
	outboxapp "github.com/oms/backend/internal/application/event"
	partnerapp "github.com/oms/backend/internal/application/partner"
	printingapp "github.com/oms/backend/internal/application/printing"
	tradeapp "github.com/oms/backend/internal/application/trade"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/infrastructure/auth"
	"github.com/oms/backend/internal/infrastructure/cache"
	"github.com/oms/backend/internal/infrastructure/config"
	"github.com/oms/backend/internal/infrastructure/event"
	"github.com/oms/backend/internal/infrastructure/logger"
	"github.com/oms/backend/internal/infrastructure/persistence"
	infraprinting "github.com/oms/backend/internal/infrastructure/printing"
	"github.com/oms/backend/internal/infrastructure/storage"
	"github.com/oms/backend/internal/interfaces/http/handler"
	"github.com/oms/backend/internal/interfaces/http/middleware"
	"github.com/oms/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/oms/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			OMS Backend API
//	@version		1.0
//	@description	Order management backend with variant stock ledger, purchase costing and receipt rendering
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/oms/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	statusRepo := persistence.NewGormStatusRepository(db.DB)
	invoiceRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that need transactional event publishing
	variantRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	invoiceRepo.SetOutboxEventSaver(outboxPublisher)

	// Transaction scope for multi-aggregate trade operations
	txScope := persistence.NewGormTradeTransactionScope(db.DB, outboxPublisher)

	// Redis-backed components degrade gracefully when Redis is unreachable
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisErr := redisClient.Ping(pingCtx).Err()
	pingCancel()

	var statusCache tradeapp.StatusCache
	var idempotencyStore shared.IdempotencyStore = cache.NewInMemoryIdempotencyStore()
	if redisErr != nil {
		log.Warn("Redis unreachable, running without status cache", zap.Error(redisErr))
	} else {
		statusCache = cache.NewRedisStatusCacheWithClient(redisClient,
			cache.WithStatusCacheLogger(log))
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "")
		log.Info("Redis connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Receipt rendering: chromedp for PDF output, object storage for archiving
	pdfRenderer, err := infraprinting.NewChromedpRenderer(&infraprinting.ChromeOptions{
		RemoteURL: cfg.Printing.ChromeRemoteURL,
		Timeout:   cfg.Printing.RenderTimeout,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	var receiptArchive infraprinting.ReceiptArchive = infraprinting.NewInlineReceiptArchive()
	if cfg.Printing.ArchiveEnabled {
		objectStorage, err := storage.NewS3Store(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objectStorage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to prepare receipt bucket", zap.Error(err))
		}
		receiptArchive = infraprinting.NewS3ReceiptArchive(objectStorage, cfg.Printing.ReceiptURLTTL, log)
		log.Info("Receipt archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Initialize application services
	variantService := catalogapp.NewVariantService(variantRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	orderService := tradeapp.NewOrderService(txScope)
	invoiceService := tradeapp.NewPurchaseInvoiceService(txScope)
	statusService := tradeapp.NewStatusService(statusRepo, statusCache, log)
	receiptService, err := printingapp.NewReceiptService(
		orderRepo, invoiceRepo, supplierRepo, pdfRenderer, receiptArchive, log)
	if err != nil {
		log.Fatal("Failed to initialize receipt service", zap.Error(err))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Stock below threshold -> low stock alerting, deduplicated across redeliveries
	lowStockHandler := catalogapp.NewLowStockHandler(log).
		WithNotifier(catalogapp.NewLoggingLowStockNotifier(log))
	eventBus.Subscribe(event.NewIdempotentHandler(lowStockHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start outbox processor for guaranteed event delivery
	// The outbox processor reads events from the outbox_events table and publishes them to the event bus
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Outbox management service exposes dead-letter inspection and retry
	outboxService := outboxapp.NewOutboxService(outboxRepo, log)

	// Initialize HTTP handlers
	receiptHandler := handler.NewReceiptHandler(receiptService)
	orderHandler := handler.NewOrderHandler(orderService, receiptHandler)
	invoiceHandler := handler.NewPurchaseInvoiceHandler(invoiceService, receiptHandler)
	variantHandler := handler.NewVariantHandler(variantService)
	statusHandler := handler.NewStatusHandler(statusService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	systemHandler := handler.NewSystemHandler(db.DB)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant resolution accepts either a JWT claim or the X-Tenant-ID header,
	// so token verification runs in optional mode: claims are extracted when
	// a token is present, anonymous requests fall through to the header.
	// Revoked tokens are still rejected when revocation tracking is enabled.
	jwtService := auth.NewJWTService(cfg.JWT)
	var revocations auth.TokenRevocations
	if cfg.JWT.RevocationEnabled {
		if redisErr != nil {
			revocations = auth.NewInMemoryTokenRevocations()
		} else {
			revocations = auth.NewRedisTokenRevocations(redisClient)
		}
	}
	r.Use(middleware.OptionalTenantAuth(middleware.TenantAuthConfig{
		Service:     jwtService,
		Revocations: revocations,
		Logger:      log,
	}))

	// Register resource handlers
	r.Register(variantHandler).
		Register(orderHandler).
		Register(invoiceHandler).
		Register(statusHandler).
		Register(supplierHandler).
		Register(systemHandler).
		Register(outboxHandler)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
