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

	_ "github.com/commerce/backend/docs"
	addressapp "github.com/commerce/backend/internal/application/address"
	catalogapp "github.com/commerce/backend/internal/application/catalog"
	exportapp "github.com/commerce/backend/internal/application/export"
	identityapp "github.com/commerce/backend/internal/application/identity"
	orderapp "github.com/commerce/backend/internal/application/order"
	reviewapp "github.com/commerce/backend/internal/application/review"
	ticketapp "github.com/commerce/backend/internal/application/ticket"
	voucherapp "github.com/commerce/backend/internal/application/voucher"
	"github.com/commerce/backend/internal/infrastructure/auth"
	"github.com/commerce/backend/internal/infrastructure/cache"
	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/commerce/backend/internal/infrastructure/event"
	"github.com/commerce/backend/internal/infrastructure/logger"
	"github.com/commerce/backend/internal/infrastructure/migration"
	"github.com/commerce/backend/internal/infrastructure/persistence"
	"github.com/commerce/backend/internal/infrastructure/storage"
	"github.com/commerce/backend/internal/infrastructure/telemetry"
	"github.com/commerce/backend/internal/interfaces/http/handler"
	"github.com/commerce/backend/internal/interfaces/http/router"
)

const migrationsPath = "migrations"

// @title           Shop API
// @version         1.0
// @description     REST API for the e-commerce backend.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting commerce backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.WaitForDatabase(ctx, &cfg.Database, cfg.Startup, gormLog, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	redisClient, err := cache.WaitForRedis(ctx, &cfg.Redis, cfg.Startup, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		_ = redisClient.Close()
	}()

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying connection", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	permissionRepo := persistence.NewGormPermissionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subCategoryRepo := persistence.NewGormSubCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	exportRepo := persistence.NewGormExportRepository(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	catalogCache := cache.NewRedisCatalogCache(redisClient)

	objectStorage, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	ratingHandler := catalogapp.NewProductRatingHandler(productRepo, reviewRepo, catalogCache, log)
	eventBus.Subscribe(ratingHandler, ratingHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, eventBus, log)
	groupService := identityapp.NewGroupService(groupRepo, log)
	permissionService := identityapp.NewPermissionService(permissionRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, subCategoryRepo, log)
	productService := catalogapp.NewProductService(productRepo, subCategoryRepo, catalogCache, eventBus, log)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, voucherRepo, addressRepo, eventBus, cfg.Checkout.TaxRate, log)
	voucherService := voucherapp.NewVoucherService(voucherRepo, orderRepo, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, eventBus, log)
	ticketService := ticketapp.NewTicketService(ticketRepo, orderRepo, log)
	addressService := addressapp.NewAddressService(addressRepo, log)
	exportService := exportapp.NewExportService(exportRepo, objectStorage, log)

	// Export worker
	if cfg.Export.WorkerEnabled {
		worker := exportapp.NewWorker(
			exportRepo, orderRepo, productRepo, userRepo,
			objectStorage, cfg.Export.PollInterval, cfg.Export.JobTimeout, log,
		)
		go worker.Run(ctx)
	}

	handlers := router.Handlers{
		System:   handler.NewSystemHandler(db.DB, redisClient),
		Auth:     handler.NewAuthHandler(authService, userService),
		User:     handler.NewUserHandler(userService),
		Group:    handler.NewGroupHandler(groupService),
		Perm:     handler.NewPermissionHandler(permissionService),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService, objectStorage),
		Order:    handler.NewOrderHandler(orderService),
		Voucher:  handler.NewVoucherHandler(voucherService),
		Review:   handler.NewReviewHandler(reviewService),
		Ticket:   handler.NewTicketHandler(ticketService),
		Address:  handler.NewAddressHandler(addressService),
		Export:   handler.NewExportHandler(exportService),
	}

	engine := router.New(router.Config{
		HTTP:       cfg.HTTP,
		Telemetry:  cfg.Telemetry,
		Docs:       cfg.Docs,
		Env:        cfg.App.Env,
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     log,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}

// newObjectStorage returns S3-backed storage, or an in-memory fallback in
// non-production environments with no endpoint configured, so local
// development works without MinIO running.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (exportapp.ObjectStorage, error) {
	if cfg.App.Env != "production" && cfg.Storage.Endpoint == "" && cfg.Storage.AccessKeyID == "" {
		log.Warn("No object storage endpoint configured, using in-memory storage")
		return storage.NewInMemoryObjectStorage(cfg.Storage.Bucket), nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3Storage, nil
}
