// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pvasilev/stockroom-be/internal/adapters/db"
	redis_a "github.com/pvasilev/stockroom-be/internal/adapters/redis_adapter"
	"github.com/pvasilev/stockroom-be/internal/core/ports"
	"github.com/pvasilev/stockroom-be/internal/core/services"
	"github.com/pvasilev/stockroom-be/internal/handlers"
	"github.com/pvasilev/stockroom-be/internal/handlers/middleware"
	"github.com/pvasilev/stockroom-be/internal/pkg/config"
	"github.com/pvasilev/stockroom-be/internal/pkg/logger"
	"github.com/pvasilev/stockroom-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting stockroom catalog service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	// Create application context
	ctx := context.Background()

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.Database.RunMigrations {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			if cfg.IsProduction() {
				os.Exit(1)
			}
			// Don't exit in development, just warn
		}
	}

	// Warm the aggregate caches in the background
	warmCaches(deps.asynqClient, slogger)

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, appLogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Gracefully shutdown HTTP server
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	productService ports.ProductService
	productHandler *handlers.ProductHandler
	healthHandler  *handlers.HealthHandler
	exportHandler  *handlers.ExportHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize database connection
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Create Redis cache wrapper
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	// Initialize Asynq client for enqueueing refresh tasks
	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize repositories
	productRepo := db.NewProductRepository(database, logger)

	// Initialize services, wrapping the core service with the cache decorator
	baseService := services.NewProductService(productRepo, logger)
	deps.productService = services.NewCachedProductService(baseService, deps.redisCache, cfg.Redis.TTL, logger)

	// Initialize handlers
	deps.productHandler = handlers.NewProductHandler(deps.productService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)
	deps.exportHandler = handlers.NewExportHandler(productRepo, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(appLogger)(handler)
		handler = middleware.Recovery(appLogger.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps)

	// Create HTTP server
	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(appLogger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Product endpoints
	mux.HandleFunc("POST "+apiV1+"/products", deps.productHandler.CreateProduct)
	mux.HandleFunc("PATCH "+apiV1+"/products/{id}", deps.productHandler.UpdateProduct)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", deps.productHandler.DeleteProduct)
	mux.HandleFunc("POST "+apiV1+"/products/{id}/order/{amount}", deps.productHandler.OrderProduct)

	// Listing endpoints
	mux.HandleFunc("GET "+apiV1+"/products", deps.productHandler.ListProducts)
	mux.HandleFunc("GET "+apiV1+"/products/all", deps.productHandler.ListAllByPage)
	mux.HandleFunc("POST "+apiV1+"/products/all", deps.productHandler.ListAllByPageWithSort)

	// Aggregate endpoints
	mux.HandleFunc("GET "+apiV1+"/products/count", deps.productHandler.CountProducts)
	mux.HandleFunc("GET "+apiV1+"/categories", deps.productHandler.GetCategories)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/xlsx", deps.exportHandler.ExportExcel)
}

// warmCaches enqueues refresh tasks so the worker repopulates the
// category and count caches shortly after startup.
func warmCaches(client *asynq.Client, logger *slog.Logger) {
	for _, task := range []*asynq.Task{
		workers.NewCategoryRefreshTask(),
		workers.NewCountRefreshTask(),
	} {
		if _, err := client.Enqueue(task); err != nil {
			logger.Warn("failed to enqueue cache warm-up task",
				slog.String("task", task.Type()),
				slog.String("error", err.Error()))
		}
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
