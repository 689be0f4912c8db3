package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/shopmetrics/internal/adapter/api"
	"github.com/V4T54L/shopmetrics/internal/adapter/api/handler"
	"github.com/V4T54L/shopmetrics/internal/adapter/api/middleware"
	"github.com/V4T54L/shopmetrics/internal/adapter/metrics"
	"github.com/V4T54L/shopmetrics/internal/adapter/repository/postgres"
	redisrepo "github.com/V4T54L/shopmetrics/internal/adapter/repository/redis"
	"github.com/V4T54L/shopmetrics/internal/adapter/shopify"
	"github.com/V4T54L/shopmetrics/internal/pkg/config"
	"github.com/V4T54L/shopmetrics/internal/pkg/logger"
	"github.com/V4T54L/shopmetrics/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewIngestionMetrics()

	// --- Start Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database and Redis Connections ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("could not connect to redis, metrics reads will fall through to postgres", "error", err)
	}
	defer redisClient.Close()

	// --- Initialize Repositories and Adapters ---
	tenantRepo := postgres.NewTenantRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	cache := redisrepo.NewMetricsCache(redisClient, logger)
	shopClient := shopify.NewClient(cfg.ShopAPIVersion, cfg.UpstreamTimeout, cfg.UpstreamRPS, logger)

	// --- Initialize Use Cases ---
	resolver := usecase.NewTenantResolver(tenantRepo)
	reconciler := usecase.NewReconciler(customerRepo, orderRepo, productRepo, m, logger)
	syncService := usecase.NewSyncService(resolver, shopClient, reconciler, cache, m, logger)
	webhookService := usecase.NewWebhookService(tenantRepo, shopClient, reconciler, cache, m, cfg.RefreshTimeout, logger)
	metricsService := usecase.NewMetricsService(resolver, customerRepo, orderRepo, cache, cfg.CacheTTL, cfg.TopCustomersLimit, cfg.RecentOrdersLimit, m, logger)
	connectService := usecase.NewConnectService(tenantRepo, shopClient, cache, logger)

	// --- Initialize HTTP Server ---
	router := api.NewRouter(
		cfg.JWTSecret,
		logger,
		handler.NewIngestHandler(syncService, logger),
		handler.NewMetricsHandler(metricsService, logger),
		handler.NewWebhookHandler(webhookService, m, logger),
		handler.NewAdminHandler(connectService, logger),
	)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(logger)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Let in-flight customer refreshes finish before exiting.
	webhookService.Wait()

	logger.Info("servers shut down gracefully")
}
