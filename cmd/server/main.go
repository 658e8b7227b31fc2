package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bingo-sales-platform/internal/config"
	"bingo-sales-platform/internal/database"
	"bingo-sales-platform/internal/handlers"
	"bingo-sales-platform/internal/logging"
	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/repositories"
	"bingo-sales-platform/internal/server"
	"bingo-sales-platform/internal/services"
)

// stores groups the repositories the services run on
type stores struct {
	events  services.EventRepository
	sellers services.SellerRepository
	orders  services.OrderRepository
	health  handlers.HealthChecker
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	st, closeStore := openStores(cfg, logger)
	defer closeStore()

	// Initialize services
	eventService := services.NewEventService(st.events, st.orders, logger)
	sellerService := services.NewSellerService(st.sellers, st.orders, logger)
	inventoryService := services.NewInventoryService(st.events, st.sellers, st.orders, cfg.Inventory.MaxOpenOrdersPerSeller, logger)
	reportService := services.NewReportService(st.events, st.sellers, st.orders, logger)
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, time.Minute)
	}

	router := server.NewRouter(server.Dependencies{
		Events:         eventService,
		Sellers:        sellerService,
		Inventory:      inventoryService,
		Reports:        reportService,
		Auth:           authService,
		Health:         st.health,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if limiter != nil {
		go pruneLimiter(ctx, limiter)
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStores connects to Postgres, falling back to the in-memory store when
// the database is unreachable
func openStores(cfg *config.Config, logger *zap.Logger) (stores, func()) {
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Warn("database unavailable, serving from memory; data will not survive a restart", zap.Error(err))
		mem := repositories.NewMemoryStore()
		return stores{events: mem.Events, sellers: mem.Sellers, orders: mem.Orders}, func() {}
	}

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	return stores{
			events:  repositories.NewEventRepository(db.DB),
			sellers: repositories.NewSellerRepository(db.DB),
			orders:  repositories.NewOrderRepository(db.DB),
			health:  db,
		}, func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close database", zap.Error(err))
			}
		}
}

func pruneLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune()
		}
	}
}
