package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bingo-sales-platform/internal/handlers"
	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

// Dependencies are the services and settings the HTTP surface is built from
type Dependencies struct {
	Events    services.EventServiceInterface
	Sellers   services.SellerServiceInterface
	Inventory services.InventoryServiceInterface
	Reports   services.ReportServiceInterface
	Auth      services.AuthServiceInterface

	// Health is nil when the in-memory store is serving
	Health handlers.HealthChecker

	// RateLimiter limits card mutations per caller; nil disables it
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires every API route
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	eventHandler := handlers.NewEventHandler(deps.Events, deps.Inventory, logger)
	sellerHandler := handlers.NewSellerHandler(deps.Sellers, logger)
	orderHandler := handlers.NewOrderHandler(deps.Inventory, logger)
	reportHandler := handlers.NewReportHandler(deps.Reports, logger)
	healthHandler := handlers.NewHealthHandler(deps.Health, logger)
	auth := middleware.NewAuthMiddleware(deps.Auth, logger)

	adminOnly := auth.RequireRole(models.UserRoleAdmin)
	anyRole := auth.RequireRole(models.UserRoleAdmin, models.UserRoleSeller)
	limited := middleware.RateLimit(deps.RateLimiter)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(deps.AllowedOrigins)))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/healthz", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(anyRole)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.With(adminOnly).Post("/", eventHandler.CreateEvent)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Get("/cards/available", eventHandler.AvailableCards)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Put("/", eventHandler.UpdateEvent)
					r.Post("/activate", eventHandler.ActivateEvent)
					r.Post("/deactivate", eventHandler.DeactivateEvent)
					r.Get("/stock", reportHandler.EventStock)
					r.Get("/financials", reportHandler.EventFinancials)
					r.Get("/ranking", reportHandler.EventRanking)
				})
			})
		})

		r.Route("/sellers", func(r chi.Router) {
			r.With(adminOnly).Get("/", sellerHandler.ListSellers)
			r.With(adminOnly).Post("/", sellerHandler.CreateSeller)

			r.Route("/{sellerID}", func(r chi.Router) {
				// Sellers reach these for their own record only
				r.Get("/", sellerHandler.GetSeller)
				r.Get("/performance", reportHandler.SellerPerformance)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Put("/", sellerHandler.UpdateSeller)
					r.Post("/activate", sellerHandler.ActivateSeller)
					r.Post("/deactivate", sellerHandler.DeactivateSeller)
				})
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.With(adminOnly).Post("/", orderHandler.CreateOrder)

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.With(adminOnly).Delete("/", orderHandler.DeleteOrder)
				r.With(adminOnly).Post("/status", orderHandler.UpdateStatus)

				r.Group(func(r chi.Router) {
					r.Use(limited)
					r.Post("/withdraw", orderHandler.Withdraw)
					r.Post("/sell", orderHandler.Sell)
					r.Post("/return", orderHandler.Return)
				})
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/overview", reportHandler.Overview)
			r.Get("/ranking", reportHandler.Ranking)
		})
	})

	return r
}
