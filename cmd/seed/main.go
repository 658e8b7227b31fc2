package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bingo-sales-platform/internal/config"
	"bingo-sales-platform/internal/database"
	"bingo-sales-platform/internal/logging"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/repositories"
	"bingo-sales-platform/internal/services"
)

func main() {
	fmt.Println("Seeding demo events, sellers and orders")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger := logging.Must(cfg.Log.Level, "console")

	db, err := database.NewConnection(database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	eventRepo := repositories.NewEventRepository(db.DB)
	sellerRepo := repositories.NewSellerRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)

	// Everything goes through the services so seeded data obeys the same rules as the API
	eventService := services.NewEventService(eventRepo, orderRepo, logger)
	sellerService := services.NewSellerService(sellerRepo, orderRepo, logger)
	inventory := services.NewInventoryService(eventRepo, sellerRepo, orderRepo, 0, logger)

	ctx := context.Background()
	eventDate := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour).Add(20 * time.Hour)

	events := []models.EventCreateRequest{
		{OwnerID: 1, Name: "Parish Christmas Bingo", RangeStart: 1, RangeEnd: 500, CardCount: 500, Price: "5.00", EventDate: eventDate},
		{OwnerID: 1, Name: "School Fair Bingo", RangeStart: 1001, RangeEnd: 1200, CardCount: 200, Price: "2.50", EventDate: eventDate.AddDate(0, 1, 0)},
	}
	sellers := []models.SellerCreateRequest{
		{OwnerID: 1, Name: "Ana Souza", Email: "ana@example.com", Phone: "555-0101"},
		{OwnerID: 1, Name: "Bruno Lima", Email: "bruno@example.com", Phone: "555-0102"},
		{OwnerID: 1, Name: "Carla Dias", Email: "carla@example.com"},
	}

	var createdEvents []*models.Event
	for i := range events {
		event, err := eventService.CreateEvent(ctx, &events[i])
		if err != nil {
			log.Fatalf("Failed to create event %q: %v", events[i].Name, err)
		}
		createdEvents = append(createdEvents, event)
		fmt.Printf("Created event %d: %s (cards %d-%d at %s)\n",
			event.ID, event.Name, event.RangeStart, event.RangeEnd, models.FormatCents(event.PriceCents))
	}

	var createdSellers []*models.Seller
	for i := range sellers {
		seller, err := sellerService.CreateSeller(ctx, &sellers[i])
		if err != nil {
			log.Fatalf("Failed to create seller %q: %v", sellers[i].Name, err)
		}
		createdSellers = append(createdSellers, seller)
		fmt.Printf("Created seller %d: %s\n", seller.ID, seller.Name)
	}

	// Each of the first two sellers takes a block of the first event, sells part of it and returns a few
	campaign := createdEvents[0]
	for i, seller := range createdSellers[:2] {
		order, err := inventory.CreateOrder(ctx, &models.OrderCreateRequest{EventID: campaign.ID, SellerID: seller.ID, QuantityRequested: 50})
		if err != nil {
			log.Fatalf("Failed to create order: %v", err)
		}

		start := campaign.RangeStart + i*50
		if _, err := inventory.Withdraw(ctx, order.ID, models.CardRange(start, start+49)); err != nil {
			log.Fatalf("Failed to withdraw cards: %v", err)
		}
		if _, err := inventory.Sell(ctx, order.ID, models.CardRange(start, start+29-i*10)); err != nil {
			log.Fatalf("Failed to sell cards: %v", err)
		}
		if _, err := inventory.Return(ctx, order.ID, models.CardRange(start+45, start+49)); err != nil {
			log.Fatalf("Failed to return cards: %v", err)
		}
		fmt.Printf("Order %d for %s: 50 withdrawn, %d sold, 5 returned\n", order.ID, seller.Name, 30-i*10)
	}

	fmt.Println("Seeding complete")
}
