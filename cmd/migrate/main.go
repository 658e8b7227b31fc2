package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"bingo-sales-platform/internal/config"
	"bingo-sales-platform/internal/database"
	"bingo-sales-platform/internal/logging"
)

func main() {
	steps := flag.Int("steps", 1, "Number of migrations to roll back with down")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.Must(cfg.Log.Level, "console")

	// Connect to database
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db.DB, logger)
	if err != nil {
		log.Fatalf("Failed to prepare migrations: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("All migrations completed successfully!")
	case "down":
		if err := migrator.Down(*steps); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		fmt.Printf("Rolled back %d migration(s)\n", *steps)
	case "version", "status":
		status, err := migrator.Status()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		if !status.Applied {
			fmt.Println("No migrations applied")
			return
		}
		fmt.Printf("Schema version: %d (dirty: %t)\n", status.Version, status.Dirty)
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate up                # Run pending migrations")
		fmt.Println("  go run ./cmd/migrate -steps 1 down     # Roll back migrations")
		fmt.Println("  go run ./cmd/migrate version           # Show migration status")
		os.Exit(1)
	}
}
