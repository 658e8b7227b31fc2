package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"bingo-sales-platform/internal/config"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

func main() {
	var (
		role     = flag.String("role", "admin", "Token role: admin or seller")
		sellerID = flag.Int64("seller", 0, "Seller id, required for seller tokens")
		subject  = flag.String("sub", "", "Token subject, defaults to the role")
		ttl      = flag.Duration("ttl", 0, "Token lifetime, defaults to JWT_TTL")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	user := &models.User{
		Subject:  *subject,
		Role:     models.UserRole(*role),
		SellerID: *sellerID,
	}

	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, lifetime)
	token, err := authService.IssueToken(user)
	if err != nil {
		log.Fatal("Failed to issue token:", err)
	}

	fmt.Println(token)
	log.Printf("Issued %s token, expires %s", user.Role, time.Now().Add(lifetime).Format(time.RFC3339))
}
