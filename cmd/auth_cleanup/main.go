package main

import (
	"log"
	"os"
	"time"

	"storefront/internal/database"
	"storefront/internal/domain"
)

// Clears expired refresh tokens off user rows. Expired tokens are already
// rejected at validation; this just keeps dead secrets out of the table.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	res := db.Model(&domain.User{}).
		Where("refresh_token IS NOT NULL AND refresh_token_expires_at <= ?", time.Now()).
		Updates(map[string]any{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		})
	if res.Error != nil {
		log.Fatalf("cleanup failed: %v", res.Error)
	}

	log.Printf("auth cleanup completed: users=%d", res.RowsAffected)
}
