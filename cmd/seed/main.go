package main

import (
	"log"
	"os"

	"storefront/internal/database"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "storefront.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&domain.User{}, &domain.UserClaim{}, &domain.Product{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM user_claims")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM users")

	log.Println("Creating admin user...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("Admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		ID:           uuid.NewString(),
		Email:        "admin@storefront.local",
		PasswordHash: string(adminHash),
		FirstName:    "Admin",
		LastName:     "User",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("admin create failed:", err)
	}
	if err := db.Create(&domain.UserClaim{
		UserID: admin.ID,
		Type:   domain.ClaimTypeRole,
		Value:  domain.RoleAdmin,
	}).Error; err != nil {
		log.Fatal("admin claim failed:", err)
	}

	log.Println("Creating products...")
	products := []domain.Product{
		{Name: "Hoodie", Color: "Black", ImageURL: "/images/hoodie-black.jpg", Description: "Heavyweight cotton hoodie", Price: 59.90},
		{Name: "Hoodie", Color: "Grey", ImageURL: "/images/hoodie-grey.jpg", Description: "Heavyweight cotton hoodie", Price: 59.90},
		{Name: "T-Shirt", Color: "White", ImageURL: "/images/tshirt-white.jpg", Description: "Classic crew neck", Price: 19.90},
		{Name: "Cap", Color: "Navy", ImageURL: "/images/cap-navy.jpg", Description: "Adjustable baseball cap", Price: 14.50},
		{Name: "Sneakers", Color: "Red", ImageURL: "/images/sneakers-red.jpg", Description: "Low-top canvas sneakers", Price: 74.00},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatal("product create failed:", err)
		}
	}

	log.Printf("Seed completed: 1 admin, %d products", len(products))
}
