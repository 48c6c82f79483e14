package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/modules/auth"
	"storefront/internal/modules/product"
	"storefront/internal/pkg/cache"
	"storefront/internal/pkg/google"
	jwtsvc "storefront/internal/pkg/jwt"
	"storefront/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.UserClaim{}, &domain.Product{}); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	codec := jwtsvc.NewCodec(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTTL)

	googleClient := google.NewClient(google.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		TokenURL:     cfg.Google.TokenURL,
		CertsURL:     cfg.Google.CertsURL,
		RedirectURI:  cfg.Google.RedirectURI,
	})

	var listCache product.ListCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		listCache = cache.New(client, "storefront:")
		log.Println("product cache enabled:", cfg.RedisAddr)
	}

	authService := auth.NewService(userRepo, codec, googleClient, auth.DefaultPasswordPolicy(), cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService, cfg.Cookie, cfg.RefreshTTL)

	productService := product.NewService(productRepo, listCache)
	productHandler := product.NewHandler(productService)

	r := gin.Default()
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)
		productHandler.RegisterPublicRoutes(api)

		admin := api.Group("/", middleware.RequireAuth(codec), middleware.AdminOnly())
		{
			authHandler.RegisterAdminRoutes(admin)
			productHandler.RegisterAdminRoutes(admin)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
