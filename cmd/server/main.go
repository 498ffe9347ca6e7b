package main

import (
	"log"
	"time"

	"labstore/internal/config"
	"labstore/internal/database"
	"labstore/internal/handlers"
	"labstore/internal/migrations"
	"labstore/internal/redis"
	"labstore/internal/repository"
	"labstore/internal/services"
	"labstore/pkg/notify"
	"labstore/pkg/square"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize external clients
	notifyClient := notify.NewClient(cfg.NotifyAPIURL, cfg.NotifyAPIKey)
	squareClient := square.NewClient(cfg.SquareAPIURL, cfg.SquareAccessToken, cfg.SquareLocationID)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	contactRepo := repository.NewContactRepository(db)
	cartRepo := repository.NewAbandonedCartRepository(db)
	shippingRepo := repository.NewShippingRateRepository(db)
	inventoryLogRepo := repository.NewInventoryLogRepository(db)

	// Initialize services
	mailer := services.NewMailerService(notifyClient, cfg.OwnerEmail)
	userService := services.NewUserService(userRepo, cfg.JWTSecret)
	catalogService := services.NewCatalogService(productRepo, redisClient, time.Duration(cfg.CatalogCacheTTL)*time.Second)
	orderService := services.NewOrderService(orderRepo, productRepo, shippingRepo, cartRepo, mailer, redisClient, cfg.BitcoinAddress)
	paymentService := services.NewPaymentService(orderRepo, squareClient, cfg.BitcoinAddress)
	inventoryService := services.NewInventoryService(productRepo, inventoryLogRepo, mailer, redisClient)
	contactService := services.NewContactService(contactRepo)
	recoveryService := services.NewRecoveryService(cartRepo, mailer, redisClient, cfg.FrontendURL,
		time.Duration(cfg.RecoveryMinAge)*time.Second)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	contactHandler := handlers.NewContactHandler(contactService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	shippingHandler := handlers.NewShippingHandler(shippingRepo)
	cartHandler := handlers.NewCartHandler(recoveryService)

	// Background abandoned-cart recovery job
	go func() {
		interval := time.Duration(cfg.RecoveryScanInterval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := recoveryService.ProcessRecovery(); err != nil {
				log.Printf("Recovery job failed: %v", err)
			}
		}
	}()

	// Setup routes
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Public storefront endpoints
		api.POST("/auth/login", authHandler.Login)
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/shipping/rates", shippingHandler.GetRates)
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:orderNumber", orderHandler.GetByOrderNumber)
		api.POST("/orders/payment", orderHandler.ProcessPayment)
		api.POST("/contact", contactHandler.Submit)
		api.POST("/checkout/track", cartHandler.Track)
		api.GET("/checkout/cart", cartHandler.GetOpenCart)
	}

	// Admin back-office endpoints
	admin := router.Group("/api/admin", handlers.Authenticate(cfg.JWTSecret), handlers.RequireAdmin)
	{
		admin.GET("/me", authHandler.Me)

		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)

		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/export", orderHandler.ExportCSV)
		admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		admin.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)

		admin.GET("/contacts", contactHandler.List)
		admin.GET("/contacts/export", contactHandler.ExportCSV)
		admin.PUT("/contacts/:id/status", contactHandler.UpdateStatus)

		admin.PUT("/inventory/stock", inventoryHandler.UpdateStock)
		admin.PUT("/inventory/threshold", inventoryHandler.UpdateThreshold)
		admin.GET("/inventory/low-stock", inventoryHandler.GetLowStock)
		admin.GET("/inventory/history/:id", inventoryHandler.GetStockHistory)

		admin.POST("/abandoned-carts/recover", cartHandler.TriggerRecovery)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
