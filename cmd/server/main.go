package main

import (
	"log"
	"time"

	"store_manager/internal/cache"
	"store_manager/internal/config"
	"store_manager/internal/database"
	"store_manager/internal/handlers"
	"store_manager/internal/migrations"
	"store_manager/internal/repository"
	"store_manager/internal/services"
	"store_manager/pkg/courier"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Redis
	statsCache, err := cache.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer statsCache.Close()

	// Courier integration (simulated)
	courierClient := courier.NewSimulatedClient(cfg.CourierLabelBaseURL)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	itemRepo := repository.NewOrderItemRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	followUpRepo := repository.NewFollowUpRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	statsTTL := time.Duration(cfg.StatsCacheTTL) * time.Second
	identityService := services.NewIdentityService(customerRepo, logger)
	orderService := services.NewOrderService(
		orderRepo, itemRepo, productRepo, inventoryRepo, customerRepo, settingsRepo,
		identityService, courierClient, statsCache, statsTTL, logger,
	)
	riskService := services.NewRiskService(orderRepo)
	followUpService := services.NewFollowUpService(followUpRepo, statsCache, statsTTL, cfg.FollowupRecurringDays, logger)
	inventoryService := services.NewInventoryService(inventoryRepo, productRepo, logger)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, riskService)
	followUpHandler := handlers.NewFollowUpHandler(followUpService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
		api.GET("/orders/stats", orderHandler.Stats)
		api.GET("/orders/track", orderHandler.Track)
		api.GET("/orders/:id", orderHandler.Get)
		api.POST("/orders/:id/ship", orderHandler.Ship)
		api.POST("/orders/:id/cancel", orderHandler.Cancel)
		api.POST("/orders/:id/resolve-return", orderHandler.ResolveReturn)
		api.POST("/orders/:id/logs", orderHandler.AddLog)
		api.PUT("/orders/:id/items", orderHandler.UpdateItems)

		api.GET("/followups", followUpHandler.List)
		api.POST("/followups", followUpHandler.Create)
		api.GET("/followups/pending", followUpHandler.Pending)
		api.GET("/followups/recurring", followUpHandler.Recurring)
		api.GET("/followups/stats", followUpHandler.Stats)

		api.POST("/inventory/adjust", inventoryHandler.Adjust)
		api.GET("/inventory/:product_id/history", inventoryHandler.History)
		api.GET("/inventory/:product_id/reconcile", inventoryHandler.Reconcile)
		api.POST("/purchase-orders/:id/receive", inventoryHandler.ReceivePurchaseOrder)

		api.GET("/settings/payments", settingsHandler.GetPaymentSettings)
		api.PUT("/settings/payments", settingsHandler.UpdatePaymentSettings)
		api.GET("/payment-methods", settingsHandler.ListPaymentMethods)
		api.POST("/payment-methods", settingsHandler.CreatePaymentMethod)
		api.PUT("/payment-methods/:id", settingsHandler.UpdatePaymentMethod)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
