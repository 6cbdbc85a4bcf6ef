package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ttmai/velora-backend/config"
	"github.com/ttmai/velora-backend/internal/app/controller"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/internal/app/service"
	"github.com/ttmai/velora-backend/internal/db"
	"github.com/ttmai/velora-backend/internal/middleware"
	"github.com/ttmai/velora-backend/internal/router"
	"github.com/ttmai/velora-backend/internal/scheduler"
	"github.com/ttmai/velora-backend/internal/storage"
	"github.com/ttmai/velora-backend/pkg/logger"
	"github.com/ttmai/velora-backend/pkg/mailer"
	"github.com/ttmai/velora-backend/pkg/payment/card"
	"github.com/ttmai/velora-backend/pkg/payment/vnpay"
	"github.com/ttmai/velora-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting VELORA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (token blacklist and payment callback claims)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize payment gateways
	vnpayClient, err := vnpay.NewClient(vnpay.Config{
		TmnCode:    cfg.Payment.VNPay.TmnCode,
		HashSecret: cfg.Payment.VNPay.HashSecret,
		PayURL:     cfg.Payment.VNPay.PayURL,
		ReturnURL:  cfg.Payment.VNPay.ReturnURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize VNPay client", err)
	}

	cardClient, err := card.NewClient(card.Config{
		BaseURL:   cfg.Payment.Card.BaseURL,
		SecretKey: cfg.Payment.Card.SecretKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize card gateway client", err)
	}

	// Initialize S3 storage for product image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	receiptSender := mailer.NewSMTPSender(cfg.SMTP)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	warehouseRepo := repository.NewWarehouseRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())
	purchaseLogRepo := repository.NewPurchaseLogRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	intentRepo := repository.NewPaymentIntentRepository(db.GetDB())
	feedbackRepo := repository.NewFeedbackRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	stockService := service.NewStockService(db.GetDB())
	productService := service.NewProductService(
		productRepo,
		variantRepo,
		categoryRepo,
		cartRepo,
		purchaseLogRepo,
	)
	warehouseService := service.NewWarehouseService(warehouseRepo)
	inventoryService := service.NewInventoryService(
		inventoryRepo,
		productRepo,
		warehouseRepo,
		purchaseLogRepo,
		db.GetDB(),
	)
	purchaseLogService := service.NewPurchaseLogService(purchaseLogRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, stockService)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		orderRepo,
		cardClient,
		receiptSender,
		db.GetDB(),
	)
	orderService := service.NewOrderService(orderRepo, stockService, db.GetDB())
	paymentService := service.NewPaymentService(
		intentRepo,
		userRepo,
		checkoutService,
		vnpayClient,
	)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, stockService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, checkoutService)
	warehouseController := controller.NewWarehouseController(warehouseService, inventoryService)
	purchaseController := controller.NewPurchaseController(purchaseLogService)
	paymentController := controller.NewPaymentController(paymentService, authService)
	feedbackController := controller.NewFeedbackController(feedbackService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the nightly reconciliation job
	reconcileScheduler := scheduler.NewReconcileScheduler(inventoryService, purchaseLogService)
	if err := reconcileScheduler.Start(); err != nil {
		logger.Fatal("Failed to start reconciliation scheduler", err)
	}
	defer reconcileScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		warehouseController,
		purchaseController,
		paymentController,
		feedbackController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
