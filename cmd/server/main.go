package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mixtales/mixtales-backend/config"
	"github.com/mixtales/mixtales-backend/internal/app/controller"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/internal/app/service"
	"github.com/mixtales/mixtales-backend/internal/db"
	"github.com/mixtales/mixtales-backend/internal/middleware"
	"github.com/mixtales/mixtales-backend/internal/router"
	"github.com/mixtales/mixtales-backend/internal/scheduler"
	"github.com/mixtales/mixtales-backend/internal/storage"
	"github.com/mixtales/mixtales-backend/pkg/identity"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"github.com/mixtales/mixtales-backend/pkg/payment/stripe"
	"github.com/mixtales/mixtales-backend/pkg/redis"
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

	logger.Info("Starting MixTales Backend Server", map[string]interface{}{
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

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (token cache + rate limiting)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token caching and rate limiting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize external clients
	identityClient, err := identity.NewClient(identity.Config{
		BaseURL:    cfg.Identity.BaseURL,
		ServiceKey: cfg.Identity.ServiceKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize identity provider client", err)
	}

	stripeClient, err := stripe.NewClient(stripe.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
		BaseURL:       cfg.Stripe.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(profileRepo, identityClient)
	productService := service.NewProductService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo)
	paymentService := service.NewPaymentService(orderRepo, stripeClient)
	adminService := service.NewAdminService(orderRepo, productRepo, profileRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(paymentService, stripeClient)
	adminController := controller.NewAdminController(adminService, productService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(identityClient, profileRepo, cfg.Identity.TokenCacheTTL)

	// Start the stale order sweep
	orderScheduler := scheduler.NewOrderScheduler(orderRepo, cfg.Orders.PendingExpiry)
	if err := orderScheduler.Start(); err != nil {
		logger.Fatal("Failed to start order scheduler", err)
	}
	defer orderScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		paymentController,
		adminController,
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
