package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/controller"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	"github.com/mstavrou/epresent-backend/internal/cache"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/mstavrou/epresent-backend/internal/middleware"
	"github.com/mstavrou/epresent-backend/internal/notify"
	"github.com/mstavrou/epresent-backend/internal/router"
	"github.com/mstavrou/epresent-backend/internal/scheduler"
	"github.com/mstavrou/epresent-backend/internal/selection"
	"github.com/mstavrou/epresent-backend/internal/storage"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
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

	logger.Info("Starting ePresent Backend Server", map[string]interface{}{
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

	// Seed the admin account (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional; without it the catalog skips caching
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.Connect(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	catalogCache := cache.NewCatalogCache(redisClient)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	enquiryRepo := repository.NewEnquiryRepository(db.GetDB())

	// Notification hub for the admin enquiry stream
	hub := notify.NewHub()
	go hub.Run()

	// Selection persistence
	selectionStore := selection.NewStore(cfg.Selection.DataDir)
	selectionManager := selection.NewManager(selectionStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo, catalogCache)
	productService := service.NewProductService(productRepo, categoryService)
	selectionService := service.NewSelectionService(selectionManager, productService)
	enquiryService := service.NewEnquiryService(enquiryRepo, hub)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	productMediaController := controller.NewProductMediaController(productService)
	selectionController := controller.NewSelectionController(selectionService, cfg.Selection.CookieName)
	enquiryController := controller.NewEnquiryController(enquiryService, hub)
	uploadController := controller.NewUploadController(storage.NewImageStorage(&cfg.S3))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Retention scheduler
	enquiryScheduler := scheduler.NewEnquiryScheduler(enquiryService, &cfg.Enquiry)
	if err := enquiryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start enquiry scheduler", err)
	}
	defer enquiryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		productMediaController,
		selectionController,
		enquiryController,
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
