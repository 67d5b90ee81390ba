package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mercado/internal/config"
	"mercado/internal/handlers"
	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"
	"mercado/pkg/cache"
	"mercado/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Store{}, &models.Category{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Redis cache ---
	// The service degrades to plain database reads when Redis is down, so
	// a failed ping is a warning, not a startup failure.
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Printf("Warning: Redis at %s unreachable, top-seller caching degraded: %v", cfg.RedisAddr, err)
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)

	// --- Services ---
	storeService := services.NewStoreService(storeRepo)
	catalogService := services.NewCatalogService(productRepo, storeService, mqClient, cacheClient, cfg.PageSize, cfg.TopSellersTTL)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	storeHandler := handlers.NewStoreHandler(storeService, catalogService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	storeHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Purchase consumer ---
	// Purchase line items reported by the order side arrive over the
	// purchase queue and feed the sold-quantity aggregate.
	go func() {
		log.Println("Starting RabbitMQ consumer for purchases...")
		messageHandler := handlers.NewPurchaseMessageHandler(catalogService)
		if consumerErr := mqClient.ConsumePurchaseEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}()

	// --- HTTP server with graceful shutdown ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
