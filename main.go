package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"greenbuild/internal/config"
	"greenbuild/internal/handlers"
	"greenbuild/internal/metrics"
	"greenbuild/internal/models"
	"greenbuild/internal/remote"
	"greenbuild/internal/repositories"
	"greenbuild/internal/services"
	"greenbuild/pkg/kafka"
	"greenbuild/pkg/rabbitmq"
)

func main() {
	cfg := config.Load(viper.New())

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer closePublisher()

	cartRepo, err := newCartRepository(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize cart storage: %v", err)
	}

	app, err := newApp(cfg, db, cartRepo, publisher)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

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

	// In-flight submissions finish before the process exits.
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects the local database holding carts, profiles, admin
// credentials and the fallback order rows.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.CartEntry{}, &models.Profile{}, &models.Admin{}, &models.StoreRow{})
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

func newCartRepository(cfg config.Config, db *gorm.DB) (repositories.CartRepository, error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Printf("Carts are kept in Redis at %s", cfg.RedisAddr)
		return repositories.NewRedisCartRepository(client, cfg.CartTTL), nil
	case "gorm", "":
		return repositories.NewGORMCartRepository(db), nil
	}
	return nil, fmt.Errorf("unsupported CART_BACKEND %q", cfg.CartBackend)
}

// newPublisher connects the configured broker. A nil publisher disables events.
func newPublisher(cfg config.Config) (services.EventPublisher, func(), error) {
	switch cfg.EventsBackend {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, nil, err
		}
		startAuditConsumer(client)
		return client, func() { client.Close() }, nil
	case "kafka":
		publisher := kafka.NewPublisher(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		return publisher, func() { publisher.Close() }, nil
	case "none", "":
		log.Println("Event publishing disabled")
		return nil, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported EVENTS_BACKEND %q", cfg.EventsBackend)
}

// startAuditConsumer logs every order event that reaches the audit queue.
func startAuditConsumer(client *rabbitmq.Client) {
	err := client.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		log.Printf("Order event %s: %s", msg.RoutingKey, string(msg.Body))
		return nil
	})
	if err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// newApp wires services and routes. publisher may be nil.
func newApp(cfg config.Config, db *gorm.DB, cartRepo repositories.CartRepository, publisher services.EventPublisher) (*fiber.App, error) {
	rowRepo := repositories.NewGORMRowRepository(db)
	localStore := remote.NewLocalStore(rowRepo, cfg.Location())

	var store remote.Store = localStore
	if cfg.StoreURL != "" {
		store = remote.NewHTTPStore(remote.StoreConfig{
			BaseURL:  cfg.StoreURL,
			Timeout:  cfg.StoreTimeout,
			Location: cfg.Location(),
		})
		log.Printf("Using remote order store at %s", cfg.StoreURL)
	} else {
		log.Println("No STORE_URL configured; orders are kept in the local database")
	}
	store = remote.WithMetrics(store)

	builder := services.NewOrderBuilder()
	cartService := services.NewCartService(cartRepo, repositories.NewGORMProfileRepository(db), builder)
	orderService := services.NewOrderService(store, cartService, builder, publisher)
	authService := services.NewAuthService(repositories.NewGORMAdminRepository(db), cfg.JWTSecret)

	if cfg.AdminSecret != "" {
		if err := authService.EnsureAdmin(cfg.AdminID, cfg.AdminSecret); err != nil {
			return nil, err
		}
	} else {
		log.Println("ADMIN_SECRET not set; only previously provisioned admins can log in")
	}

	app := fiber.New(fiber.Config{
		AppName:   "greenbuild",
		BodyLimit: 8 * 1024 * 1024, // image attachments travel inline
	})
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"store":     storeKind(cfg),
			"publisher": publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiV1 := app.Group("/api/v1")
	handlers.NewAdminHandler(authService, orderService, cfg.Location()).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, orderService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)

	if cfg.StoreEmbedded {
		handlers.NewStoreHandler(localStore).RegisterRoutes(app.Group("/store"))
		log.Println("Serving the order store contract under /store")
	}
	return app, nil
}

func storeKind(cfg config.Config) string {
	if cfg.StoreURL != "" {
		return "remote"
	}
	return "local"
}
