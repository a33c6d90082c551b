package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gsousaaa/ecommerce-aws/internal/events"
	"github.com/gsousaaa/ecommerce-aws/internal/repository"
	"github.com/gsousaaa/ecommerce-aws/internal/service"
	transportHttp "github.com/gsousaaa/ecommerce-aws/internal/transport/http"
	"github.com/gsousaaa/ecommerce-aws/internal/transport/http/handler"
	transportKafka "github.com/gsousaaa/ecommerce-aws/internal/transport/kafka"
	"github.com/gsousaaa/ecommerce-aws/pkg/config"
	"github.com/gsousaaa/ecommerce-aws/pkg/db"
	"github.com/gsousaaa/ecommerce-aws/pkg/kafka"
	"github.com/gsousaaa/ecommerce-aws/pkg/kvstore"
	"github.com/gsousaaa/ecommerce-aws/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "ecommerce-service")
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("e-commerce service started!")

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating new postgres DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	store := kvstore.NewPostgresStore(pool, logger)

	producer, err := kafka.NewAsyncProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	productRepository := repository.NewProductRepository(store, logger)
	orderRepository := repository.NewOrderRepository(store, logger)

	publisher := events.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)

	catalogService := service.NewCatalogService(productRepository, publisher, logger)
	cachedCatalogService := service.NewCachedCatalogService(catalogService, rdb, cfg.Redis.CacheTTL)
	orderService := service.NewOrderService(orderRepository, productRepository, logger)

	recorder := events.NewRecorder(store, logger)
	consumer := transportKafka.NewConsumer(recorder, cfg.Kafka.EventsTopic, cfg.Kafka.GroupID, logger)

	reaper := kvstore.NewReaper(pool, []string{events.TableProductEvents}, cfg.Events.ReaperInterval, logger)
	go reaper.Start(ctx)

	app := fiber.New()

	app.Use(otelfiber.Middleware())
	app.Use(requestid.New())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.TTL,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		},
	}))

	handlers := &transportHttp.Handlers{
		Product: handler.NewProductHandler(cachedCatalogService, logger, cfg.HTTP.Timeout),
		Order:   handler.NewOrderHandler(orderService, logger, cfg.HTTP.Timeout),
	}

	transportHttp.RegisterRoutes(app, handlers)

	go func() {
		log.Println("HTTP e-commerce service listening on port: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening HTTP on port %v: %v", cfg.HTTP.Port, err)
		}
	}()

	consumer.Start(ctx, cfg.Kafka.Brokers)

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	} else {
		log.Println("Stopped HTTP server successfully")
	}

	if err := producer.Close(); err != nil {
		log.Printf("Error closing kafka producer: %v", err)
	}

	pool.Close()
	log.Println("Closed db pool successfully")

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping telemetry: %v\n", err)
	} else {
		log.Println("Telemetry closed correctly")
	}
}
