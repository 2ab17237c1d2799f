package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"notify-hub/internal/config"
	"notify-hub/internal/handler"
	"notify-hub/internal/middleware"
	"notify-hub/internal/presence"
	"notify-hub/internal/repository"
	"notify-hub/internal/service"
	"notify-hub/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (caching disabled)", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	registry := presence.NewRegistry()
	hub := ws.NewHub(registry)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, registry, hub, redisClient, cfg)
	handlers := handler.NewHandlers(services, repos)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go services.Stimulus.Run(schedulerCtx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, hub)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, hub *ws.Hub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Serve))

	v1 := app.Group("/api/v1")

	v1.Post("/notifications", h.Publish.Publish)

	users := v1.Group("/users/:userId")
	users.Get("/notifications", h.Notification.List)
	users.Get("/notifications/unseen-count", h.Notification.UnseenCount)
	users.Post("/notifications/acknowledge", h.Notification.Acknowledge)
	users.Delete("/notifications", h.Notification.Clear)
	users.Put("/contact", h.Recipient.SetContact)
}
