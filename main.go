package main

import (
	"log"

	"github.com/JohnShema/BE-Capstone-project/config"
	"github.com/JohnShema/BE-Capstone-project/internal/consumer"
	"github.com/JohnShema/BE-Capstone-project/internal/handler"
	"github.com/JohnShema/BE-Capstone-project/internal/middleware"
	"github.com/JohnShema/BE-Capstone-project/internal/repository"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/JohnShema/BE-Capstone-project/pkg/database"
	"github.com/JohnShema/BE-Capstone-project/pkg/rabbitmq"
	"github.com/JohnShema/BE-Capstone-project/pkg/token"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const notificationQueue = "notifications.registrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ is optional: registration still works without the broker,
	// lifecycle messages and notifications are just skipped
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Printf("[RabbitMQ] unavailable, lifecycle messages disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, notificationQueue, "registration.*")
		if err != nil {
			log.Fatalf("failed to set up RabbitMQ consumer: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewNotificationConsumer(db).Start(msgs)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	// Services
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authSvc := service.NewAuthService(userRepo, tokens)
	eventSvc := service.NewEventService(eventRepo, registrationRepo, publisher)
	registrationSvc := service.NewRegistrationService(registrationRepo, eventRepo, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "event-registration-api"})
	})

	requireAuth := middleware.RequireAuth(tokens)
	handler.NewAuthHandler(authSvc).RegisterRoutes(e)
	handler.NewEventHandler(eventSvc).RegisterRoutes(e, requireAuth)
	handler.NewRegistrationHandler(registrationSvc).RegisterRoutes(e, requireAuth)

	log.Printf("Event Registration API starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
