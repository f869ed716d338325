package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/config"
	"tagdo/tagdo/database"
	"tagdo/tagdo/middleware"
	"tagdo/tagdo/routes"
	"tagdo/tagdo/services"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	configureLogging(cfg)

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "err", err)
	}
	defer db.Close()

	producer, consumer, closeBroker := setupBroker(cfg)
	defer closeBroker()

	webSocketService := services.NewWebSocketService(consumer)
	webSocketService.Start()
	defer webSocketService.Stop()

	eventHandlerService := services.NewEventHandlerService(db, producer, cfg.EventPollInterval)
	eventHandlerService.Start()
	defer eventHandlerService.Stop()

	if cfg.SeedPreview {
		tasks, err := services.SeedServiceInstance.SeedPreview(db, time.Now().UTC(), false)
		if err != nil {
			log.Error("Failed to seed preview tasks", "err", err)
		} else if len(tasks) > 0 {
			log.Info("Seeded preview tasks", "count", len(tasks))
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api/v1")
	routes.RegisterHealthRoutes(api, db)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.AuthSecret))
	routes.RegisterTaskRoutes(protected, db, services.TaskServiceInstance)
	routes.RegisterTagRoutes(protected, db, services.TagServiceInstance)
	routes.RegisterSeedRoutes(protected, db, services.SeedServiceInstance)
	routes.RegisterWebSocketRoutes(protected, webSocketService)
	routes.RegisterDebugRoutes(protected, db, webSocketService)
	if cfg.AuthSecret == "" {
		log.Warn("AUTH_SECRET is empty, API is unauthenticated")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Info("API server is running", "port", cfg.AppPort, "env", cfg.AppEnv, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "err", err)
	}
}

func configureLogging(cfg config.Config) {
	log.SetReportTimestamp(true)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("Unknown LOG_LEVEL, using info", "value", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// setupBroker connects to NATS when configured and falls back to the
// in-process bus otherwise.
func setupBroker(cfg config.Config) (broker.Producer, broker.Consumer, func()) {
	if cfg.NatsURL != "" {
		producer, consumer, err := connectNats(cfg.NatsURL)
		if err == nil {
			return producer, consumer, func() {
				consumer.Close()
				producer.Close()
			}
		}
		log.Warn("NATS unavailable, using in-process event bus", "url", cfg.NatsURL, "err", err)
	}

	bus := broker.NewMemoryBus()
	consumer := bus.Subscribe(broker.AllTopics, 256)
	return bus, consumer, func() {
		consumer.Close()
		bus.Close()
	}
}

func connectNats(url string) (*broker.NatsProducer, *broker.NatsConsumer, error) {
	conn, err := broker.Connect(url)
	if err != nil {
		return nil, nil, err
	}
	// Every server instance needs the full feed, so no queue group.
	consumer, err := broker.NewNatsConsumer(conn, broker.AllTopics, "")
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return broker.NewNatsProducer(conn), consumer, nil
}
