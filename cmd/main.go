package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/adapters/mongo"
	"github.com/rasoomlabs/rasoom/domain/repositories"
	"github.com/rasoomlabs/rasoom/internal/api"
	"github.com/rasoomlabs/rasoom/internal/perf"
	"github.com/rasoomlabs/rasoom/internal/websocket"
	"github.com/rasoomlabs/rasoom/repository"
	"github.com/rasoomlabs/rasoom/usecase"
)

func main() {
	// Load .env if present; environment variables win
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Message archive: MongoDB when configured, in-memory otherwise
	var messageRepo repositories.MessageRepository
	if os.Getenv("MONGODB_URI") != "" {
		client, err := mongo.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(ctx)
		}()
		messageRepo = mongo.NewMessageRepository(client.Database)
	} else {
		logger.Info("MONGODB_URI not set, using in-memory message archive")
		messageRepo = repository.NewMemoryMessageRepository()
	}

	// Initialize usecase services
	codec := usecase.NewCodec(logger)
	monitor := perf.NewMonitor()
	service := usecase.NewMessageService(codec, messageRepo, nil, monitor, logger)

	// Initialize WebSocket hub and wire it in as the message dispatcher
	hub := websocket.NewHub(service, logger)
	service.SetDispatcher(hub)
	go hub.Run()

	// Initialize API routes
	api.InitRoutes(e, hub, service, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Rasoom hub started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
