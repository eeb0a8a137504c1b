package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mediashelf/mediashelf-backend/internal/api/routes"
	"github.com/mediashelf/mediashelf-backend/internal/config"
	"github.com/mediashelf/mediashelf-backend/internal/database"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Init(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	// Change notifications are optional
	var notifier services.Notifier = services.NopNotifier{}
	if cfg.RedisURL != "" {
		redisNotifier, err := services.NewRedisNotifier(cfg.RedisURL, cfg.NotifyChannel, cfg.NotifyTimeout)
		if err != nil {
			logger.Fatal("Failed to initialize change notifier: ", err)
		}
		defer redisNotifier.Close()
		notifier = redisNotifier
		logger.Info("Publishing changes on redis channel " + cfg.NotifyChannel)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, db, cfg, notifier)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: ", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server exited")
}
