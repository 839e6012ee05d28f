// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/listing-intake/internal/config"
	"github.com/javajoker/listing-intake/internal/database"
	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/logger"
	"github.com/javajoker/listing-intake/internal/metrics"
	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/router"
	"github.com/javajoker/listing-intake/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	// Initialize storage
	var repo repository.ListingRepository
	switch cfg.Database.Driver {
	case "memory":
		logrus.Warn("Using in-memory listing store; data is lost on restart")
		repo = repository.NewMemoryListingRepository()
	default:
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(db); err != nil {
				logrus.Fatal("Failed to run migrations: ", err)
			}
		}
		repo = repository.NewGormListingRepository(db)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := services.NewBlobStore(initCtx, cfg.Storage)
	cancelInit()
	if err != nil {
		logrus.Fatal("Failed to initialize blob store: ", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(cfg, repo, store, metrics.New())

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
		return
	}

	logrus.Info("Server exited")
}
