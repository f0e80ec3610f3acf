package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"business-app-server/internal/auth"
	"business-app-server/internal/config"
	"business-app-server/internal/logger"
	"business-app-server/internal/metrics"
	"business-app-server/internal/models"
	"business-app-server/internal/routes"
	"business-app-server/internal/seed"
)

func main() {
	runSeed := flag.Bool("seed", false, "seed the database and exit")
	flag.Parse()

	// Load environment variables; a missing .env file is fine in production.
	_ = godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog := logger.New(cfg.Environment)
	defer zlog.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		zlog.Fatalw("error connecting to database", "error", err)
	}

	if *runSeed {
		if err := seed.Run(db, zlog); err != nil {
			zlog.Fatalw("seed failed", "error", err)
		}
		return
	}

	store := auth.NewGormStore(db)
	authService := auth.NewService(store, store, store, cfg, zlog)

	// Reclaim storage from expired and revoked refresh tokens.
	if _, err := authService.PurgeExpired(context.Background()); err != nil {
		zlog.Warnw("ledger purge failed", "error", err)
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := authService.PurgeExpired(context.Background()); err != nil {
				zlog.Warnw("ledger purge failed", "error", err)
			}
		}
	}()

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Tenant-ID"}
	router.Use(cors.New(corsConfig))

	metrics.Init()
	router.Use(metrics.Instrument())

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, authService, zlog)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatalw("failed to start server", "error", err)
	}
}
