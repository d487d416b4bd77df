package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiftnote-backend/config"
	"shiftnote-backend/database"
	"shiftnote-backend/firebase"
	"shiftnote-backend/invitation"
	"shiftnote-backend/logger"
	"shiftnote-backend/middleware"
	"shiftnote-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("error loading .env file")
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal().Err(err).Msg("environment validation failed")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	appLogger := logger.Init(cfg.LogLevel, cfg.LogPretty)

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Create default admin user if not exists
	if err := database.CreateDefaultAdmin(db, cfg.AdminName, cfg.AdminPassword); err != nil {
		log.Warn().Err(err).Msg("could not create default admin")
	}

	registry, err := invitation.NewRegistry(db, cfg.BossRegistrationCode)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create invitation registry")
	}
	defer registry.Close()

	// Notices still work without images when storage is unavailable
	var storage firebase.StorageClient
	storageClient, err := firebase.Init(context.Background(), config.GetEnv("GOOGLE_APPLICATION_CREDENTIALS", ""), cfg.StorageBucket)
	if err != nil {
		log.Warn().Err(err).Msg("firebase storage unavailable, notice images disabled")
	} else {
		storage = storageClient
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(promReg, "shiftnote")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog(appLogger), metrics.Middleware())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	origins := []string{cfg.FrontendURL}
	if cfg.FrontendURL == "" {
		origins = []string{"http://localhost:3000"}
		log.Warn().Msg("no CORS origin configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Setup routes
	limiter := routes.SetupRoutes(r, routes.Options{
		DB:          db,
		Registry:    registry,
		Storage:     storage,
		DefaultWage: cfg.DefaultHourlyWage,
		FrontendURL: cfg.FrontendURL,
		Metrics:     metrics,
		Gatherer:    promReg,
	})
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connection")
		} else {
			log.Info().Msg("database connection closed")
		}
	}

	log.Info().Msg("server exited gracefully")
}
