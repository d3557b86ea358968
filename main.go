package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"medbook-server/internal/config"
	"medbook-server/internal/jobs"
	"medbook-server/internal/models"
	"medbook-server/internal/routes"
	"medbook-server/internal/scheduling"
)

func main() {
	// Load environment variables; a missing .env file is fine in
	// containerized deployments
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	// Open the database; the handle is passed explicitly to every
	// component and closed on shutdown
	db, err := models.OpenDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := models.CloseDB(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	scheduler := scheduling.NewScheduler(db, log)

	// Background jobs
	runner := jobs.NewRunner(db, log)
	if err := runner.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start background jobs")
	}
	defer runner.Stop()

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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, cfg, scheduler, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log
}
