package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lectorio/lectorio/internal/auth"
	"github.com/lectorio/lectorio/internal/health"
	"github.com/lectorio/lectorio/internal/ledger"
	"github.com/lectorio/lectorio/internal/metrics"
	"github.com/lectorio/lectorio/internal/series"
	"github.com/lectorio/lectorio/internal/user"
	"github.com/lectorio/lectorio/pkg/config"
	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/stats"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	// Initialize logger
	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	cfg := config.LoadAppConfig()

	if err := database.InitDatabase(cfg.DBPath); err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", cfg.DBPath)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "your-secret-key-change-this-in-production"
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET environment variable in production!")
	}
	if cfg.CronSecret == "" {
		log.Warn("cron_secret_not_set", "message", "CRON_API_SECRET_KEY unset, /metrics/recompute-ranking will reject all calls")
	}

	// Initialize handlers
	authHandler := auth.NewHandler(cfg.JWTSecret)
	seriesHandler := series.NewHandler()
	userHandler := user.NewHandler()
	healthHandler := health.NewHandler()
	metricsHandler := metrics.NewHandler(
		ledger.NewVoteLedger(),
		ledger.NewViewLedger(),
		ledger.NewRankingAggregator(cfg.ViewWeight, cfg.RankingBatchSize),
	)

	// Setup Gin router
	router := gin.Default()

	// CORS middleware configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health and operational stats endpoints
	router.GET("/health", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/stats", stats.NewHandler().Stats)

	// Auth routes (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Series routes (public reads, protected writes)
	seriesGroup := router.Group("/series")
	{
		seriesGroup.GET("", seriesHandler.ListSeries)
		seriesGroup.GET("/:id", seriesHandler.GetSeries)
		seriesGroup.GET("/:id/chapters", seriesHandler.ListChapters)
		seriesGroup.GET("/:id/chapters/:chapter_id", seriesHandler.GetChapter)

		protected := seriesGroup.Group("")
		protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			protected.POST("", seriesHandler.CreateSeries)
			protected.POST("/:id/chapters", seriesHandler.CreateChapter)
		}
	}

	// Ranking read side (public)
	router.GET("/rankings", seriesHandler.GetRankings)

	// Metrics routes: vote/view need a verified user, recompute needs the
	// scheduler's shared secret.
	metricsGroup := router.Group("/metrics")
	{
		userScoped := metricsGroup.Group("")
		userScoped.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			userScoped.POST("/vote", metricsHandler.CastVote)
			userScoped.POST("/view", metricsHandler.RegisterView)
		}

		cron := metricsGroup.Group("")
		cron.Use(auth.SharedSecretMiddleware(cfg.CronSecret))
		{
			cron.GET("/recompute-ranking", metricsHandler.RecomputeRankings)
		}
	}

	// User routes (all protected)
	userGroup := router.Group("/users")
	userGroup.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		userGroup.GET("/me", userHandler.GetProfile)
	}

	log.Info("starting_api_server", "port", cfg.APIPort)
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Error("failed_to_start_api_server", "error", err.Error())
		os.Exit(1)
	}
}
