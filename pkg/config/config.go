package config

import (
	"os"
	"strconv"
)

// AppConfig collects everything the api-server reads from the environment.
type AppConfig struct {
	APIPort     string
	DBPath      string
	JWTSecret   string
	CronSecret  string
	FrontendURL string

	// Ranking aggregator tuning.
	ViewWeight       float64
	RankingBatchSize int
}

const (
	// DefaultViewWeight is the contribution of one view to the ranking
	// score, relative to one net like.
	DefaultViewWeight = 0.01

	// DefaultRankingBatchSize caps how many ranking upserts share one
	// transaction during a recompute run.
	DefaultRankingBatchSize = 400
)

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		APIPort:          getEnvOrDefault("API_PORT", "8080"),
		DBPath:           getEnvOrDefault("DB_PATH", "./data/lectorio.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CronSecret:       os.Getenv("CRON_API_SECRET_KEY"),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		ViewWeight:       GetEnvFloat("RANKING_VIEW_WEIGHT", DefaultViewWeight),
		RankingBatchSize: GetEnvInt("RANKING_BATCH_SIZE", DefaultRankingBatchSize),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func GetEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
