// Package config loads runtime configuration from the environment. Every
// third-party integration is optional: a missing credential or URL disables
// that integration instead of failing startup, so the server always serves
// the local dataset at minimum.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the backend.
type Config struct {
	Port            string
	DataFile        string
	DefaultLocation string

	// Optional backing stores.
	DatabaseURL string
	RedisURL    string

	// Optional third-party integrations.
	AggregatorURL    string
	AggregatorAPIKey string
	ScoringURL       string
	BrevoAPIKey      string
	SenderName       string
	SenderEmail      string
	OpenAIAPIKey     string

	CacheTTL         time.Duration
	WarmIntervalHrs  int
	SessionTTL       time.Duration
	IncomeCapPct     float64
	LogFormat        string // "json" or "text"
	LogLevel         string // "debug", "info", "warn", "error"
}

// Load reads the .env file (when present) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DataFile:        getEnv("DATA_FILE", "data/properties.min.json"),
		DefaultLocation: getEnv("DEFAULT_LOCATION", "München"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		AggregatorURL:    getEnv("AGGREGATOR_URL", ""),
		AggregatorAPIKey: getEnv("AGGREGATOR_API_KEY", ""),
		ScoringURL:       getEnv("SCORING_URL", ""),
		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		SenderName:       getEnv("SENDER_NAME", "Mortgage Moment"),
		SenderEmail:      getEnv("SENDER_EMAIL", "info@mortgagemoment.com"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),

		CacheTTL:        getEnvDuration("CACHE_TTL", 15*time.Minute),
		WarmIntervalHrs: getEnvInt("WARM_INTERVAL_HOURS", 6),
		SessionTTL:      getEnvDuration("VOICE_SESSION_TTL", 30*time.Minute),
		IncomeCapPct:    getEnvFloat("INCOME_CAP_FRACTION", 0.35),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
