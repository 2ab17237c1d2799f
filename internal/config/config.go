package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	CORSOrigins string

	// StimulusInterval drives the demo notification generator; zero
	// disables it.
	StimulusInterval time.Duration

	// Retention bounds how long notifications survive for users who
	// never come back. Zero disables the sweep.
	Retention     time.Duration
	RetentionTick time.Duration

	ResendAPIKey string
	FromEmail    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		StimulusInterval: getDurationEnv("STIMULUS_INTERVAL", 5*time.Second),

		Retention:     getDurationEnv("NOTIFICATION_RETENTION", 30*24*time.Hour),
		RetentionTick: getDurationEnv("RETENTION_TICK", time.Hour),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
