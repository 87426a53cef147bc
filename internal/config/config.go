// Package config reads lyrictune settings from the environment and an optional .env file
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string
	LogLevel    string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Composition defaults, overridable per request or by CLI flags
	Root  string
	Mode  string
	Tempo float64
	Style string
}

// LoadDotEnv reads a .env file from the working directory when one exists
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Load builds a Config from environment variables, using defaults for unset keys
func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Root:        getEnv("LYRICTUNE_ROOT", "C"),
		Mode:        getEnv("LYRICTUNE_MODE", "major"),
		Tempo:       getEnvFloat("LYRICTUNE_TEMPO", 120),
		Style:       getEnv("LYRICTUNE_STYLE", "strumming"),
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}
