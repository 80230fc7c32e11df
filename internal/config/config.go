// Package config provides engine runtime configuration from the environment.
//
// Only operational tuning lives here (worker counts, time budgets, log
// level). Simulation inputs themselves are caller-provided and never read
// from the environment.
package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds engine runtime configuration
type Config struct {
	Workers  int           // Number of path-generation workers (defaults to NumCPU)
	Timeout  time.Duration // Whole-run time budget (0 = no budget)
	LogLevel string        // debug, info, warn, error
	Pretty   bool          // Enable pretty console output
}

// Load reads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	workers := getEnvAsInt("SIM_WORKERS", runtime.NumCPU())
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Config{
		Workers:  workers,
		Timeout:  time.Duration(getEnvAsInt("SIM_TIMEOUT_SECONDS", 0)) * time.Second,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Pretty:   getEnvAsBool("LOG_PRETTY", false),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
