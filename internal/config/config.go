package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Backend API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Session persistence
	VaultPath     string
	SessionStore  string // "file" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// UI behavior
	SearchDebounce time.Duration

	// Simulator (cmd/clinicsim)
	SimPort      string
	SimJWTSecret string
	SimTokenTTL  time.Duration
	SimSeed      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		RequestTimeout: getEnvAsDuration("API_REQUEST_TIMEOUT", 15*time.Second),

		VaultPath:     getEnv("SESSION_VAULT_PATH", defaultVaultPath()),
		SessionStore:  getEnv("SESSION_STORE", "file"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SearchDebounce: getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),

		SimPort:      getEnv("SIM_PORT", "8080"),
		SimJWTSecret: getEnv("SIM_JWT_SECRET", "clinicsim-dev-secret"),
		SimTokenTTL:  getEnvAsDuration("SIM_TOKEN_TTL", 72*time.Hour),
		SimSeed:      getEnvAsBool("SIM_SEED", true),
	}
}

func defaultVaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".practicekit/session.json"
	}
	return dir + "/practicekit/session.json"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
