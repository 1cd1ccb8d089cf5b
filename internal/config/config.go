package config

import (
	"os"
	"strconv"
	"strings"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	Storage     string // postgres or memory
	CORSOrigins string
	// Auth
	JWKSURL   string // Empty disables token verification; requests use X-User-ID or DevUserID
	DevUserID string
	// Versioning policy
	RequireLayoutType bool // Reject new versions without an explicit layout_type
	// Per-client request rate limit; zero disables
	RateLimitRPS   float64
	RateLimitBurst int
	// Logging
	LogLevel    string
	LogDir      string // Empty logs to stdout only
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TablePrefix:       getTablePrefix(env),
		Storage:           getStorage(),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWKSURL:           getEnv("JWKS_URL", ""),
		DevUserID:         getEnv("DEV_USER_ID", ""),
		RequireLayoutType: getEnv("REQUIRE_LAYOUT_TYPE", "false") == "true",
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 20),
		LogLevel:          getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		LogDir:            getEnv("LOG_DIR", ""),
		LogMaxFiles:       getEnvInt("LOG_MAX_FILES", 10),
	}
}

// CORSOriginList splits CORSOrigins on commas
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "prod" {
		return "info"
	}
	return "debug"
}

// getStorage picks postgres when a database URL is configured, memory otherwise
func getStorage() string {
	if s := os.Getenv("STORAGE"); s != "" {
		return s
	}
	if os.Getenv("DATABASE_URL") != "" {
		return StoragePostgres
	}
	return StorageMemory
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
