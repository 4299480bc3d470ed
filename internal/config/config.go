package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string // empty = in-memory page store
	CORSOrigins string
	TablePrefix string
	LogDir      string // empty = log to stdout only
	LogMaxFiles int
	// Export options
	MinifyHTML bool
	// Conversion tuning
	ComplexityThreshold int
	DefaultDomain       string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:         getTablePrefix(env),
		LogDir:              getEnv("LOG_DIR", ""),
		LogMaxFiles:         getEnvInt("LOG_MAX_FILES", 10),
		MinifyHTML:          getEnv("MINIFY_HTML", "true") == "true",
		ComplexityThreshold: getEnvInt("COMPLEXITY_THRESHOLD", DefaultComplexityThreshold),
		DefaultDomain:       getEnv("DEFAULT_DOMAIN", "services"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
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
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
