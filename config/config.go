package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	AppPort           string
	AllowedOrigins    string
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	SQLitePath        string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	NatsURL           string
	EventPollInterval time.Duration
	AuthSecret        string
	SeedPreview       bool
	LogLevel          string
}

// IsDevelopment reports whether the server runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Debug("env not set, using default", "key", key, "default", defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn("invalid integer value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
		log.Warn("invalid boolean value, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded .env file")
	}

	return Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		AppPort:           getEnv("APP_PORT", "8080"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "tagdo"),
		DBPassword:        getEnv("DB_PASSWORD", "tagdo"),
		DBName:            getEnv("DB_NAME", "tagdo"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		SQLitePath:        getEnv("SQLITE_PATH", "tagdo.db"),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		NatsURL:           getEnv("NATS_URL", ""),
		EventPollInterval: time.Duration(getEnvAsInt("EVENT_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		AuthSecret:        getEnv("AUTH_SECRET", ""),
		SeedPreview:       getEnvAsBool("SEED_PREVIEW", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}
