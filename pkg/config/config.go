package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration

	// Store
	StoreDriver      string
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int
	MongoDatabase    string
	MongoCollection  string
	RedisKeyPrefix   string

	// Store circuit breaker
	StoreBreakerEnabled     bool
	StoreBreakerMaxFailures int
	StoreBreakerTimeout     time.Duration

	// RabbitMQ
	RabbitMQURL    string
	EventsExchange string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "")),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		HTTPIdleTimeout:  getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:  getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),

		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", "")),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", getDefaultSQLitePath()),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),
		MongoDatabase:    getEnv("MONGO_DATABASE", "TaskList"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "Tasks"),
		RedisKeyPrefix:   getEnv("REDIS_KEY_PREFIX", "todolist:"),

		StoreBreakerEnabled:     getBoolEnv("STORE_BREAKER_ENABLED", true),
		StoreBreakerMaxFailures: getIntEnv("STORE_BREAKER_MAX_FAILURES", 5),
		StoreBreakerTimeout:     getDurationEnv("STORE_BREAKER_TIMEOUT", 30*time.Second),

		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "todolist.task.events"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "todolist.db"
	}
	return home + "/.todolist/todolist.db"
}
