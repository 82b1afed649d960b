package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL        string
	ProfileCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// Calendar import
	CalDAVURL              string
	CalDAVUsername         string
	CalDAVPassword         string
	CalendarImportEnabled  bool
	CalendarImportInterval time.Duration
	CalendarLookAheadDays  int

	// Circuit breaker
	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration

	// Suggestions
	SuggestionDuration        time.Duration
	SuggestionBuffer          time.Duration
	SuggestionMaxResults      int
	SuggestionPartyPreference bool

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	driver := getEnv("DATABASE_DRIVER", "")
	if driver == "" {
		driver = "postgres"
		if databaseURL == "" {
			driver = "sqlite"
		}
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("RENDEZVOUS_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL:    databaseURL,
		DatabaseDriver: driver,
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		LocalMode:      driver == "sqlite",

		RedisURL:        getEnv("REDIS_URL", ""),
		ProfileCacheTTL: getDurationEnv("PROFILE_CACHE_TTL", 10*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 7),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		CalDAVURL:              getEnv("CALDAV_URL", ""),
		CalDAVUsername:         getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:         getEnv("CALDAV_PASSWORD", ""),
		CalendarImportEnabled:  getBoolEnv("CALENDAR_IMPORT_ENABLED", true),
		CalendarImportInterval: getDurationEnv("CALENDAR_IMPORT_INTERVAL", 15*time.Minute),
		CalendarLookAheadDays:  getIntEnv("CALENDAR_LOOK_AHEAD_DAYS", 30),

		BreakerEnabled:          getBoolEnv("BREAKER_ENABLED", true),
		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),

		SuggestionDuration:        getDurationEnv("SUGGESTION_DEFAULT_DURATION", time.Hour),
		SuggestionBuffer:          getDurationEnv("SUGGESTION_BUFFER", 15*time.Minute),
		SuggestionMaxResults:      getIntEnv("SUGGESTION_MAX_RESULTS", 5),
		SuggestionPartyPreference: getBoolEnv("SUGGESTION_PARTY_PREFERENCES", false),

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

// CalDAVConfigured reports whether a CalDAV server is set.
func (c *Config) CalDAVConfigured() bool {
	return c.CalDAVURL != ""
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
