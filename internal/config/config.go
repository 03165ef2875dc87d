package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Helpdesk platform (Chatwoot-compatible REST API)
	ChatwootBaseURL   string
	ChatwootAPIToken  string
	ChatwootAccountID string
	ChatwootTimeout   time.Duration
	TenantMapJSON     string

	// NLU oracle
	GeminiAPIKey   string
	GeminiModelID  string
	BedrockModelID string
	AWSRegion      string

	// Calendar collaborator
	GoogleCalendarID          string
	GoogleCredentialsJSONPath string
	DefaultTimezone           string

	// Pending booking store
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	UseRedisStore bool

	// Decision thresholds and timers
	BookingTTL            time.Duration
	BookingSweepInterval  time.Duration
	FollowUpDelay         time.Duration
	ConfirmationThreshold float64
	SchedulingThreshold   float64
	MessageWindowSize     int
	CollectEarlyMaxMsgs   int
	SuppressCollectAtMsgs int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ChatwootBaseURL:   getEnv("CHATWOOT_BASE_URL", ""),
		ChatwootAPIToken:  getEnv("CHATWOOT_API_TOKEN", ""),
		ChatwootAccountID: getEnv("CHATWOOT_ACCOUNT_ID", ""),
		ChatwootTimeout:   getEnvAsDuration("CHATWOOT_TIMEOUT", 10*time.Second),
		TenantMapJSON:     getEnv("TENANT_MAP_JSON", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		GoogleCalendarID:          getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsJSONPath: getEnv("GOOGLE_CREDENTIALS_JSON_PATH", ""),
		DefaultTimezone:           getEnv("DEFAULT_TIMEZONE", "Asia/Kolkata"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		UseRedisStore: getEnvAsBool("USE_REDIS_STORE", false),

		BookingTTL:            getEnvAsDuration("BOOKING_TTL", time.Hour),
		BookingSweepInterval:  getEnvAsDuration("BOOKING_SWEEP_INTERVAL", 10*time.Minute),
		FollowUpDelay:         getEnvAsDuration("FOLLOW_UP_DELAY", time.Hour),
		ConfirmationThreshold: getEnvAsFloat("CONFIRMATION_THRESHOLD", 0.8),
		SchedulingThreshold:   getEnvAsFloat("SCHEDULING_THRESHOLD", 0.9),
		MessageWindowSize:     getEnvAsInt("MESSAGE_WINDOW_SIZE", 20),
		CollectEarlyMaxMsgs:   getEnvAsInt("COLLECT_EARLY_MAX_MSGS", 4),
		SuppressCollectAtMsgs: getEnvAsInt("SUPPRESS_COLLECT_AT_MSGS", 10),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
