package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	BaseCurrency            string
	ConversionRoundingPlace int32

	AlertThresholdPercent     string
	EmergencyThresholdPercent string
	MaxRetries                int
	RetryDelay                time.Duration
	SchedulerTickInterval     time.Duration
	NotificationRecipients    []string

	RateProviderName    string
	RateProviderURL     string
	RateProviderTimeout time.Duration

	KafkaBrokers           []string
	KafkaNotificationTopic string
	RedisAddr              string

	ConversionHistoryLimit int
	UpdateHistoryLimit     int
	NotificationLimit      int

	RateLimitPeriod   time.Duration
	RateLimitRequests int64
}

// LoadConfig loads configuration from environment variables and the .env
// file if present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("CONVERSION_ROUNDING_PLACES", 2)
	viper.SetDefault("ALERT_THRESHOLD_PERCENT", "2.0")
	viper.SetDefault("EMERGENCY_THRESHOLD_PERCENT", "10.0")
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RETRY_DELAY", "5m")
	viper.SetDefault("SCHEDULER_TICK_INTERVAL", "1m")
	viper.SetDefault("NOTIFICATION_RECIPIENTS", "")
	viper.SetDefault("RATE_PROVIDER_NAME", "frankfurter")
	viper.SetDefault("RATE_PROVIDER_URL", "https://api.frankfurter.dev/v1")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_NOTIFICATION_TOPIC", "fx.notifications")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("CONVERSION_HISTORY_LIMIT", 1000)
	viper.SetDefault("UPDATE_HISTORY_LIMIT", 50)
	viper.SetDefault("NOTIFICATION_LIMIT", 500)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 300)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.BaseCurrency = strings.ToUpper(viper.GetString("BASE_CURRENCY"))
	cfg.ConversionRoundingPlace = viper.GetInt32("CONVERSION_ROUNDING_PLACES")

	cfg.AlertThresholdPercent = viper.GetString("ALERT_THRESHOLD_PERCENT")
	cfg.EmergencyThresholdPercent = viper.GetString("EMERGENCY_THRESHOLD_PERCENT")
	cfg.MaxRetries = viper.GetInt("MAX_RETRIES")
	cfg.RetryDelay = viper.GetDuration("RETRY_DELAY")
	cfg.SchedulerTickInterval = viper.GetDuration("SCHEDULER_TICK_INTERVAL")
	cfg.NotificationRecipients = splitList(viper.GetString("NOTIFICATION_RECIPIENTS"))

	cfg.RateProviderName = viper.GetString("RATE_PROVIDER_NAME")
	cfg.RateProviderURL = viper.GetString("RATE_PROVIDER_URL")
	cfg.RateProviderTimeout = viper.GetDuration("RATE_PROVIDER_TIMEOUT")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaNotificationTopic = viper.GetString("KAFKA_NOTIFICATION_TOPIC")
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")

	cfg.ConversionHistoryLimit = viper.GetInt("CONVERSION_HISTORY_LIMIT")
	cfg.UpdateHistoryLimit = viper.GetInt("UPDATE_HISTORY_LIMIT")
	cfg.NotificationLimit = viper.GetInt("NOTIFICATION_LIMIT")

	cfg.RateLimitPeriod = viper.GetDuration("RATE_LIMIT_PERIOD")
	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")

	return cfg, nil
}

// splitList parses a comma-separated env value into a trimmed slice.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
