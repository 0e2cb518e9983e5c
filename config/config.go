package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RedisConfig holds the optional feed cache connection settings.
// The cache is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// KafkaConfig holds the optional snapshot publisher settings.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker was configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// Config is the service configuration read from the environment
type Config struct {
	Port                 string
	LogLevel             string
	FetchTimeout         time.Duration
	MaxConcurrentFetches int
	UserAgent            string
	Redis                RedisConfig
	Kafka                KafkaConfig
}

// Load reads the configuration from environment variables.
// Missing or malformed values fall back to defaults.
// Callers load .env (godotenv) before calling Load.
func Load() Config {
	return Config{
		Port:                 GetEnvOrDefault("PORT", DefaultPort),
		LogLevel:             GetEnvOrDefault("LOG_LEVEL", "info"),
		FetchTimeout:         getEnvSeconds("FETCH_TIMEOUT_SECONDS", DefaultFetchTimeout),
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", DefaultMaxConcurrentFetches),
		UserAgent:            GetEnvOrDefault("USER_AGENT", DefaultUserAgent),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASS"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvSeconds("FEED_CACHE_TTL_SECONDS", DefaultFeedCacheTTL),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   GetEnvOrDefault("KAFKA_TOPIC", DefaultKafkaTopic),
		},
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

func getEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := getEnvInt(key, 0)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
