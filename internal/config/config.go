package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL and REDIS_URL are
// required. Both the API server and the subscriber load the same config.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Subscriber process metrics/health listener.
	SubscriberPort string

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Redis (listing cache + event transport)
	RedisURL string

	// Listing cache TTL. Explicit invalidation is the primary consistency
	// mechanism; the TTL is the safety net bounding staleness when an
	// invalidation was lost.
	CacheTTL time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	// Bulk mail dispatch: bounded worker count and per-second send cap,
	// both sized for the upstream mail provider's rate limits.
	MailConcurrency int
	MailRatePerSec  int

	// Absolute URL of the reader-facing frontend, used for links in mail.
	ClientURL string

	// Notification feed page size
	FeedPageSize int
}

func Load() (*Config, error) {
	// Local development convenience; an absent .env file is not an error.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		SubscriberPort: getEnv("SUBSCRIBER_PORT", "8081"),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		RedisURL: redisURL,
		CacheTTL: getDuration("CACHE_TTL", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@inkpress.local"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Inkpress"),

		MailConcurrency: getInt("MAIL_CONCURRENCY", 5),
		MailRatePerSec:  getInt("MAIL_RATE_PER_SEC", 10),

		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),

		FeedPageSize: getInt("FEED_PAGE_SIZE", 12),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
