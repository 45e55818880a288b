package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	EncryptionKey string

	// SMTP settings for alert notifications
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	// Background job cadence
	AlertSweepInterval time.Duration
	RetryBackoffBase   time.Duration

	// Audit log retention
	AuditRetentionDays int
	PIIRetentionDays   int
	AuditArchiveDays   int
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		EncryptionKey:      getEnv("ENCRYPTION_KEY", ""),
		SMTPHost:           getEnv("SMTP_HOST", "localhost"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		FromEmail:          getEnv("FROM_EMAIL", "alerts@fintrack.local"),
		AlertSweepInterval: getEnvDuration("ALERT_SWEEP_INTERVAL", time.Hour),
		RetryBackoffBase:   getEnvDuration("RETRY_BACKOFF_BASE", time.Minute),
		AuditRetentionDays: getEnvInt("AUDIT_LOG_RETENTION_DAYS", 365),
		PIIRetentionDays:   getEnvInt("PII_LOG_RETENTION_DAYS", 90),
		AuditArchiveDays:   getEnvInt("AUDIT_LOG_ARCHIVE_DAYS", 90),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.EncryptionKey == "" {
		log.Fatal("ENCRYPTION_KEY is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("ERROR: Invalid integer for %s: %s, using default %d", key, value, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("ERROR: Invalid duration for %s: %s, using default %s", key, value, fallback)
	}
	return fallback
}
