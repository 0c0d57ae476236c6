package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the local frontend dev servers
const DefaultAllowedOrigins = "http://localhost:5173,http://localhost:5176,http://localhost:5178"

// MemoryDB selects the in-process store instead of Postgres
const MemoryDB = "memory"

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	LogLevel       string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// ReminderSchedule is a cron expression; empty disables meal reminders
	ReminderSchedule string
}

// NewConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5432 user=mealmate password=mealmate dbname=mealmate sslmode=disable"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", DefaultAllowedOrigins)),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", ""),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", ""),
	}

	var err error
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "0"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if cfg.ReminderSchedule != "" && !cfg.MailEnabled() {
		return nil, fmt.Errorf("REMINDER_SCHEDULE requires SMTP_HOST and SENDER_EMAIL")
	}

	return cfg, nil
}

// MailEnabled reports whether enough SMTP settings are present to send mail
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// UseMemoryStore reports whether DB_CONN selects the in-process store
func (c *Config) UseMemoryStore() bool {
	return strings.EqualFold(c.DBConn, MemoryDB)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
