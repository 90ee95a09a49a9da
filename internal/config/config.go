package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror a small household deployment: reports on Monday
// morning, Jakarta time.
const (
	DefaultReportTimezone = "Asia/Jakarta"
	DefaultReportHour     = 9
	DefaultReportWeekday  = 1 // Monday, cron numbering
)

// DefaultCategories are seeded for every user; custom categories are
// layered on top per user.
var DefaultCategories = []string{
	"Makan",
	"Transportasi",
	"Belanja",
	"Kesehatan",
	"Hiburan",
	"Pendidikan",
	"Lainnya",
}

type Config struct {
	// Telegram
	BotToken string

	// Database
	SQLiteDBPath string

	// Weekly report schedule
	ReportTimezone string
	ReportHour     int
	ReportWeekday  int

	// Dispatcher
	DispatchWorkers int

	// AMQP event stream (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		BotToken:     getEnv("BOT_TOKEN", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/quillie.db"),

		ReportTimezone: getEnv("REPORT_TIMEZONE", DefaultReportTimezone),
		ReportHour:     getEnvInt("REPORT_HOUR", DefaultReportHour),
		ReportWeekday:  getEnvInt("REPORT_WEEKDAY", DefaultReportWeekday),

		DispatchWorkers: getEnvInt("DISPATCH_WORKERS", 4),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "quillie"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.BotToken == "" {
		errs = append(errs, "BOT_TOKEN is required")
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid report timezone '%s': %v", c.ReportTimezone, err))
	}
	if c.ReportHour < 0 || c.ReportHour > 23 {
		errs = append(errs, fmt.Sprintf("invalid report hour %d: must be between 0 and 23", c.ReportHour))
	}
	if c.ReportWeekday < 0 || c.ReportWeekday > 6 {
		errs = append(errs, fmt.Sprintf("invalid report weekday %d: must be between 0 (Sunday) and 6", c.ReportWeekday))
	}

	if c.DispatchWorkers < 1 {
		errs = append(errs, fmt.Sprintf("invalid dispatch workers %d: must be at least 1", c.DispatchWorkers))
	} else if c.DispatchWorkers > 64 {
		errs = append(errs, fmt.Sprintf("invalid dispatch workers %d: must be at most 64", c.DispatchWorkers))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Location resolves the configured report timezone. Validate must
// have passed first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
