package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		BotToken:        "123:abc",
		SQLiteDBPath:    "./quillie.db",
		ReportTimezone:  "Asia/Jakarta",
		ReportHour:      9,
		ReportWeekday:   1,
		DispatchWorkers: 4,
		LogLevel:        "info",
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.BotToken = "" }, "BOT_TOKEN"},
		{"bad timezone", func(c *Config) { c.ReportTimezone = "Mars/Olympus" }, "timezone"},
		{"bad hour", func(c *Config) { c.ReportHour = 24 }, "report hour"},
		{"bad weekday", func(c *Config) { c.ReportWeekday = 7 }, "weekday"},
		{"zero workers", func(c *Config) { c.DispatchWorkers = 0 }, "workers"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ReportTimezone != DefaultReportTimezone {
		t.Fatalf("timezone = %s, want %s", cfg.ReportTimezone, DefaultReportTimezone)
	}
	if cfg.ReportHour != DefaultReportHour || cfg.ReportWeekday != DefaultReportWeekday {
		t.Fatalf("schedule defaults = %d %d", cfg.ReportHour, cfg.ReportWeekday)
	}
	if cfg.DispatchWorkers != 4 {
		t.Fatalf("workers = %d, want 4", cfg.DispatchWorkers)
	}
}
