package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/example/flashbot/internal/scheduler"
)

// Config carries all runtime settings. It is built once in main and
// passed to constructors explicitly — nothing else reads the
// environment.
type Config struct {
	// DatabaseURL is either a postgres:// URL or a SQLite file path
	DatabaseURL string
	// ListenAddr is the address the web server binds to
	ListenAddr string
	// TelegramToken enables review reminders when set
	TelegramToken string
	// AppURL is the public base URL used in reminder links
	AppURL string
	// SchedulerSecret gates the manual scheduler trigger endpoint
	SchedulerSecret string
	// NotificationHour is the hour of day (0-23, UTC) for the daily check
	NotificationHour int
}

// Load reads the configuration from environment variables, falling back
// to local-development defaults
func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8000"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		AppURL:           getenv("APP_URL", "http://127.0.0.1:8000"),
		SchedulerSecret:  os.Getenv("SCHEDULER_SECRET"),
		NotificationHour: scheduler.DefaultNotificationHour,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = filepath.Join("data", "flashbot.db")
	}

	if s := os.Getenv("NOTIFICATION_HOUR"); s != "" {
		if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
			cfg.NotificationHour = h
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
