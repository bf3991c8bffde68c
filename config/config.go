// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the settings needed to run the API server.
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	// Notification transports. Either may be empty, in which case that
	// transport is disabled.
	SlackWebhookURL string
	SendgridAPIKey  string
	NotifyFromEmail string
	NotifyToEmail   string

	// RetentionDays controls how far back the nightly purge keeps
	// day reservations and releases. Zero disables the purge.
	RetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but is never required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            os.Getenv("PORT"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyFromEmail: os.Getenv("NOTIFY_FROM_EMAIL"),
		NotifyToEmail:   os.Getenv("NOTIFY_TO_EMAIL"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return Config{}, fmt.Errorf("config: invalid RETENTION_DAYS %q", v)
		}
		cfg.RetentionDays = days
	}

	return cfg, nil
}
