package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBName      string
	Port        string
	LogLevel    string
	WeightsPath string
	Slack       SlackConfig
	Turso       TursoConfig
	ProjectID   string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether notifications can be posted.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	return Config{
		DBName:      getEnv("DB_NAME", "data/crease.db"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		WeightsPath: getEnv("WEIGHTS_PATH", ""),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
	}
}
