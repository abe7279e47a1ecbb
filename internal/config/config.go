package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds every runtime setting, parsed from environment variables.
type Config struct {
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	DatabaseDSN string `env:"DB_DSN,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Tracking Tracking `envPrefix:"TRACKING_"`
}

// Telegram holds the bot credentials for the outbound order channel.
// Both empty means the push is a silent no-op.
type Telegram struct {
	BotToken string `env:"BOT_TOKEN"`
	ChatID   string `env:"CHAT_ID"`
}

// Tracking configures the background sweep that re-polls the carrier
// for every trackable order. SweepInterval 0 disables the worker.
type Tracking struct {
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"0"`
	SweepDelay    time.Duration `env:"SWEEP_DELAY" envDefault:"2s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
