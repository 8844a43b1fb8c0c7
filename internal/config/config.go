package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything configurable from the environment.
type Config struct {
	DiscordToken      string        `env:"DISCORD_TOKEN,required"`
	StoragePath       string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	InitSlashCommands bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	ScriptTimeout     time.Duration `env:"SCRIPT_TIMEOUT" envDefault:"1s"`

	DashboardAddr    string        `env:"DASHBOARD_ADDR" envDefault:":3847"`
	DashboardBaseURL string        `env:"DASHBOARD_BASE_URL" envDefault:"http://localhost:3847"`
	SessionTTL       time.Duration `env:"DASHBOARD_SESSION_TTL" envDefault:"15m"`
}

// New loads .env (if present) and parses the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
