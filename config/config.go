package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Control surface
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":3001"`

	// Progression persistence
	ProgressFile string `env:"PROGRESS_FILE" envDefault:"user_data.json"`

	// Default bot credentials, used by the warning endpoint to start a
	// stopped bot. Optional: the dashboard normally supplies these per
	// start request.
	DiscordToken       string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID   string `env:"DISCORD_CHANNEL_ID"`
	DiscordAdminRoleID string `env:"DISCORD_ADMIN_ROLE_ID"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load parses configuration from environment variables
func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return config, nil
}
