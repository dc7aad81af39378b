package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. Slack tokens may also come from the
// environment (OMBIBOT_SLACK_APP_TOKEN, OMBIBOT_SLACK_BOT_TOKEN) so they can
// stay out of the config file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("ombibot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ombibot"))
		}

		// Check /etc
		v.AddConfigPath("/etc/ombibot/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Bot identity defaults
	v.SetDefault("slack.bot_name", "Ombi Bot")
	v.SetDefault("slack.icon_url", "")

	// Store defaults
	v.SetDefault("store.path", "ombibot.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Slack.AppToken == "" {
		return fmt.Errorf("slack.app_token is required")
	}
	if !strings.HasPrefix(cfg.Slack.AppToken, "xapp-") {
		return fmt.Errorf("slack.app_token must be an app-level token (xapp-...)")
	}

	if cfg.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if !strings.HasPrefix(cfg.Slack.BotToken, "xoxb-") {
		return fmt.Errorf("slack.bot_token must be a bot user token (xoxb-...)")
	}

	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
