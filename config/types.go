package config

// Config represents the complete configuration structure
type Config struct {
	Slack   SlackConfig   `mapstructure:"slack"`
	Ombi    OmbiConfig    `mapstructure:"ombi"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SlackConfig holds the Slack app credentials and bot identity
type SlackConfig struct {
	// AppToken is the app-level token (xapp-...) used for Socket Mode
	AppToken string `mapstructure:"app_token"`
	// BotToken is the bot user OAuth token (xoxb-...)
	BotToken string `mapstructure:"bot_token"`
	BotName  string `mapstructure:"bot_name"`
	IconURL  string `mapstructure:"icon_url"`
}

// OmbiConfig holds server-side defaults for Ombi access
type OmbiConfig struct {
	// DefaultServer is used for users who never ran the set-server command
	DefaultServer string `mapstructure:"default_server"`
}

// StoreConfig holds the per-user settings database location
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
