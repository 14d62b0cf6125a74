package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	AIAPIURL        string        `mapstructure:"AI_API_URL"`
	AIAPIKey        string        `mapstructure:"AI_API_KEY"`
	AIModel         string        `mapstructure:"AI_MODEL"`
	MaxRetries      int           `mapstructure:"MAX_RETRIES"`
	RetryBaseDelay  time.Duration `mapstructure:"RETRY_BASE_DELAY"`
	SearchTimeout   time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	MaxResults      int           `mapstructure:"MAX_RESULTS"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize       int           `mapstructure:"CACHE_SIZE"`
	BrowserHeadless bool          `mapstructure:"BROWSER_HEADLESS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AI_API_URL", "https://api.anthropic.com/v1/messages")
	viper.SetDefault("AI_MODEL", "claude-sonnet-4-20250514")
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RETRY_BASE_DELAY", time.Second)
	viper.SetDefault("SEARCH_TIMEOUT", 90*time.Second)
	viper.SetDefault("MAX_RESULTS", 20)
	viper.SetDefault("CACHE_TTL", 10*time.Minute)
	viper.SetDefault("CACHE_SIZE", 256)
	viper.SetDefault("BROWSER_HEADLESS", true)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
