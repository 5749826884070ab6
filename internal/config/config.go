package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	CatAPIBaseURL string `mapstructure:"cat_api_base_url"`
	CatAPIKey     string `mapstructure:"cat_api_key"`
	RandomLimit   int    `mapstructure:"random_limit"`
	UploadLimit   int    `mapstructure:"upload_limit"`

	ListenAddr     string `mapstructure:"listen_addr"`
	PublishersFile string `mapstructure:"publishers_file"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`

	SessionTTLSeconds   int64         `mapstructure:"session_ttl_seconds"`
	SessionSweepSeconds int64         `mapstructure:"session_sweep_seconds"`
	SessionTTL          time.Duration `mapstructure:"-"`
	SessionSweep        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "billi-gallery")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("cat_api_base_url", "https://api.thecatapi.com/v1/")
	v.SetDefault("cat_api_key", "")
	v.SetDefault("random_limit", 4)
	v.SetDefault("upload_limit", 4)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("publishers_file", "")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("session_ttl_seconds", int64((2*time.Hour)/time.Second))
	v.SetDefault("session_sweep_seconds", int64((10*time.Minute)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLSeconds) * time.Second
	cfg.SessionSweep = time.Duration(cfg.SessionSweepSeconds) * time.Second

	return &cfg, nil
}

func (c *Config) validate() error {
	c.CatAPIBaseURL = strings.TrimSpace(c.CatAPIBaseURL)
	c.CatAPIKey = strings.TrimSpace(c.CatAPIKey)

	if c.CatAPIBaseURL == "" {
		return fmt.Errorf("cat_api_base_url is required")
	}
	if c.CatAPIKey == "" {
		return fmt.Errorf("cat_api_key is required")
	}
	if c.RandomLimit <= 0 {
		return fmt.Errorf("invalid random_limit (must be positive)")
	}
	if c.UploadLimit <= 0 {
		return fmt.Errorf("invalid upload_limit (must be positive)")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max_upload_bytes (must be positive)")
	}
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("invalid session_ttl_seconds (must be positive seconds)")
	}
	if c.SessionSweepSeconds <= 0 {
		return fmt.Errorf("invalid session_sweep_seconds (must be positive seconds)")
	}
	return nil
}
