// Package config loads client settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config holds every setting of the buddy client.
type Config struct {
	ServerURL   string        `mapstructure:"server_url" env:"SERVER_URL"`
	Project     string        `mapstructure:"project" env:"PROJECT"`
	Timeout     time.Duration `mapstructure:"timeout" env:"TIMEOUT"`
	ListenAddr  string        `mapstructure:"listen_addr" env:"LISTEN_ADDR"`
	InboxDir    string        `mapstructure:"inbox_dir" env:"INBOX_DIR"`
	LogLevel    string        `mapstructure:"log_level" env:"LOG_LEVEL"`
	HistoryFile string        `mapstructure:"history_file" env:"HISTORY_FILE"`
}

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BUDDY_"

// Default returns the built-in settings.
func Default() Config {
	history := ".buddy_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".buddy_history")
	}
	return Config{
		ServerURL:   "http://localhost:8000",
		Project:     "default",
		Timeout:     0,
		ListenAddr:  ":8090",
		LogLevel:    "info",
		HistoryFile: history,
	}
}

// SetDefaults registers the defaults with v so they show up in Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server_url", d.ServerURL)
	v.SetDefault("project", d.Project)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("inbox_dir", d.InboxDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("history_file", d.HistoryFile)
}

// Load reads the config file known to v (if any) over the defaults, then
// applies BUDDY_* environment variables on top. A missing file is not an error.
// Command-line flags are applied afterwards by the caller.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url: missing host")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout: must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}
