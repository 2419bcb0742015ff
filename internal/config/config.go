// Package config loads the daemon configuration: built-in defaults,
// overridden by an optional TOML file, overridden by SOD_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved daemon configuration.
type Config struct {
	DatabasePath  string `mapstructure:"database_path"`
	Backend       string `mapstructure:"backend"`        // memory, pebble or leveldb
	Compression   string `mapstructure:"compression"`    // none or lz4
	JournalDriver string `mapstructure:"journal_driver"` // none, sqlite or postgres
	JournalDSN    string `mapstructure:"journal_dsn"`
	CacheSize     int    `mapstructure:"cache_size"`
}

// Load reads the configuration. An empty path skips the file layer and
// resolves from defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", "sod-data")
	v.SetDefault("backend", "memory")
	v.SetDefault("compression", "none")
	v.SetDefault("journal_driver", "none")
	v.SetDefault("journal_dsn", "sod-journal.db")
	v.SetDefault("cache_size", 1024)

	v.SetEnvPrefix("SOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backend, compression and journal selections.
func (c *Config) Validate() error {
	switch c.Backend {
	case "memory", "pebble", "leveldb":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Compression {
	case "none", "lz4":
	default:
		return fmt.Errorf("unknown compression %q", c.Compression)
	}
	switch c.JournalDriver {
	case "none", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown journal driver %q", c.JournalDriver)
	}
	if c.Backend != "memory" && c.DatabasePath == "" {
		return fmt.Errorf("backend %q requires a database path", c.Backend)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	return nil
}
