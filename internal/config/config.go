package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Cache CacheConfig `mapstructure:"cache"`
}

// APIConfig contains the settings for the tour API client.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig contains the settings for the asset cache and its store.
type CacheConfig struct {
	Dir      string        `mapstructure:"dir"`
	StoreDir string        `mapstructure:"store_dir"`
	Expiry   time.Duration `mapstructure:"expiry"`
}

// Load reads configuration from HERITOUR_-prefixed environment variables and
// applies defaults. Nested keys use underscores, e.g. HERITOUR_API_BASE_URL.
// The API base URL may be empty; commands that need the API check for it.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".heritour")

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("cache.dir", filepath.Join(base, "assets"))
	v.SetDefault("cache.store_dir", filepath.Join(base, "store"))
	v.SetDefault("cache.expiry", 24*time.Hour)

	v.SetEnvPrefix("HERITOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Cache.Expiry <= 0 {
		return nil, errors.New("cache expiry must be positive")
	}

	return cfg, nil
}
