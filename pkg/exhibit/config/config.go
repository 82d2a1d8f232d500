// Package config loads service configuration from flags, environment, and an
// optional config file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EXHIBIT_ADDR.
const EnvPrefix = "EXHIBIT"

const (
	keyAddr         = "addr"
	keyBaseURL      = "base-url"
	keySettingsPath = "settings-path"
	keyCacheSize    = "cache-size"
	keyTimeout      = "timeout"
	keyCacheTTL     = "cache-ttl"
)

// Config is the resolved configuration shared by the CLI and the HTTP service.
type Config struct {
	// Addr is the listen address of the HTTP service.
	Addr string
	// BaseURL resolves relative data and layout URLs. Empty means relative
	// references are local files, which only the CLI reads.
	BaseURL string
	// SettingsPath is the YAML file holding widget settings.
	SettingsPath string
	// CacheSize is the number of fetched documents kept in memory.
	CacheSize int
	// CacheTTL is how long a fetched document is reused before it is fetched
	// again.
	CacheTTL time.Duration
	// Timeout bounds each remote fetch.
	Timeout time.Duration
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(keyAddr, ":8080", "HTTP listen address")
	fs.String(keyBaseURL, "", "base URL for relative data and layout URLs")
	fs.String(keySettingsPath, "exhibit-settings.yaml", "widget settings file")
	fs.Int(keyCacheSize, 128, "number of fetched documents to cache")
	fs.Duration(keyTimeout, 30*time.Second, "timeout for remote fetches")
	fs.Duration(keyCacheTTL, time.Minute, "how long fetched documents are reused")
}

// Load merges, from highest precedence: flags explicitly set on fs,
// EXHIBIT_* environment variables (including those from a .env file), the
// config file at path when non-empty, and flag defaults.
func Load(fs *pflag.FlagSet, path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Addr:         v.GetString(keyAddr),
		BaseURL:      strings.TrimSpace(v.GetString(keyBaseURL)),
		SettingsPath: v.GetString(keySettingsPath),
		CacheSize:    v.GetInt(keyCacheSize),
		Timeout:      v.GetDuration(keyTimeout),
		CacheTTL:     v.GetDuration(keyCacheTTL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("config: settings-path must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache-ttl must not be negative")
	}
	if _, err := c.ParsedBaseURL(); err != nil {
		return err
	}
	return nil
}

// ParsedBaseURL returns BaseURL parsed, or nil when it is empty.
func (c *Config) ParsedBaseURL() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("config: base-url %q must be an absolute URL", c.BaseURL)
	}
	return u, nil
}
