// Package config resolves client settings from defaults, an optional
// config.yaml, a .env file and BLOCKYTIME_* environment variables, in
// increasing order of precedence. Command-line flags are applied last by the
// caller through Apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/blockytime/internal/constants"
)

const envPrefix = "BLOCKYTIME"

// Config is the resolved client configuration.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	CacheTTL  time.Duration
	LongPress time.Duration
	Timezone  string
	Days      int
	Debug     bool
	ConfigDir string

	// File is the config file that was read, empty when none was found.
	File string
}

// Overrides are flag values; zero values leave the loaded setting alone.
type Overrides struct {
	APIURL   string
	Timezone string
	Debug    bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("timeout", constants.DefaultTimeout.String())
	v.SetDefault("cache_ttl", constants.BlockCacheTTL.String())
	v.SetDefault("long_press", constants.LongPressThreshold.String())
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("days", constants.DefaultGridDays)
	v.SetDefault("debug", false)
}

// Load reads the configuration. configDir may be empty, in which case
// BLOCKYTIME_CONFIG_DIR or the default directory is used.
func Load(configDir string) (*Config, error) {
	_ = godotenv.Load()

	if configDir == "" {
		configDir = os.Getenv(envPrefix + "_CONFIG_DIR")
	}
	if configDir == "" {
		configDir = constants.DefaultConfigDir
	}
	dir, err := ExpandPath(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		APIURL:    strings.TrimSpace(v.GetString("api_url")),
		Timezone:  strings.TrimSpace(v.GetString("timezone")),
		Days:      v.GetInt("days"),
		Debug:     v.GetBool("debug"),
		ConfigDir: dir,
		File:      v.ConfigFileUsed(),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"timeout", &cfg.Timeout},
		{"cache_ttl", &cfg.CacheTTL},
		{"long_press", &cfg.LongPress},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.key, v.GetString(d.key), err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply merges flag overrides into the configuration.
func (c *Config) Apply(o Overrides) error {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.Debug {
		c.Debug = true
	}
	return c.Validate()
}

// Validate checks ranges and that the timezone resolves.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.LongPress <= 0 {
		return fmt.Errorf("long_press must be positive, got %s", c.LongPress)
	}
	if c.Days < 1 || c.Days > constants.MaxGridDays {
		return fmt.Errorf("days must be between 1 and %d, got %d", constants.MaxGridDays, c.Days)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone. Block ids are zone-naive; this
// is the zone used to turn them into instants.
func (c *Config) Location() (*time.Location, error) {
	return LoadLocation(c.Timezone)
}

// LoadLocation is time.LoadLocation with "" and "Local" meaning time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
