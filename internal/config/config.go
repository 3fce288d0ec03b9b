// Package config loads ls-atlas settings from defaults, an optional TOML
// file and LS_ATLAS_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// FileName is the project config file searched for upward from the working
// directory.
const FileName = "ls-atlas.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LS_ATLAS"

// Config is the full application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Images  ImagesConfig  `mapstructure:"images"`
	APOD    APODConfig    `mapstructure:"apod"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Log     LogConfig     `mapstructure:"log"`
}

// CatalogConfig configures the planet catalog source.
type CatalogConfig struct {
	Source           string        `mapstructure:"source"`
	EmbeddedFallback bool          `mapstructure:"embedded_fallback"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// AssetsConfig locates local image and texture files.
type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ImagesConfig tunes remote image checks.
type ImagesConfig struct {
	ProbeRate   float64 `mapstructure:"probe_rate"`
	ProbeBurst  int     `mapstructure:"probe_burst"`
	Concurrency int     `mapstructure:"concurrency"`
}

// APODConfig configures the picture-of-the-day widget.
type APODConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	ProxyURL string        `mapstructure:"proxy_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TrackerConfig configures the live position tracker.
type TrackerConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
	Trail    int           `mapstructure:"trail"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads configuration. An explicit path must exist; with an empty path
// the nearest ls-atlas.toml above the working directory is used if present.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewViper builds a viper instance with defaults, environment binding and
// the config file (if any). Environment variables win over the file.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	explicit := path != ""
	if !explicit {
		if wd, err := os.Getwd(); err == nil {
			path = FindProjectConfig(wd)
		}
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return v, nil
}

// FindProjectConfig walks up from dir looking for ls-atlas.toml and returns
// its path, or "" when none exists.
func FindProjectConfig(dir string) string {
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
