package config

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Catalog.Source == "" && !c.Catalog.EmbeddedFallback {
		return errors.New("catalog.source is empty and catalog.embedded_fallback is disabled")
	}
	if c.Catalog.Timeout < 0 {
		return errors.Newf("catalog.timeout must be >= 0, got %s", c.Catalog.Timeout)
	}

	// Rate 0 disables limiting; negative is invalid.
	if c.Images.ProbeRate < 0 {
		return errors.Newf("images.probe_rate must be >= 0, got %f", c.Images.ProbeRate)
	}
	if c.Images.ProbeBurst < 0 {
		return errors.Newf("images.probe_burst must be >= 0, got %d", c.Images.ProbeBurst)
	}
	if c.Images.Concurrency < 1 {
		return errors.Newf("images.concurrency must be >= 1, got %d", c.Images.Concurrency)
	}

	if c.APOD.URL == "" {
		return errors.New("apod.url cannot be empty")
	}
	if c.APOD.Timeout <= 0 {
		return errors.Newf("apod.timeout must be > 0, got %s", c.APOD.Timeout)
	}

	if c.Tracker.URL == "" {
		return errors.New("tracker.url cannot be empty")
	}
	if c.Tracker.Interval <= 0 {
		return errors.Newf("tracker.interval must be > 0, got %s", c.Tracker.Interval)
	}
	if c.Tracker.Trail < 1 {
		return errors.Newf("tracker.trail must be >= 1, got %d", c.Tracker.Trail)
	}

	if !validLevel(c.Log.Level) {
		return errors.Newf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

// validLevel accepts the names logging.ParseLevel understands.
func validLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
