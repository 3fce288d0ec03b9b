package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Catalog
	v.SetDefault("catalog.source", "data/planets.json")
	v.SetDefault("catalog.embedded_fallback", true)
	v.SetDefault("catalog.timeout", "10s")

	// Local assets (assets/images, assets/textures)
	v.SetDefault("assets.dir", ".")

	// Image checks
	v.SetDefault("images.probe_rate", 4.0) // requests per second
	v.SetDefault("images.probe_burst", 4)
	v.SetDefault("images.concurrency", 4)

	// Picture of the day
	v.SetDefault("apod.url", "https://api.nasa.gov/planetary/apod")
	v.SetDefault("apod.api_key", "DEMO_KEY")
	v.SetDefault("apod.proxy_url", "https://api.allorigins.win/raw?url=")
	v.SetDefault("apod.timeout", "8s") // direct request only

	// Tracker
	v.SetDefault("tracker.url", "https://api.wheretheiss.at/v1/satellites/25544")
	v.SetDefault("tracker.interval", "5s")
	v.SetDefault("tracker.trail", 80)

	// Logging
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
}
