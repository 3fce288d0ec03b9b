package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/litescript/ls-atlas/internal/apod"
	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/config"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/logging"
	"github.com/litescript/ls-atlas/internal/tracker"
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	closer io.Closer
}

// newApp loads configuration and sets up logging. In TUI mode logs never
// reach the terminal: they go to log.file or nowhere.
func newApp(configPath, levelOverride string, jsonLogs, tui bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if levelOverride != "" {
		cfg.Log.Level = levelOverride
	}
	if jsonLogs {
		cfg.Log.JSON = true
	}

	level := logging.ParseLevel(cfg.Log.Level)
	var logger *logging.Logger
	if cfg.Log.JSON {
		logger = logging.NewJSON(level)
	} else {
		logger = logging.New(level)
	}

	a := &app{cfg: cfg, logger: logger}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "open log file %s", cfg.Log.File)
		}
		logger.SetOutput(f)
		a.closer = f
	case tui:
		logger.SetOutput(io.Discard)
	}
	return a, nil
}

func (a *app) Close() {
	a.logger.Sync()
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) catalogLoader() *catalog.Loader {
	opts := []catalog.LoaderOption{
		catalog.WithSource(a.cfg.Catalog.Source),
		catalog.WithLogger(a.logger.Named("catalog")),
	}
	if a.cfg.Catalog.Timeout > 0 {
		opts = append(opts, catalog.WithTimeout(a.cfg.Catalog.Timeout))
	}
	if !a.cfg.Catalog.EmbeddedFallback {
		opts = append(opts, catalog.WithFallback(nil))
	}
	return catalog.NewLoader(opts...)
}

// imageResolver probes local assets on disk and remote candidates over HTTP
// at the configured rate.
func (a *app) imageResolver() *imagery.Resolver {
	prober := imagery.MuxProber{
		Local: imagery.FileProber{Root: a.cfg.Assets.Dir},
		Remote: imagery.NewHTTPProber(
			imagery.WithProbeRate(a.cfg.Images.ProbeRate, a.cfg.Images.ProbeBurst),
		),
	}
	return imagery.NewResolver(prober, a.logger.Named("images"))
}

func (a *app) textureLoader() *imagery.TextureLoader {
	return imagery.NewTextureLoader(nil, a.cfg.Assets.Dir)
}

func (a *app) apodClient() *apod.Client {
	return apod.NewClient(
		apod.WithURL(a.cfg.APOD.URL),
		apod.WithAPIKey(a.cfg.APOD.APIKey),
		apod.WithProxyURL(a.cfg.APOD.ProxyURL),
		apod.WithTimeout(a.cfg.APOD.Timeout),
		apod.WithLogger(a.logger.Named("apod")),
	)
}

func (a *app) tracker() *tracker.Tracker {
	return tracker.New(
		tracker.WithURL(a.cfg.Tracker.URL),
		tracker.WithInterval(a.cfg.Tracker.Interval),
		tracker.WithTrailLen(a.cfg.Tracker.Trail),
		tracker.WithLogger(a.logger.Named("tracker")),
	)
}
