package app

import (
	"maps"

	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/metadata"
)

// Options describes the application to bootstrap. Fields left zero fall back to
// Config; Config itself defaults to config.Default().
type Options struct {
	Config *config.Config

	// Store holds the declarations of Modules and Middlewares.
	Store       *metadata.Store
	Modules     []metadata.Entity
	Middlewares []*MiddlewareClass

	// Prefix is prepended to every route path. Overrides server.prefix.
	Prefix string
	// CORS enables cross-origin handling with these settings. Overrides cors.*.
	CORS *config.CORSConfig
	// Headers are set on every response, on top of the configured ones.
	Headers map[string]string

	// Logger receives framework logs. A nil logger disables them.
	Logger         logger.Logger
	TracerProvider trace.TracerProvider
}

// OptionsFromConfig seeds options from cfg: prefix, CORS, headers and a logger
// honoring log.enabled.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Config:  cfg,
		Prefix:  cfg.Server.Prefix,
		Headers: maps.Clone(cfg.Headers),
	}
	if cfg.CORS.Enabled {
		cors := cfg.CORS
		opts.CORS = &cors
	}
	if cfg.Log.Enabled {
		opts.Logger = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}
	return opts
}

// effectiveConfig returns a copy of the configuration with the option overrides
// applied. opts.Config is not modified.
func (o Options) effectiveConfig() *config.Config {
	base := o.Config
	if base == nil {
		base = config.Default()
	}

	cfg := *base
	if o.Prefix != "" {
		cfg.Server.Prefix = o.Prefix
	}
	if o.CORS != nil {
		cfg.CORS = *o.CORS
		cfg.CORS.Enabled = true
	}
	if len(o.Headers) > 0 {
		headers := maps.Clone(base.Headers)
		if headers == nil {
			headers = make(map[string]string, len(o.Headers))
		}
		maps.Copy(headers, o.Headers)
		cfg.Headers = headers
	}
	return &cfg
}
