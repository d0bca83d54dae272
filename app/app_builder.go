package app

import (
	"fmt"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/server"
)

// Builder orchestrates the step-by-step construction of an App instance
// using a fluent interface pattern. A failing step records its error and every
// later step becomes a no-op.
type Builder struct {
	// Configuration
	cfg  *config.Config
	opts *Options

	// Core components
	logger   logger.Logger
	server   *server.Server
	registry *RouteRegistry
	routes   []Route
	app      *App

	// State tracking
	err error
}

// NewAppBuilder creates a new app builder instance.
func NewAppBuilder() *Builder {
	return &Builder{}
}

// WithOptions sets the options and derives the effective configuration from them.
func (b *Builder) WithOptions(opts Options) *Builder {
	if b.err != nil {
		return b
	}

	if opts.Store == nil && (len(opts.Modules) > 0 || len(opts.Middlewares) > 0) {
		b.err = fmt.Errorf("metadata store required to resolve modules and middlewares")
		return b
	}

	b.opts = &opts
	b.cfg = opts.effectiveConfig()
	return b
}

// CreateLogger selects the framework logger. Without Options.Logger nothing is logged.
func (b *Builder) CreateLogger() *Builder {
	if b.err != nil {
		return b
	}

	if b.opts == nil {
		b.err = fmt.Errorf("options required before creating logger")
		return b
	}

	b.logger = b.opts.Logger
	if b.logger == nil {
		b.logger = logger.Nop()
	}

	b.logger.Info().
		Str("app", b.cfg.App.Name).
		Str("env", b.cfg.App.Env).
		Str("version", b.cfg.App.Version).
		Msg("starting application")

	return b
}

// CreateServer creates the HTTP server with its built-in middlewares.
func (b *Builder) CreateServer() *Builder {
	if b.err != nil {
		return b
	}

	if b.logger == nil {
		b.err = fmt.Errorf("logger required before creating server")
		return b
	}

	var opts []server.Option
	if b.opts.TracerProvider != nil {
		opts = append(opts, server.WithTracerProvider(b.opts.TracerProvider))
	}

	b.server = server.New(b.cfg, b.logger, opts...)
	b.registry = NewRouteRegistry(b.server, b.logger)
	return b
}

// InstallMiddlewares validates the application middlewares and installs them ahead of
// route dispatch.
func (b *Builder) InstallMiddlewares() *Builder {
	if b.err != nil {
		return b
	}

	if b.server == nil {
		b.err = fmt.Errorf("server required before installing middlewares")
		return b
	}

	if err := installMiddlewares(b.opts.Store, b.opts.Middlewares, b.server.Use, b.logger); err != nil {
		b.err = err
	}
	return b
}

// ResolveRoutes expands the declared modules into routes.
func (b *Builder) ResolveRoutes() *Builder {
	if b.err != nil {
		return b
	}

	if b.opts == nil {
		b.err = fmt.Errorf("options required before resolving routes")
		return b
	}

	routes, err := Resolve(b.opts.Store, b.opts.Modules, b.cfg.Server.Prefix)
	if err != nil {
		b.err = err
		return b
	}

	b.routes = routes
	return b
}

// RegisterRoutes registers the resolved routes on the server.
func (b *Builder) RegisterRoutes() *Builder {
	if b.err != nil {
		return b
	}

	if b.registry == nil {
		b.err = fmt.Errorf("server required before registering routes")
		return b
	}

	b.registry.Register(b.routes)
	return b
}

// CreateApp assembles the App from the built components.
func (b *Builder) CreateApp() *Builder {
	if b.err != nil {
		return b
	}

	if b.server == nil || b.registry == nil {
		b.err = fmt.Errorf("server required before creating app")
		return b
	}

	b.app = &App{
		cfg:      b.cfg,
		server:   b.server,
		logger:   b.logger,
		registry: b.registry,
	}
	return b
}

// Build returns the completed App instance, logger, or any error encountered during building.
// The logger is always returned, even on error, to enable proper error logging.
func (b *Builder) Build() (*App, logger.Logger, error) {
	log := b.logger
	if log == nil {
		log = logger.Nop()
	}

	if b.err != nil {
		return nil, log, b.err
	}

	if b.app == nil {
		return nil, log, fmt.Errorf("app building incomplete")
	}

	return b.app, log, nil
}
