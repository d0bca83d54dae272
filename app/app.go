// Package app bootstraps a nuxum application: it resolves declared modules into
// routes, gates and installs middlewares, and runs the HTTP server.
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/logger"
	"github.com/gaborage/nuxum/server"
)

// App is a bootstrapped application. Its route table is fixed once New returns.
type App struct {
	cfg      *config.Config
	server   *server.Server
	logger   logger.Logger
	registry *RouteRegistry
}

// New bootstraps an application from opts. Declaration mistakes are returned as
// *ConfigurationError and no server is started.
func New(opts Options) (*App, error) {
	a, log, err := NewAppBuilder().
		WithOptions(opts).
		CreateLogger().
		CreateServer().
		InstallMiddlewares().
		ResolveRoutes().
		RegisterRoutes().
		CreateApp().
		Build()
	if err != nil {
		log.Error().Err(err).Msg("bootstrap failed")
		return nil, err
	}
	return a, nil
}

// Routes returns the registered routes in registration order.
func (a *App) Routes() []Route {
	return a.registry.Routes()
}

// Handler returns the application as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Start serves HTTP until Shutdown is called.
func (a *App) Start() error {
	return a.server.Start()
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("failed to shutdown server")
		return err
	}

	a.logger.Info().Msg("application shutdown complete")
	return nil
}

// Run serves HTTP until ctx is done or the process receives SIGINT or SIGTERM, then
// shuts down within server.timeout.shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.Timeout.Shutdown)
	defer cancel()

	shutdownErr := a.Shutdown(shutdownCtx)
	if err := <-errCh; err != nil {
		return err
	}
	return shutdownErr
}
