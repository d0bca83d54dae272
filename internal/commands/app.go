// Package commands implements the nuxum CLI commands.
package commands

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/nuxum/app"
	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/examples/users"
	"github.com/gaborage/nuxum/metadata"
)

// keyUsersAPIKey is the config key holding the key that protects user deletion.
const keyUsersAPIKey = "users.apikey"

// newApp declares the bundled users module and bootstraps it with cfg. A quiet app
// logs nothing.
func newApp(cfg *config.Config, tp trace.TracerProvider, quiet bool) (*app.App, error) {
	store := metadata.NewStore()
	decls := users.Declare(store, cfg.GetString(keyUsersAPIKey))

	opts := app.OptionsFromConfig(cfg)
	opts.Store = store
	opts.Modules = decls.Modules
	opts.Middlewares = decls.Middlewares
	opts.TracerProvider = tp
	if quiet {
		opts.Logger = nil
	}

	return app.New(opts)
}
