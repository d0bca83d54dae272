package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/nuxum/config"
	"github.com/gaborage/nuxum/observability"
)

// ServeOptions holds options for the serve command
type ServeOptions struct {
	ConfigFile string
	Port       int

	// overridePort is set when --port was given.
	overridePort bool
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Loads configuration, resolves the declared modules into routes and serves them
until SIGINT or SIGTERM is received.

Configuration comes from defaults, then the YAML file, then NUXUM_* environment
variables.`,
		Example: `  # Serve with config.yaml from the working directory
  nuxum serve

  # Serve a specific file on another port
  nuxum serve --config ./deploy/app.yaml --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.overridePort = cmd.Flags().Changed("port")
			return runServe(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file (default config.yaml)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Override server.port")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, out io.Writer) (err error) {
	cfg, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.overridePort {
		cfg.Server.Port = opts.Port
	}

	provider, err := observability.NewProvider(cfg, out)
	if err != nil {
		return fmt.Errorf("failed to create trace provider: %w", err)
	}
	defer func() {
		if shutdownErr := observability.Shutdown(provider, observability.DefaultShutdownTimeout); shutdownErr != nil && err == nil {
			err = fmt.Errorf("failed to flush traces: %w", shutdownErr)
		}
	}()

	var tp trace.TracerProvider
	if provider.Enabled() {
		tp = provider.TracerProvider()
	}

	a, err := newApp(cfg, tp, false)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}
