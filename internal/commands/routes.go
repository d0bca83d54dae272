package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaborage/nuxum/app"
	"github.com/gaborage/nuxum/config"
)

// NewRoutesCommand creates the routes command
func NewRoutesCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the resolved routes",
		Long:  "Resolves the declared modules with the current configuration and prints every route in registration order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configFile)
			if err != nil {
				return err
			}

			a, err := newApp(cfg, nil, true)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), a.Routes())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (default config.yaml)")

	return cmd
}

func printRoutes(w io.Writer, routes []app.Route) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tHANDLER\tMODULE")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Path, r.Name, r.Module)
	}
	return tw.Flush()
}
