package main

import (
	"context"
	"fmt"
	"os"

	// Loads .env into the process environment before NUXUM_* variables are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/gaborage/nuxum/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	rootCmd := &cobra.Command{
		Use:   "nuxum",
		Short: "Declarative routing and request validation on Echo",
		Long: `nuxum resolves declared modules and controllers into routes, validates query
strings and JSON bodies against field schemas before handlers run, and serves them
with Echo.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.NewServeCommand(),
		commands.NewRoutesCommand(),
		commands.NewVersionCommand(version),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
