// Command schemaroute migrates, scripts and serves schema-per-tenant databases.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stokaro/schemaroute/cmd/migrate"
	"github.com/stokaro/schemaroute/cmd/script"
	"github.com/stokaro/schemaroute/cmd/serve"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemaroute",
		Short: "Schema-per-tenant migrations and data access",
		Long: `schemaroute keeps one database schema per tenant.

Examples:

  schemaroute migrate --config tenants.yaml
  schemaroute migrate status
  schemaroute script --dialect postgres
  schemaroute serve --addr :8080
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrate.NewMigrateCommand())
	rootCmd.AddCommand(script.NewScriptCommand())
	rootCmd.AddCommand(serve.NewServeCommand())
	return rootCmd
}

func main() {
	// A missing .env file is not an error; the environment may already be set.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
