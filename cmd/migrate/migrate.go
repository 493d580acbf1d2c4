// Package migrate implements the migrate command, which migrates and seeds
// every configured tenant.
package migrate

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/schemaroute/cmd/internal/app"
	"github.com/stokaro/schemaroute/customers"
	"github.com/stokaro/schemaroute/migration/tenantmigrator"
)

var migrateFlags = app.Flags()

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate every configured tenant to the latest version",
		Long: `Migrate every configured tenant to the latest version and seed tenants without data.

Tenants are migrated one at a time, in configuration order, each in its own schema.
A failing tenant is reported and the remaining tenants are still migrated.

Available subcommands:
  status     - Show the migration status of every tenant
  to         - Migrate every tenant up or down to a version`,
		RunE: upCommand,
	}
	cobraflags.RegisterMap(migrateCmd, migrateFlags)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the migration status of every tenant as JSON",
		RunE:  statusCommand,
	}
	cobraflags.RegisterMap(statusCmd, migrateFlags)

	toCmd := &cobra.Command{
		Use:   "to VERSION",
		Short: "Migrate every tenant up or down to VERSION",
		Args:  cobra.ExactArgs(1),
		RunE:  toCommand,
	}
	cobraflags.RegisterMap(toCmd, migrateFlags)

	migrateCmd.AddCommand(statusCmd, toCmd)
	return migrateCmd
}

func upCommand(cmd *cobra.Command, _ []string) error {
	return run(cmd, tenantmigrator.WithSeeder(customers.Seeder{}))
}

func toCommand(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil || version < 0 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	return run(cmd, tenantmigrator.WithTargetVersion(version))
}

func run(cmd *cobra.Command, opts ...tenantmigrator.Option) error {
	a, err := app.New(migrateFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	report := tenantmigrator.New(a.Config, a.Factory, customers.Migrations(), opts...).
		WithLogger(a.Logger).
		Run(cmd.Context())

	printReport(cmd.OutOrStdout(), report)
	return report.Err()
}

func statusCommand(cmd *cobra.Command, _ []string) error {
	a, err := app.New(migrateFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	report := tenantmigrator.New(a.Config, a.Factory, customers.Migrations()).
		WithLogger(a.Logger).
		Status(cmd.Context())

	type tenantStatus struct {
		Tenant string `json:"tenant"`
		Schema string `json:"schema"`
		Status any    `json:"status,omitempty"`
		Error  string `json:"error,omitempty"`
	}
	out := make([]tenantStatus, 0, len(report.Results))
	for _, res := range report.Results {
		ts := tenantStatus{Tenant: res.Tenant, Schema: res.Schema}
		if res.Status != nil {
			ts.Status = res.Status
		}
		if res.Err != nil {
			ts.Error = res.Err.Error()
		}
		out = append(out, ts)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return report.Err()
}

func printReport(w io.Writer, report tenantmigrator.Report) {
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "FAILED  %-20s %v\n", res.Tenant, res.Err)
		case len(res.Applied) == 0:
			fmt.Fprintf(w, "OK      %-20s up to date\n", res.Tenant)
		default:
			fmt.Fprintf(w, "OK      %-20s applied %v\n", res.Tenant, res.Applied)
		}
	}
	fmt.Fprintf(w, "%d tenants, %d failed\n", len(report.Results), len(report.Failed()))
}
