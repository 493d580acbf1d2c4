// Package script implements the script command, which prints the SQL the
// migrations would run for each tenant without touching a database.
package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/schemaroute/cmd/internal/app"
	"github.com/stokaro/schemaroute/config"
	"github.com/stokaro/schemaroute/customers"
	"github.com/stokaro/schemaroute/dbschema"
	"github.com/stokaro/schemaroute/migration/generator"
	"github.com/stokaro/schemaroute/migration/migrator"
	"github.com/stokaro/schemaroute/session"
	"github.com/stokaro/schemaroute/tenant"
)

const (
	dialectFlag    = "dialect"
	tenantFlag     = "tenant"
	directionFlag  = "direction"
	designTimeFlag = "design-time"
)

var scriptFlags = func() map[string]cobraflags.Flag {
	flags := app.Flags()
	flags[dialectFlag] = &cobraflags.StringFlag{
		Name:  dialectFlag,
		Value: "",
		Usage: "Database dialect (postgres, mysql, mariadb, sqlserver). If empty, derived from the connection string",
	}
	flags[tenantFlag] = &cobraflags.StringFlag{
		Name:  tenantFlag,
		Value: "",
		Usage: "Only script this tenant. If empty, scripts every configured tenant",
	}
	flags[directionFlag] = &cobraflags.StringFlag{
		Name:  directionFlag,
		Value: "up",
		Usage: "Migration direction (up, down)",
	}
	flags[designTimeFlag] = &cobraflags.BoolFlag{
		Name:  designTimeFlag,
		Value: false,
		Usage: "Script once against the default schema instead of per tenant",
	}
	return flags
}()

// NewScriptCommand creates the script command.
func NewScriptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the migration SQL for every tenant",
		Long: `Print the SQL every migration runs, stamped with the schema of each tenant.

Examples:
  schemaroute script                             # every tenant, dialect from the connection string
  schemaroute script --dialect sqlserver         # render for a specific dialect
  schemaroute script --tenant acme --direction down
  schemaroute script --design-time               # default schema only, no tenants`,
		RunE: scriptCommand,
	}

	cobraflags.RegisterMap(cmd, scriptFlags)
	return cmd
}

func scriptCommand(cmd *cobra.Command, _ []string) error {
	a, err := app.New(scriptFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	dialect := scriptFlags[dialectFlag].GetString()
	if dialect == "" {
		info, err := dbschema.ParseConnectionString(a.Config.ConnectionString)
		if err != nil {
			return fmt.Errorf("cannot derive dialect, use --%s: %w", dialectFlag, err)
		}
		dialect = info.Dialect
	}

	direction := scriptFlags[directionFlag].GetString()
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid direction %q", direction)
	}

	down := direction == "down"

	if scriptFlags[designTimeFlag].GetBool() {
		provider, factory := DesignTime(a.Config.ConnectionString, a.Registry, a.Logger)
		if err := BuildModels(cmd.Context(), factory); err != nil {
			return err
		}
		gen, err := generator.New(provider, dialect)
		if err != nil {
			return err
		}
		return Write(cmd.Context(), cmd.OutOrStdout(), gen.WithLogger(a.Logger), provider, []string{provider.SchemaName(cmd.Context())}, customers.Migrations(), down)
	}

	tenants := Tenants(a.Config, scriptFlags[tenantFlag].GetString(), a.Logger)
	gen, err := generator.New(a.Provider, dialect)
	if err != nil {
		return err
	}
	return Write(cmd.Context(), cmd.OutOrStdout(), gen.WithLogger(a.Logger), a.Provider, tenants, customers.Migrations(), down)
}

// Tenants returns the tenants to script: name alone when set, every
// configured tenant otherwise. An unregistered name is scripted against the
// schema of the same name.
func Tenants(cfg *config.TenantConfiguration, name string, logger *slog.Logger) []string {
	if name == "" {
		return cfg.TenantNames()
	}
	if !cfg.IsRegistered(name) {
		logger.Warn("Tenant is not registered, using its name as the schema", "tenant", name)
	}
	return []string{name}
}

// DesignTime returns the provider and session factory used when scripting
// against the default schema. Models built through the factory are cached
// apart from the ones built for tenants.
func DesignTime(connectionString string, registry *dbschema.Registry, logger *slog.Logger) (*tenant.StaticProvider, *session.Factory) {
	provider := tenant.NewStaticProvider(tenant.DefaultSchemaName, connectionString)
	return provider, session.NewFactory(provider, registry, session.WithDesignTime()).WithLogger(logger)
}

// BuildModels compiles every entity the migrations create through factory.
func BuildModels(ctx context.Context, factory *session.Factory) error {
	s, err := factory.Open(ctx)
	if err != nil {
		return err
	}
	for _, entity := range []any{customers.Customer{}} {
		m, err := s.Model(ctx, entity)
		if err != nil {
			return fmt.Errorf("failed to build model: %w", err)
		}
		s.Logger().DebugContext(ctx, "Built model", "type", m.Type, "schema", m.Table.Schema, "table", m.Table.Name)
	}
	return nil
}

// Write writes one script per tenant and migration to w. Down scripts list
// migrations newest first.
func Write(ctx context.Context, w io.Writer, gen *generator.Generator, scoper tenant.Scoper, tenants []string, provider migrator.MigrationProvider, down bool) error {
	migrations := provider.Migrations()
	for _, name := range tenants {
		tenantCtx, scope := scoper.BeginScope(ctx, name)
		for i := range migrations {
			m := migrations[i]
			build, verb := m.Up, "Up"
			if down {
				m = migrations[len(migrations)-1-i]
				build, verb = m.Down, "Down"
			}

			title := fmt.Sprintf("Tenant %s: migration %d %s (%s)", name, m.Version, m.Description, verb)
			script, err := gen.Script(tenantCtx, title, build())
			if err != nil {
				scope.End()
				return fmt.Errorf("tenant %s: migration %d: %w", name, m.Version, err)
			}
			fmt.Fprintln(w, script)
		}
		scope.End()
	}
	return nil
}
