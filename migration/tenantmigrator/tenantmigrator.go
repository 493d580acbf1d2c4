// Package tenantmigrator migrates and seeds every configured tenant in turn.
//
// Each tenant runs inside its own tenant scope, so sessions, generated SQL and
// log records all resolve to that tenant. A failing tenant is logged and
// recorded, and the run moves on to the next one.
package tenantmigrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/stokaro/schemaroute/config"
	"github.com/stokaro/schemaroute/migration/migrator"
	"github.com/stokaro/schemaroute/session"
	"github.com/stokaro/schemaroute/tenant"
)

// Seeder populates a freshly migrated tenant.
type Seeder interface {
	Seed(ctx context.Context, s *session.Session) error
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(ctx context.Context, s *session.Session) error

// Seed calls f.
func (f SeederFunc) Seed(ctx context.Context, s *session.Session) error {
	return f(ctx, s)
}

// Result is the outcome for one tenant.
type Result struct {
	Tenant string
	Schema string
	// Applied lists the versions applied by the run
	Applied []int
	Status  *migrator.MigrationStatus
	Err     error
}

// Report collects the results of a run in tenant order.
type Report struct {
	Results []Result
}

// Failed returns the tenants that failed.
func (r Report) Failed() []string {
	var failed []string
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Tenant)
		}
	}
	return failed
}

// Err joins the errors of every failed tenant, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", res.Tenant, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Runner runs migrations for every configured tenant.
type Runner struct {
	config     *config.TenantConfiguration
	factory    *session.Factory
	migrations migrator.MigrationProvider
	seeder     Seeder
	target     int
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSeeder seeds every tenant after migrating it.
func WithSeeder(s Seeder) Option {
	return func(r *Runner) {
		r.seeder = s
	}
}

// WithTargetVersion migrates every tenant to version instead of the latest one.
func WithTargetVersion(version int) Option {
	return func(r *Runner) {
		r.target = version
	}
}

// New creates a runner for the tenants of cfg.
func New(cfg *config.TenantConfiguration, factory *session.Factory, migrations migrator.MigrationProvider, opts ...Option) *Runner {
	r := &Runner{
		config:     cfg,
		factory:    factory,
		migrations: migrations,
		target:     -1,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLogger sets the logger for the runner
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	tmp := *r
	tmp.logger = l
	return &tmp
}

// Run migrates, then seeds, every tenant in configuration order.
func (r *Runner) Run(ctx context.Context) Report {
	return r.each(ctx, r.migrate)
}

// Status reports the migration status of every tenant without changing anything
// but the history tables.
func (r *Runner) Status(ctx context.Context) Report {
	return r.each(ctx, func(ctx context.Context, m *migrator.Migrator, _ *session.Session, res *Result) error {
		status, err := m.GetMigrationStatus(ctx)
		res.Status = status
		return err
	})
}

type tenantFunc func(ctx context.Context, m *migrator.Migrator, s *session.Session, res *Result) error

func (r *Runner) each(ctx context.Context, fn tenantFunc) Report {
	var report Report
	for _, name := range r.config.TenantNames() {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{Tenant: name, Err: err})
			continue
		}
		report.Results = append(report.Results, r.runTenant(ctx, name, fn))
	}
	return report
}

func (r *Runner) runTenant(ctx context.Context, name string, fn tenantFunc) (res Result) {
	ctx, scope := r.factory.Provider().BeginScope(ctx, name)
	defer scope.End()

	logger := r.logger
	if attr, ok := tenant.LogAttr(ctx); ok {
		logger = logger.With(attr)
	}

	res = Result{Tenant: name, Schema: r.factory.Provider().SchemaName(ctx)}
	defer func() {
		if res.Err != nil {
			logger.ErrorContext(ctx, "Error when migrating database", "schema", res.Schema, "error", res.Err)
		}
	}()

	s, err := r.factory.WithLogger(r.logger).Open(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	m := migrator.NewMigrator(s, r.migrations).WithLogger(s.Logger())
	res.Err = fn(ctx, m, s, &res)
	return res
}

func (r *Runner) migrate(ctx context.Context, m *migrator.Migrator, s *session.Session, res *Result) error {
	s.Logger().InfoContext(ctx, "Migrating database", "schema", s.Schema())

	pending, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return err
	}

	if r.target >= 0 {
		err = m.MigrateTo(ctx, r.target)
	} else {
		err = m.MigrateUp(ctx)
	}
	if err != nil {
		return err
	}

	left, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return err
	}
	for _, v := range pending {
		if !slices.Contains(left, v) {
			res.Applied = append(res.Applied, v)
		}
	}

	s.Logger().InfoContext(ctx, "Database was migrated", "schema", s.Schema(), "applied", len(res.Applied))

	if r.seeder == nil {
		return nil
	}
	if err := r.seeder.Seed(ctx, s); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	return nil
}
