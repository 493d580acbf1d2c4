// Package migrator applies versioned migrations to the schema of one tenant.
//
// Migrations are built from operations rather than SQL text. Each run builds
// fresh operations, stamps them with the tenant's schema and renders them for
// the target's dialect, so one set of migrations replays into every tenant.
// Applied versions are recorded in a history table inside the tenant schema.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/model"
	"github.com/stokaro/schemaroute/core/renderer"
	"github.com/stokaro/schemaroute/migration/generator"
)

// MigrationStatus represents the current state of migrations
type MigrationStatus struct {
	CurrentVersion    int   `json:"current_version"`
	AppliedMigrations []int `json:"applied_migrations"`
	PendingMigrations []int `json:"pending_migrations"`
	TotalMigrations   int   `json:"total_migrations"`
	HasPendingChanges bool  `json:"has_pending_changes"`
}

// Target is the database a migrator runs against. session.Session satisfies it.
type Target interface {
	DB() *sql.DB
	Dialect() string
	HistoryTable() model.Table
	Generator() *generator.Generator
}

// Migrator handles database migrations for one tenant schema
type Migrator struct {
	target            Target
	migrationProvider MigrationProvider
	initialized       bool
	logger            *slog.Logger
}

// NewMigrator creates a new migrator for target
func NewMigrator(target Target, provider MigrationProvider) *Migrator {
	return &Migrator{
		target:            target,
		migrationProvider: provider,
		logger:            slog.Default(),
	}
}

// WithLogger sets the logger for the migrator
func (m *Migrator) WithLogger(l *slog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

// MigrationProvider returns the migration provider
func (m *Migrator) MigrationProvider() MigrationProvider {
	return m.migrationProvider
}

// Initialize creates the tenant schema and the migrations table if they don't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	if m.initialized {
		return nil
	}

	if err := ValidateMigrations(m.migrationProvider.Migrations()); err != nil {
		return err
	}

	table := m.target.HistoryTable()
	statements, err := m.target.Generator().Generate(ctx, historyTableOperations(table.Name, m.target.Dialect()))
	if err != nil {
		return fmt.Errorf("failed to generate migrations table: %w", err)
	}

	for _, stmt := range statements {
		if _, err := m.target.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}
	}

	m.initialized = true
	return nil
}

// GetAppliedMigrations returns a list of applied migration versions in ascending order
func (m *Migrator) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrations table: %w", err)
	}

	r, err := renderer.New(m.target.Dialect())
	if err != nil {
		return nil, err
	}
	table := m.target.HistoryTable()
	version := r.Qualify("", versionColumn)
	query := "SELECT " + version + " FROM " + r.Qualify(table.Schema, table.Name) + " ORDER BY " + version

	rows, err := m.target.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied = append(applied, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}

	return applied, nil
}

// GetCurrentVersion returns the highest applied migration version, or 0 when
// nothing has been applied
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int, error) {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}
	if len(applied) == 0 {
		return 0, nil
	}
	return slices.Max(applied), nil
}

// GetPendingMigrations returns the versions of known migrations that have not
// been applied, in ascending order
func (m *Migrator) GetPendingMigrations(ctx context.Context) ([]int, error) {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var pending []int
	for _, migration := range m.migrationProvider.Migrations() {
		if !slices.Contains(applied, migration.Version) {
			pending = append(pending, migration.Version)
		}
	}

	return pending, nil
}

// GetPreviousMigrationVersion finds the previous migration version compared to the current one.
// Returns an error and -1 if no previous migrations exist.
func (m *Migrator) GetPreviousMigrationVersion(ctx context.Context) (int, error) {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return -1, fmt.Errorf("failed to get current version: %w", err)
	}

	if currentVersion == 0 {
		return -1, fmt.Errorf("no previous migrations exist")
	}

	previousVersion := 0
	for _, migration := range m.migrationProvider.Migrations() {
		if migration.Version >= currentVersion {
			break
		}
		previousVersion = migration.Version
	}

	return previousVersion, nil
}

// GetMigrationStatus returns information about the current migration status
func (m *Migrator) GetMigrationStatus(ctx context.Context) (*MigrationStatus, error) {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	pendingMigrations, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending migrations: %w", err)
	}

	currentVersion := 0
	if len(applied) > 0 {
		currentVersion = slices.Max(applied)
	}

	return &MigrationStatus{
		CurrentVersion:    currentVersion,
		AppliedMigrations: applied,
		PendingMigrations: pendingMigrations,
		TotalMigrations:   len(m.migrationProvider.Migrations()),
		HasPendingChanges: len(pendingMigrations) > 0,
	}, nil
}

// MigrateUp applies every pending migration
func (m *Migrator) MigrateUp(ctx context.Context) error {
	return m.migrateUpTo(ctx, -1)
}

// MigrateDown reverts the latest applied migration
func (m *Migrator) MigrateDown(ctx context.Context) error {
	targetVersion, err := m.GetPreviousMigrationVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get previous version: %w", err)
	}

	return m.MigrateDownTo(ctx, targetVersion)
}

// MigrateDownTo reverts every applied migration newer than targetVersion
func (m *Migrator) MigrateDownTo(ctx context.Context, targetVersion int) error {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations := slices.Clone(m.migrationProvider.Migrations())
	slices.Reverse(migrations)

	m.logger.InfoContext(ctx, "Migrating down", "targetVersion", targetVersion, "appliedMigrations", len(applied))

	for _, migration := range migrations {
		if migration.Version <= targetVersion || !slices.Contains(applied, migration.Version) {
			continue
		}

		m.logger.InfoContext(ctx, "Rolling back migration", "version", migration.Version, "description", migration.Description)

		record, err := m.deleteRecordSQL(migration.Version)
		if err != nil {
			return err
		}
		if err := m.apply(ctx, migration.Down, record); err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}

		m.logger.InfoContext(ctx, "Rolled back migration", "version", migration.Version, "description", migration.Description)
	}

	m.logger.InfoContext(ctx, "Migrated down successfully", "targetVersion", targetVersion)
	return nil
}

// MigrateTo migrates the database to a specific version (up or down)
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if targetVersion < currentVersion {
		return m.MigrateDownTo(ctx, targetVersion)
	}

	// Pending migrations below the current version are applied as well.
	return m.migrateUpTo(ctx, targetVersion)
}

// migrateUpTo applies pending migrations up to targetVersion; a negative
// target applies all of them.
func (m *Migrator) migrateUpTo(ctx context.Context, targetVersion int) error {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations := m.migrationProvider.Migrations()

	m.logger.InfoContext(ctx, "Migrating up", "appliedMigrations", len(applied), "targetVersion", targetVersion, "totalMigrations", len(migrations))

	for _, migration := range migrations {
		if targetVersion >= 0 && migration.Version > targetVersion {
			break
		}
		if slices.Contains(applied, migration.Version) {
			m.logger.DebugContext(ctx, "Skipping migration", "version", migration.Version, "description", migration.Description)
			continue
		}

		m.logger.InfoContext(ctx, "Applying migration", "version", migration.Version, "description", migration.Description)

		record, err := m.insertRecordSQL(migration)
		if err != nil {
			return err
		}
		if err := m.apply(ctx, migration.Up, record); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}

		m.logger.InfoContext(ctx, "Applied migration", "version", migration.Version, "description", migration.Description)
	}

	m.logger.InfoContext(ctx, "All migrations applied successfully")
	return nil
}

// apply generates the statements of build for the tenant in ctx and runs them
// followed by the history statements in one transaction.
func (m *Migrator) apply(ctx context.Context, build OperationsFunc, history []string) error {
	statements, err := m.target.Generator().Generate(ctx, build())
	if err != nil {
		return err
	}

	tx, err := m.target.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, stmt := range append(statements, history...) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (m *Migrator) insertRecordSQL(migration *Migration) ([]string, error) {
	r, err := renderer.New(m.target.Dialect())
	if err != nil {
		return nil, err
	}
	table := m.target.HistoryTable()
	insert := ast.NewInsertData(table.Name, versionColumn, descriptionColumn).
		AddRow(migration.Version, migration.Description)
	insert.Schema = table.Schema
	return r.Render(insert)
}

func (m *Migrator) deleteRecordSQL(version int) ([]string, error) {
	r, err := renderer.New(m.target.Dialect())
	if err != nil {
		return nil, err
	}
	table := m.target.HistoryTable()
	return []string{
		"DELETE FROM " + r.Qualify(table.Schema, table.Name) + " WHERE " + r.Qualify("", versionColumn) + " = " + strconv.Itoa(version),
	}, nil
}
