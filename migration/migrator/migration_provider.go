package migrator

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateVersion is returned when two migrations share a version.
var ErrDuplicateVersion = errors.New("duplicate migration version")

// MigrationProvider provides a list of migrations
type MigrationProvider interface {
	// Migrations provides a list of migrations sorted by version in ascending order
	Migrations() []*Migration
}

// RegisteredMigrationProvider is a simple in-memory implementation of MigrationProvider
type RegisteredMigrationProvider struct {
	migrations []*Migration
	sorted     bool
}

// NewRegisteredMigrationProvider creates a new in-memory migration provider with the given migrations.
// The migrations will be sorted by version when accessed through the Migrations() method.
func NewRegisteredMigrationProvider(migrations ...*Migration) *RegisteredMigrationProvider {
	return &RegisteredMigrationProvider{
		migrations: migrations,
	}
}

// Register adds a migration to the provider
func (p *RegisteredMigrationProvider) Register(migration *Migration) {
	p.migrations = append(p.migrations, migration)
	p.sorted = false
}

// Migrations returns the list of migrations sorted by version in ascending order
func (p *RegisteredMigrationProvider) Migrations() []*Migration {
	p.maybeSort()
	return p.migrations
}

// maybeSort sorts the migrations if they haven't been sorted yet
func (p *RegisteredMigrationProvider) maybeSort() {
	if p.sorted {
		return
	}
	sortMigrations(p.migrations)
	p.sorted = true
}

// ValidateMigrations checks that every migration has a positive version, a
// version of its own and both directions.
func ValidateMigrations(migrations []*Migration) error {
	seen := make(map[int]struct{}, len(migrations))
	for _, m := range migrations {
		if m.Version <= 0 {
			return fmt.Errorf("migration %q: version must be positive, got %d", m.Description, m.Version)
		}
		if _, ok := seen[m.Version]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateVersion, m.Version)
		}
		seen[m.Version] = struct{}{}
		if m.Up == nil || m.Down == nil {
			return fmt.Errorf("migration %d: both up and down operations are required", m.Version)
		}
	}
	return nil
}

func sortMigrations(migrations []*Migration) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}
