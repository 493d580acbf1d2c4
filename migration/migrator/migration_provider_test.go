package migrator_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/migration/migrator"
)

func noopMigration(version int, description string) *migrator.Migration {
	return &migrator.Migration{
		Version:     version,
		Description: description,
		Up:          migrator.NoopOperations,
		Down:        migrator.NoopOperations,
	}
}

func TestNewRegisteredMigrationProvider(t *testing.T) {
	c := qt.New(t)

	provider := migrator.NewRegisteredMigrationProvider()
	c.Assert(provider, qt.IsNotNil)
	c.Assert(provider.Migrations(), qt.HasLen, 0)

	provider = migrator.NewRegisteredMigrationProvider(noopMigration(1, "First migration"), noopMigration(2, "Second migration"))
	c.Assert(provider.Migrations(), qt.HasLen, 2)
}

func TestRegisteredMigrationProvider_Sorting(t *testing.T) {
	c := qt.New(t)

	provider := migrator.NewRegisteredMigrationProvider()
	provider.Register(noopMigration(3, "Third migration"))
	provider.Register(noopMigration(1, "First migration"))
	provider.Register(noopMigration(2, "Second migration"))

	migrations := provider.Migrations()
	c.Assert(migrations, qt.HasLen, 3)
	c.Assert(migrations[0].Version, qt.Equals, 1)
	c.Assert(migrations[1].Version, qt.Equals, 2)
	c.Assert(migrations[2].Version, qt.Equals, 3)

	// Registering after a read re-sorts on the next read.
	provider.Register(noopMigration(0, "Zero"))
	c.Assert(provider.Migrations()[0].Version, qt.Equals, 0)
}

func TestValidateMigrations(t *testing.T) {
	tests := []struct {
		name       string
		migrations []*migrator.Migration
		wantErr    string
	}{
		{
			name:       "valid",
			migrations: []*migrator.Migration{noopMigration(1, "a"), noopMigration(2, "b")},
		},
		{
			name:       "duplicate version",
			migrations: []*migrator.Migration{noopMigration(1, "a"), noopMigration(1, "b")},
			wantErr:    "duplicate migration version: 1",
		},
		{
			name:       "zero version",
			migrations: []*migrator.Migration{noopMigration(0, "zero")},
			wantErr:    `migration "zero": version must be positive, got 0`,
		},
		{
			name:       "missing down",
			migrations: []*migrator.Migration{{Version: 4, Description: "up only", Up: migrator.NoopOperations}},
			wantErr:    "migration 4: both up and down operations are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			err := migrator.ValidateMigrations(tt.migrations)
			if tt.wantErr == "" {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(err, qt.ErrorMatches, tt.wantErr)
		})
	}

	c := qt.New(t)
	err := migrator.ValidateMigrations([]*migrator.Migration{noopMigration(7, "a"), noopMigration(7, "b")})
	c.Assert(err, qt.ErrorIs, migrator.ErrDuplicateVersion)
}
