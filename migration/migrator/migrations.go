package migrator

import (
	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
)

// OperationsFunc builds the operations of one migration direction.
//
// It is called once per run: operations are stamped with the tenant's schema
// in place, so they must never be shared between tenants.
type OperationsFunc func() []ast.Operation

// NoopOperations is a migration direction that does nothing
func NoopOperations() []ast.Operation {
	return nil
}

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          OperationsFunc
	Down        OperationsFunc
}

// History table columns.
const (
	versionColumn     = "version"
	descriptionColumn = "description"
	appliedAtColumn   = "applied_at"
)

// historyTableOperations creates the tenant schema and its migrations history table.
func historyTableOperations(table, dialect string) []ast.Operation {
	descriptionType := "VARCHAR(255)"
	appliedAtType := "TIMESTAMP"
	switch dialect {
	case platform.Postgres:
		appliedAtType = "TIMESTAMPTZ"
	case platform.SQLServer:
		descriptionType = "NVARCHAR(255)"
		appliedAtType = "DATETIME2"
	}

	return []ast.Operation{
		ast.NewEnsureSchema(""),
		ast.NewCreateTable(table).
			SetIfNotExists().
			AddColumn(ast.NewColumn(versionColumn, "BIGINT").SetNotNull()).
			AddColumn(ast.NewColumn(descriptionColumn, descriptionType).SetNotNull()).
			AddColumn(ast.NewColumn(appliedAtColumn, appliedAtType).SetNotNull().SetDefaultExpression("CURRENT_TIMESTAMP")).
			SetPrimaryKey("PK_"+table, versionColumn),
	}
}
