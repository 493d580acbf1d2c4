// Package customers is the sample tenant-scoped domain: a customers table,
// its migrations and the seed data every tenant starts with.
package customers

import (
	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/migration/migrator"
)

// TableName is the customers table, created in every tenant schema.
const TableName = "Customers"

// Customer is a row of the customers table.
type Customer struct {
	CustomerID int64  `db:"CustomerId,key,generated" json:"customerId"`
	FirstName  string `db:"FirstName" json:"firstName"`
	LastName   string `db:"LastName" json:"lastName"`
}

// TableName implements model.Namer.
func (Customer) TableName() string {
	return TableName
}

// Migrations returns the customers migrations.
func Migrations() *migrator.RegisteredMigrationProvider {
	return migrator.NewRegisteredMigrationProvider(
		&migrator.Migration{
			Version:     1,
			Description: "InitialCreate",
			Up: func() []ast.Operation {
				return []ast.Operation{
					ast.NewCreateTable(TableName).
						AddColumn(ast.NewColumn("CustomerId", "INTEGER").SetAutoIncrement()).
						AddColumn(ast.NewColumn("FirstName", "VARCHAR(200)").SetNotNull()).
						AddColumn(ast.NewColumn("LastName", "VARCHAR(200)").SetNotNull()).
						SetPrimaryKey("PK_CustomerId", "CustomerId"),
				}
			},
			Down: func() []ast.Operation {
				return []ast.Operation{ast.NewDropTable(TableName)}
			},
		},
	)
}
