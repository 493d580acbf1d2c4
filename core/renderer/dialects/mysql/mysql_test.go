package mysql_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/mariadb"
	"github.com/stokaro/schemaroute/core/renderer/dialects/mysql"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.Operation
		expected []string
	}{
		{
			name:     "ensure schema creates a database",
			op:       ast.NewEnsureSchema("acme"),
			expected: []string{"CREATE DATABASE IF NOT EXISTS `acme`"},
		},
		{
			name:     "drop schema drops the database",
			op:       ast.NewDropSchema("acme").SetCascade(),
			expected: []string{"DROP DATABASE `acme`"},
		},
		{
			name: "create table with comment",
			op: ast.NewCreateTable("Customers").
				SetSchema("acme").
				AddColumn(ast.NewColumn("Id", "int").SetAutoIncrement()).
				SetPrimaryKey("PK_Customers", "Id").
				SetComment("it's customers"),
			expected: []string{"CREATE TABLE `acme`.`Customers` (\n" +
				"    `Id` int NOT NULL AUTO_INCREMENT,\n" +
				"    CONSTRAINT `PK_Customers` PRIMARY KEY (`Id`)\n" +
				") COMMENT='it''s customers'"},
		},
		{
			name:     "rename table",
			op:       &ast.RenameTableNode{Schema: "acme", Name: "Customers", NewSchema: "acme", NewName: "Clients"},
			expected: []string{"RENAME TABLE `acme`.`Customers` TO `acme`.`Clients`"},
		},
		{
			name:     "rename table keeps schema when none is given",
			op:       &ast.RenameTableNode{Schema: "acme", Name: "Customers", NewName: "Clients"},
			expected: []string{"RENAME TABLE `acme`.`Customers` TO `acme`.`Clients`"},
		},
		{
			name:     "alter column",
			op:       &ast.AlterColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Email", "varchar(320)").SetNotNull().SetDefault("''")},
			expected: []string{"ALTER TABLE `acme`.`Customers` MODIFY COLUMN `Email` varchar(320) NOT NULL DEFAULT ''"},
		},
		{
			name:     "create index",
			op:       &ast.CreateIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email", Columns: []string{"Email", "Id"}},
			expected: []string{"CREATE INDEX `IX_Email` ON `acme`.`Customers` (`Email`, `Id`)"},
		},
		{
			name:     "drop index",
			op:       &ast.DropIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email"},
			expected: []string{"DROP INDEX `IX_Email` ON `acme`.`Customers`"},
		},
		{
			name:     "rename index",
			op:       &ast.RenameIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email", NewName: "IX_Mail"},
			expected: []string{"ALTER TABLE `acme`.`Customers` RENAME INDEX `IX_Email` TO `IX_Mail`"},
		},
		{
			name:     "drop foreign key",
			op:       &ast.DropForeignKeyNode{Schema: "acme", Table: "Orders", Name: "FK_Orders_Customers"},
			expected: []string{"ALTER TABLE `acme`.`Orders` DROP FOREIGN KEY `FK_Orders_Customers`"},
		},
		{
			name: "insert data",
			op: &ast.InsertDataNode{
				Schema:  "acme",
				Table:   "Customers",
				Columns: []string{"FirstName", "Active"},
				Values:  [][]any{{`back\slash`, true}},
			},
			expected: []string{"INSERT INTO `acme`.`Customers` (`FirstName`, `Active`) VALUES ('back\\\\slash', TRUE)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			statements, err := mysql.New().Render(tt.op)

			c.Assert(err, qt.IsNil)
			c.Assert(statements, qt.DeepEquals, tt.expected)
		})
	}
}

func TestRenderer_FilteredIndex(t *testing.T) {
	c := qt.New(t)

	_, err := mysql.New().Render(ast.NewCreateIndex("IX_Email", "Customers", "Email").SetFilter("Email IS NOT NULL"))

	c.Assert(err, qt.ErrorIs, mysql.ErrFilteredIndex)
}

func TestQuoting(t *testing.T) {
	c := qt.New(t)

	c.Assert(mysql.QuoteIdentifier("we`ird"), qt.Equals, "`we``ird`")
	c.Assert(mysql.QuoteString(`a\b'c`), qt.Equals, `'a\\b''c'`)
}

func TestMariaDB(t *testing.T) {
	c := qt.New(t)
	r := mariadb.New()

	c.Assert(r.Dialect(), qt.Equals, platform.MariaDB)

	statements, err := r.Render(&ast.DropForeignKeyNode{Schema: "acme", Table: "Orders", Name: "FK_Orders_Customers"})
	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.DeepEquals, []string{"ALTER TABLE `acme`.`Orders` DROP FOREIGN KEY `FK_Orders_Customers`"})
}
