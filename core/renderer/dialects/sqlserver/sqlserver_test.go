package sqlserver_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlserver"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.Operation
		expected []string
	}{
		{
			name:     "ensure schema",
			op:       ast.NewEnsureSchema("acme"),
			expected: []string{"IF SCHEMA_ID(N'acme') IS NULL EXEC(N'CREATE SCHEMA [acme];')"},
		},
		{
			name:     "ensure schema escapes quotes at both levels",
			op:       ast.NewEnsureSchema("o'neil"),
			expected: []string{"IF SCHEMA_ID(N'o''neil') IS NULL EXEC(N'CREATE SCHEMA [o''neil];')"},
		},
		{
			name:     "drop schema ignores cascade",
			op:       ast.NewDropSchema("acme").SetCascade(),
			expected: []string{"DROP SCHEMA [acme]"},
		},
		{
			name: "create table",
			op: ast.NewCreateTable("Customers").
				SetSchema("acme").
				AddColumn(ast.NewColumn("Id", "int").SetAutoIncrement()).
				AddColumn(ast.NewColumn("Active", "bit").SetNotNull().SetDefault("1")).
				SetPrimaryKey("PK_Customers", "Id"),
			expected: []string{"CREATE TABLE [acme].[Customers] (\n" +
				"    [Id] int NOT NULL IDENTITY(1,1),\n" +
				"    [Active] bit NOT NULL DEFAULT 1,\n" +
				"    CONSTRAINT [PK_Customers] PRIMARY KEY ([Id])\n" +
				")"},
		},
		{
			name:     "add column",
			op:       &ast.AddColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Email", "nvarchar(320)")},
			expected: []string{"ALTER TABLE [acme].[Customers] ADD [Email] nvarchar(320)"},
		},
		{
			name: "alter column with default",
			op:   &ast.AlterColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Active", "bit").SetNotNull().SetDefault("1")},
			expected: []string{
				"ALTER TABLE [acme].[Customers] ALTER COLUMN [Active] bit NOT NULL",
				"ALTER TABLE [acme].[Customers] ADD DEFAULT 1 FOR [Active]",
			},
		},
		{
			name:     "rename column",
			op:       &ast.RenameColumnNode{Schema: "acme", Table: "Customers", Name: "Email", NewName: "Mail"},
			expected: []string{"EXEC sp_rename N'[acme].[Customers].[Email]', N'Mail', N'COLUMN'"},
		},
		{
			name: "move and rename table",
			op:   &ast.RenameTableNode{Schema: "acme", Name: "Customers", NewSchema: "archive", NewName: "Clients"},
			expected: []string{
				"ALTER SCHEMA [archive] TRANSFER [acme].[Customers]",
				"EXEC sp_rename N'[archive].[Customers]', N'Clients'",
			},
		},
		{
			name:     "drop index",
			op:       &ast.DropIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email"},
			expected: []string{"DROP INDEX [IX_Email] ON [acme].[Customers]"},
		},
		{
			name:     "rename index",
			op:       &ast.RenameIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email", NewName: "IX_Mail"},
			expected: []string{"EXEC sp_rename N'[acme].[Customers].[IX_Email]', N'IX_Mail', N'INDEX'"},
		},
		{
			name: "insert data",
			op: &ast.InsertDataNode{
				Schema:  "acme",
				Table:   "Customers",
				Columns: []string{"FirstName", "Active"},
				Values:  [][]any{{"ACME-Jane", true}, {"ACME-John", false}},
			},
			expected: []string{"INSERT INTO [acme].[Customers] ([FirstName], [Active]) VALUES (N'ACME-Jane', 1), (N'ACME-John', 0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			statements, err := sqlserver.New().Render(tt.op)

			c.Assert(err, qt.IsNil)
			c.Assert(statements, qt.DeepEquals, tt.expected)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	c := qt.New(t)
	c.Assert(sqlserver.QuoteIdentifier("a]b"), qt.Equals, "[a]]b]")
}

func TestRenderer_CreateTableIfNotExists(t *testing.T) {
	c := qt.New(t)

	statements, err := sqlserver.New().Render(ast.NewCreateTable("History").
		SetSchema("acme").
		AddColumn(ast.NewColumn("Version", "bigint").SetNotNull()).
		SetIfNotExists())

	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.DeepEquals, []string{
		"IF OBJECT_ID(N'[acme].[History]', N'U') IS NULL CREATE TABLE [acme].[History] (\n    [Version] bigint NOT NULL\n)",
	})
}
