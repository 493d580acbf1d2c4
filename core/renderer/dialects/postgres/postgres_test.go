package postgres_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/renderer/dialects/postgres"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlbase"
)

func customersTable() *ast.CreateTableNode {
	return ast.NewCreateTable("Customers").
		SetSchema("acme").
		AddColumn(ast.NewColumn("Id", "integer").SetAutoIncrement()).
		AddColumn(ast.NewColumn("FirstName", "text").SetNotNull()).
		AddColumn(ast.NewColumn("LastName", "text")).
		SetPrimaryKey("PK_Customers", "Id")
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		op       ast.Operation
		expected []string
	}{
		{
			name:     "ensure schema",
			op:       ast.NewEnsureSchema("acme"),
			expected: []string{`CREATE SCHEMA IF NOT EXISTS "acme"`},
		},
		{
			name: "create table",
			op:   customersTable(),
			expected: []string{"CREATE TABLE \"acme\".\"Customers\" (\n" +
				"    \"Id\" integer NOT NULL GENERATED BY DEFAULT AS IDENTITY,\n" +
				"    \"FirstName\" text NOT NULL,\n" +
				"    \"LastName\" text,\n" +
				"    CONSTRAINT \"PK_Customers\" PRIMARY KEY (\"Id\")\n" +
				")"},
		},
		{
			name: "create table with comment",
			op:   ast.NewCreateTable("Tags").SetSchema("acme").AddColumn(ast.NewColumn("Name", "text")).SetComment("free-form tags"),
			expected: []string{
				"CREATE TABLE \"acme\".\"Tags\" (\n    \"Name\" text\n)",
				`COMMENT ON TABLE "acme"."Tags" IS 'free-form tags'`,
			},
		},
		{
			name:     "drop table if exists",
			op:       &ast.DropTableNode{Schema: "acme", Name: "Customers", IfExists: true},
			expected: []string{`DROP TABLE IF EXISTS "acme"."Customers"`},
		},
		{
			name:     "rename table within schema",
			op:       &ast.RenameTableNode{Schema: "acme", Name: "Customers", NewSchema: "acme", NewName: "Clients"},
			expected: []string{`ALTER TABLE "acme"."Customers" RENAME TO "Clients"`},
		},
		{
			name: "move and rename table",
			op:   &ast.RenameTableNode{Schema: "acme", Name: "Customers", NewSchema: "archive", NewName: "Clients"},
			expected: []string{
				`ALTER TABLE "acme"."Customers" SET SCHEMA "archive"`,
				`ALTER TABLE "archive"."Customers" RENAME TO "Clients"`,
			},
		},
		{
			name: "alter column",
			op:   &ast.AlterColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Email", "varchar(320)").SetNotNull()},
			expected: []string{
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" TYPE varchar(320)`,
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" SET NOT NULL`,
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" DROP DEFAULT`,
			},
		},
		{
			name: "alter column with default",
			op:   &ast.AlterColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Email", "text").SetDefault("''")},
			expected: []string{
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" TYPE text`,
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" DROP NOT NULL`,
				`ALTER TABLE "acme"."Customers" ALTER COLUMN "Email" SET DEFAULT ''`,
			},
		},
		{
			name:     "add column",
			op:       &ast.AddColumnNode{Schema: "acme", Table: "Customers", Column: ast.NewColumn("Email", "text")},
			expected: []string{`ALTER TABLE "acme"."Customers" ADD COLUMN "Email" text`},
		},
		{
			name:     "drop column",
			op:       &ast.DropColumnNode{Schema: "acme", Table: "Customers", Name: "Email"},
			expected: []string{`ALTER TABLE "acme"."Customers" DROP COLUMN "Email"`},
		},
		{
			name:     "rename column",
			op:       &ast.RenameColumnNode{Schema: "acme", Table: "Customers", Name: "Email", NewName: "Mail"},
			expected: []string{`ALTER TABLE "acme"."Customers" RENAME COLUMN "Email" TO "Mail"`},
		},
		{
			name: "unique filtered index",
			op: &ast.CreateIndexNode{
				Schema:  "acme",
				Table:   "Customers",
				Name:    "IX_Email",
				Columns: []string{"Email"},
				Unique:  true,
				Filter:  `"Email" IS NOT NULL`,
			},
			expected: []string{`CREATE UNIQUE INDEX "IX_Email" ON "acme"."Customers" ("Email") WHERE "Email" IS NOT NULL`},
		},
		{
			name:     "drop index",
			op:       &ast.DropIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email"},
			expected: []string{`DROP INDEX "acme"."IX_Email"`},
		},
		{
			name:     "rename index",
			op:       &ast.RenameIndexNode{Schema: "acme", Table: "Customers", Name: "IX_Email", NewName: "IX_Mail"},
			expected: []string{`ALTER INDEX "acme"."IX_Email" RENAME TO "IX_Mail"`},
		},
		{
			name: "add foreign key",
			op: &ast.AddForeignKeyNode{
				Schema:           "acme",
				Table:            "Orders",
				Name:             "FK_Orders_Customers",
				Columns:          []string{"CustomerId"},
				PrincipalSchema:  "acme",
				PrincipalTable:   "Customers",
				PrincipalColumns: []string{"Id"},
				OnDelete:         ast.ActionCascade,
			},
			expected: []string{`ALTER TABLE "acme"."Orders" ADD CONSTRAINT "FK_Orders_Customers" FOREIGN KEY ("CustomerId") REFERENCES "acme"."Customers" ("Id") ON DELETE CASCADE`},
		},
		{
			name:     "drop foreign key",
			op:       &ast.DropForeignKeyNode{Schema: "acme", Table: "Orders", Name: "FK_Orders_Customers"},
			expected: []string{`ALTER TABLE "acme"."Orders" DROP CONSTRAINT "FK_Orders_Customers"`},
		},
		{
			name: "insert data",
			op: &ast.InsertDataNode{
				Schema:  "acme",
				Table:   "Customers",
				Columns: []string{"FirstName", "Active", "Score"},
				Values:  [][]any{{"O'Brien", true, 3}, {nil, false, 2.5}},
			},
			expected: []string{`INSERT INTO "acme"."Customers" ("FirstName", "Active", "Score") VALUES ('O''Brien', TRUE, 3), (NULL, FALSE, 2.5)`},
		},
		{
			name:     "raw sql",
			op:       ast.NewSQL("SELECT 1;"),
			expected: []string{"SELECT 1"},
		},
		{
			name:     "multi-line comment",
			op:       ast.NewComment("first\nsecond"),
			expected: []string{"-- first", "-- second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			statements, err := postgres.New().Render(tt.op)

			c.Assert(err, qt.IsNil)
			c.Assert(statements, qt.DeepEquals, tt.expected)
		})
	}
}

func TestRenderer_UnqualifiedNames(t *testing.T) {
	c := qt.New(t)

	statements, err := postgres.New().Render(ast.NewDropTable("Customers"))

	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.DeepEquals, []string{`DROP TABLE "Customers"`})
}

func TestRenderer_InsertErrors(t *testing.T) {
	c := qt.New(t)
	r := postgres.New()

	_, err := r.Render(ast.NewInsertData("Customers", "Payload").AddRow(struct{}{}))
	c.Assert(err, qt.ErrorIs, sqlbase.ErrUnsupportedLiteral)

	_, err = r.Render(ast.NewInsertData("Customers", "FirstName", "LastName").AddRow("John"))
	c.Assert(err, qt.ErrorMatches, `insert into Customers: row 0 has 1 values for 2 columns`)
}

func TestRenderer_ResetsBetweenRenders(t *testing.T) {
	c := qt.New(t)
	r := postgres.New()

	_, err := r.Render(customersTable())
	c.Assert(err, qt.IsNil)

	statements, err := r.Render(ast.NewEnsureSchema("globex"))
	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.DeepEquals, []string{`CREATE SCHEMA IF NOT EXISTS "globex"`})

	statements, err = r.Render(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.HasLen, 0)
}

func TestRenderer_CreateTableIfNotExists(t *testing.T) {
	c := qt.New(t)

	statements, err := postgres.New().Render(ast.NewCreateTable("History").
		SetSchema("acme").
		AddColumn(ast.NewColumn("Version", "bigint").SetNotNull()).
		SetIfNotExists())

	c.Assert(err, qt.IsNil)
	c.Assert(statements, qt.DeepEquals, []string{
		"CREATE TABLE IF NOT EXISTS \"acme\".\"History\" (\n    \"Version\" bigint NOT NULL\n)",
	})
}
