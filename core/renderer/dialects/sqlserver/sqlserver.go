// Package sqlserver renders migration operations for Microsoft SQL Server.
package sqlserver

import (
	"strings"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlbase"
	"github.com/stokaro/schemaroute/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// QuoteIdentifier quotes name with square brackets.
func QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteString renders s as a Unicode string literal.
func QuoteString(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Renderer provides SQL Server-specific SQL rendering
type Renderer struct {
	*sqlbase.Renderer
}

// New creates a new SQL Server renderer
func New() *Renderer {
	return &Renderer{
		Renderer: sqlbase.New(sqlbase.Syntax{
			Dialect:         platform.SQLServer,
			QuoteIdentifier: QuoteIdentifier,
			QuoteString:     QuoteString,
			True:            "1",
			False:           "0",
			AutoIncrement:   "IDENTITY(1,1)",
		}),
	}
}

// Render renders an operation to SQL Server statements
func (r *Renderer) Render(op ast.Operation) ([]string, error) {
	return r.RenderWith(r, op)
}

// VisitEnsureSchema creates the schema only when SCHEMA_ID finds nothing.
// CREATE SCHEMA must be alone in its batch, hence the EXEC.
func (r *Renderer) VisitEnsureSchema(node *ast.EnsureSchemaNode) error {
	create := "CREATE SCHEMA " + r.Quote(node.Name) + ";"
	r.Writer().WriteStatementf("IF SCHEMA_ID(%s) IS NULL EXEC(%s)", r.QuoteString(node.Name), r.QuoteString(create))
	return nil
}

// VisitDropSchema renders DROP SCHEMA; SQL Server has no CASCADE
func (r *Renderer) VisitDropSchema(node *ast.DropSchemaNode) error {
	r.Writer().WriteStatementf("DROP SCHEMA %s", r.Quote(node.Name))
	return nil
}

// VisitRenameTable transfers the table to its new schema, then renames it with sp_rename
func (r *Renderer) VisitRenameTable(node *ast.RenameTableNode) error {
	schema := node.Schema
	if node.NewSchema != "" && node.NewSchema != node.Schema {
		r.Writer().WriteStatementf("ALTER SCHEMA %s TRANSFER %s", r.Quote(node.NewSchema), r.Qualify(node.Schema, node.Name))
		schema = node.NewSchema
	}
	if node.NewName != "" && node.NewName != node.Name {
		r.Writer().WriteStatementf("EXEC sp_rename %s, %s",
			r.QuoteString(r.Qualify(schema, node.Name)), r.QuoteString(node.NewName))
	}
	return nil
}

// VisitCreateTable guards the statement with OBJECT_ID when the table may already exist
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	table := r.Qualify(node.Schema, node.Name)
	stmt := "CREATE TABLE " + table + " " + r.TableBody(node)
	if node.IfNotExists {
		stmt = "IF OBJECT_ID(" + r.QuoteString(table) + ", N'U') IS NULL " + stmt
	}
	r.Writer().WriteStatement(stmt)
	return nil
}

// VisitAddColumn renders ALTER TABLE ... ADD
func (r *Renderer) VisitAddColumn(node *ast.AddColumnNode) error {
	r.Writer().WriteStatementf("ALTER TABLE %s ADD %s", r.Qualify(node.Schema, node.Table), r.ColumnDefinition(node.Column))
	return nil
}

// VisitAlterColumn renders ALTER COLUMN with type and nullability, and adds a
// default constraint when the column has one
func (r *Renderer) VisitAlterColumn(node *ast.AlterColumnNode) error {
	table := r.Qualify(node.Schema, node.Table)
	col := node.Column
	null := "NULL"
	if !col.Nullable {
		null = "NOT NULL"
	}
	r.Writer().WriteStatementf("ALTER TABLE %s ALTER COLUMN %s %s %s", table, r.Quote(col.Name), col.Type, null)
	if def := sqlbase.DefaultClause(col.Default); def != "" {
		r.Writer().WriteStatementf("ALTER TABLE %s ADD DEFAULT %s FOR %s", table, def, r.Quote(col.Name))
	}
	return nil
}

// VisitRenameColumn renders sp_rename with the COLUMN object type
func (r *Renderer) VisitRenameColumn(node *ast.RenameColumnNode) error {
	target := r.Qualify(node.Schema, node.Table) + "." + r.Quote(node.Name)
	r.Writer().WriteStatementf("EXEC sp_rename %s, %s, N'COLUMN'", r.QuoteString(target), r.QuoteString(node.NewName))
	return nil
}

// VisitRenameIndex renders sp_rename with the INDEX object type
func (r *Renderer) VisitRenameIndex(node *ast.RenameIndexNode) error {
	target := r.Qualify(node.Schema, node.Table) + "." + r.Quote(node.Name)
	r.Writer().WriteStatementf("EXEC sp_rename %s, %s, N'INDEX'", r.QuoteString(target), r.QuoteString(node.NewName))
	return nil
}
