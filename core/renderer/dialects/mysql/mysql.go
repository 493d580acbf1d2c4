package mysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlbase"
	"github.com/stokaro/schemaroute/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// ErrFilteredIndex is returned for indexes with a filter; MySQL has no partial indexes.
var ErrFilteredIndex = errors.New("filtered indexes are not supported")

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// QuoteIdentifier quotes name with backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString renders s as a single-quoted literal, escaping backslashes.
func QuoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// Renderer provides MySQL-specific SQL rendering.
//
// A MySQL schema is a database, so schema operations render as database statements.
type Renderer struct {
	*sqlbase.Renderer
}

// New creates a new MySQL renderer
func New() *Renderer {
	return NewWithDialect(platform.MySQL)
}

// NewWithDialect creates a MySQL-compatible renderer reporting dialect as its platform
func NewWithDialect(dialect string) *Renderer {
	return &Renderer{
		Renderer: sqlbase.New(sqlbase.Syntax{
			Dialect:         dialect,
			QuoteIdentifier: QuoteIdentifier,
			QuoteString:     QuoteString,
			True:            "TRUE",
			False:           "FALSE",
			AutoIncrement:   "AUTO_INCREMENT",
		}),
	}
}

// Render renders an operation to MySQL statements
func (r *Renderer) Render(op ast.Operation) ([]string, error) {
	return r.RenderWith(r, op)
}

// VisitEnsureSchema renders CREATE DATABASE IF NOT EXISTS
func (r *Renderer) VisitEnsureSchema(node *ast.EnsureSchemaNode) error {
	r.Writer().WriteStatementf("CREATE DATABASE IF NOT EXISTS %s", r.Quote(node.Name))
	return nil
}

// VisitDropSchema renders DROP DATABASE; every object in it goes too
func (r *Renderer) VisitDropSchema(node *ast.DropSchemaNode) error {
	r.Writer().WriteStatementf("DROP DATABASE %s", r.Quote(node.Name))
	return nil
}

// VisitCreateTable renders CREATE TABLE with the comment as a table option
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	w := r.Writer()
	w.WriteStringf("%s %s", r.CreateTableClause(node), r.TableBody(node))
	if node.Comment != "" {
		w.WriteStringf(" COMMENT=%s", r.QuoteString(node.Comment))
	}
	w.EndStatement()
	return nil
}

// VisitRenameTable renders RENAME TABLE, which can also move a table between databases
func (r *Renderer) VisitRenameTable(node *ast.RenameTableNode) error {
	schema := node.NewSchema
	if schema == "" {
		schema = node.Schema
	}
	name := node.NewName
	if name == "" {
		name = node.Name
	}
	r.Writer().WriteStatementf("RENAME TABLE %s TO %s", r.Qualify(node.Schema, node.Name), r.Qualify(schema, name))
	return nil
}

// VisitAlterColumn renders MODIFY COLUMN with the full new definition
func (r *Renderer) VisitAlterColumn(node *ast.AlterColumnNode) error {
	r.Writer().WriteStatementf("ALTER TABLE %s MODIFY COLUMN %s", r.Qualify(node.Schema, node.Table), r.ColumnDefinition(node.Column))
	return nil
}

// VisitCreateIndex rejects filtered indexes and otherwise uses the common syntax
func (r *Renderer) VisitCreateIndex(node *ast.CreateIndexNode) error {
	if node.Filter != "" {
		return fmt.Errorf("index %s: %w", node.Name, ErrFilteredIndex)
	}
	return r.Renderer.VisitCreateIndex(node)
}

// VisitRenameIndex renders ALTER TABLE ... RENAME INDEX
func (r *Renderer) VisitRenameIndex(node *ast.RenameIndexNode) error {
	r.Writer().WriteStatementf("ALTER TABLE %s RENAME INDEX %s TO %s",
		r.Qualify(node.Schema, node.Table), r.Quote(node.Name), r.Quote(node.NewName))
	return nil
}

// VisitDropForeignKey renders ALTER TABLE ... DROP FOREIGN KEY
func (r *Renderer) VisitDropForeignKey(node *ast.DropForeignKeyNode) error {
	r.Writer().WriteStatementf("ALTER TABLE %s DROP FOREIGN KEY %s", r.Qualify(node.Schema, node.Table), r.Quote(node.Name))
	return nil
}
