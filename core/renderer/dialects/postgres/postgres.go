package postgres

import (
	"github.com/lib/pq"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlbase"
	"github.com/stokaro/schemaroute/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides PostgreSQL-specific SQL rendering
type Renderer struct {
	*sqlbase.Renderer
}

// New creates a new PostgreSQL renderer
func New() *Renderer {
	return &Renderer{
		Renderer: sqlbase.New(sqlbase.Syntax{
			Dialect:         platform.Postgres,
			QuoteIdentifier: pq.QuoteIdentifier,
			QuoteString:     pq.QuoteLiteral,
			True:            "TRUE",
			False:           "FALSE",
			AutoIncrement:   "GENERATED BY DEFAULT AS IDENTITY",
		}),
	}
}

// Render renders an operation to PostgreSQL statements
func (r *Renderer) Render(op ast.Operation) ([]string, error) {
	return r.RenderWith(r, op)
}

// VisitCreateTable renders CREATE TABLE followed by COMMENT ON TABLE when the table has a comment
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	if err := r.Renderer.VisitCreateTable(node); err != nil {
		return err
	}
	if node.Comment != "" {
		r.Writer().WriteStatementf("COMMENT ON TABLE %s IS %s", r.Qualify(node.Schema, node.Name), r.QuoteString(node.Comment))
	}
	return nil
}

// VisitRenameTable moves the table between schemas with SET SCHEMA, then renames it
func (r *Renderer) VisitRenameTable(node *ast.RenameTableNode) error {
	schema := node.Schema
	if node.NewSchema != "" && node.NewSchema != node.Schema {
		r.Writer().WriteStatementf("ALTER TABLE %s SET SCHEMA %s", r.Qualify(node.Schema, node.Name), r.Quote(node.NewSchema))
		schema = node.NewSchema
	}
	if node.NewName != "" && node.NewName != node.Name {
		r.Writer().WriteStatementf("ALTER TABLE %s RENAME TO %s", r.Qualify(schema, node.Name), r.Quote(node.NewName))
	}
	return nil
}

// VisitAlterColumn renders the type, nullability and default changes as separate statements
func (r *Renderer) VisitAlterColumn(node *ast.AlterColumnNode) error {
	table := r.Qualify(node.Schema, node.Table)
	col := r.Quote(node.Column.Name)
	w := r.Writer()

	w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", table, col, node.Column.Type)
	if node.Column.Nullable {
		w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, col)
	} else {
		w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, col)
	}
	if def := sqlbase.DefaultClause(node.Column.Default); def != "" {
		w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", table, col, def)
	} else {
		w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, col)
	}
	return nil
}

// VisitDropIndex renders DROP INDEX; PostgreSQL indexes live in the schema, not on the table
func (r *Renderer) VisitDropIndex(node *ast.DropIndexNode) error {
	r.Writer().WriteStatementf("DROP INDEX %s", r.Qualify(node.Schema, node.Name))
	return nil
}
