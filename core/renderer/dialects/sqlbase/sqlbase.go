// Package sqlbase holds the rendering shared by every dialect.
//
// Dialect renderers embed *Renderer, override the Visit methods whose syntax
// differs, and render through RenderWith so that overrides are dispatched.
package sqlbase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/renderer/dialects/internal/bufwriter"
)

// ErrUnsupportedLiteral is returned for insert values that have no SQL literal form.
var ErrUnsupportedLiteral = errors.New("unsupported literal type")

// Syntax describes the lexical differences between dialects.
type Syntax struct {
	// Dialect is the platform name
	Dialect string
	// QuoteIdentifier quotes a single identifier part
	QuoteIdentifier func(string) string
	// QuoteString renders a string literal
	QuoteString func(string) string
	// True and False are the boolean literals
	True, False string
	// AutoIncrement is appended to identity column definitions
	AutoIncrement string
}

// Renderer renders operations with ANSI-leaning defaults.
type Renderer struct {
	syntax Syntax
	w      bufwriter.Writer
}

// New creates a base renderer for syntax.
func New(syntax Syntax) *Renderer {
	return &Renderer{syntax: syntax}
}

// Dialect returns the platform name.
func (r *Renderer) Dialect() string {
	return r.syntax.Dialect
}

// Writer exposes the statement buffer to dialect overrides.
func (r *Renderer) Writer() *bufwriter.Writer {
	return &r.w
}

// RenderWith renders op by dispatching it to v, which is normally the dialect
// renderer embedding r.
func (r *Renderer) RenderWith(v ast.Visitor, op ast.Operation) ([]string, error) {
	r.w.Reset()
	if op == nil {
		return nil, nil
	}
	if err := op.Accept(v); err != nil {
		r.w.Reset()
		return nil, err
	}
	return r.w.Statements(), nil
}

// Render renders op with the base behaviour only.
func (r *Renderer) Render(op ast.Operation) ([]string, error) {
	return r.RenderWith(r, op)
}

// Quote quotes a single identifier.
func (r *Renderer) Quote(name string) string {
	return r.syntax.QuoteIdentifier(name)
}

// QuoteString renders s as a string literal.
func (r *Renderer) QuoteString(s string) string {
	return r.syntax.QuoteString(s)
}

// Qualify returns the quoted schema-qualified name. An empty schema leaves the
// name unqualified.
func (r *Renderer) Qualify(schema, name string) string {
	if schema == "" {
		return r.Quote(name)
	}
	return r.Quote(schema) + "." + r.Quote(name)
}

// QuoteList quotes and comma-joins names.
func (r *Renderer) QuoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = r.Quote(name)
	}
	return strings.Join(quoted, ", ")
}

// Literal renders v as a SQL literal.
func (r *Renderer) Literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return r.QuoteString(v), nil
	case bool:
		if v {
			return r.syntax.True, nil
		}
		return r.syntax.False, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w %T", ErrUnsupportedLiteral, v)
	}
}

// ColumnDefinition renders "name type [NOT NULL] [identity] [DEFAULT ...]".
func (r *Renderer) ColumnDefinition(col *ast.ColumnNode) string {
	var sb strings.Builder
	sb.WriteString(r.Quote(col.Name))
	sb.WriteString(" ")
	sb.WriteString(col.Type)
	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.AutoInc && r.syntax.AutoIncrement != "" {
		sb.WriteString(" ")
		sb.WriteString(r.syntax.AutoIncrement)
	}
	if def := DefaultClause(col.Default); def != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(def)
	}
	return sb.String()
}

// DefaultClause returns the SQL text of a default, or "" when there is none.
func DefaultClause(def *ast.DefaultValue) string {
	switch {
	case def == nil:
		return ""
	case def.Expression != "":
		return def.Expression
	default:
		return def.Value
	}
}

// ForeignKeyClause renders the FOREIGN KEY ... REFERENCES ... part of a constraint.
func (r *Renderer) ForeignKeyClause(fk *ast.AddForeignKeyNode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		r.Quote(fk.Name),
		r.QuoteList(fk.Columns),
		r.Qualify(fk.PrincipalSchema, fk.PrincipalTable),
		r.QuoteList(fk.PrincipalColumns))
	if fk.OnDelete != "" {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(fk.OnUpdate)
	}
	return sb.String()
}

// TableBody renders the parenthesised column and constraint list of a CREATE TABLE.
func (r *Renderer) TableBody(node *ast.CreateTableNode) string {
	lines := make([]string, 0, len(node.Columns)+len(node.UniqueConstraints)+len(node.ForeignKeys)+1)
	for _, col := range node.Columns {
		lines = append(lines, r.ColumnDefinition(col))
	}
	if pk := node.PrimaryKey; pk != nil && len(pk.Columns) > 0 {
		if pk.Name != "" {
			lines = append(lines, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)", r.Quote(pk.Name), r.QuoteList(pk.Columns)))
		} else {
			lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", r.QuoteList(pk.Columns)))
		}
	}
	for _, uq := range node.UniqueConstraints {
		lines = append(lines, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", r.Quote(uq.Name), r.QuoteList(uq.Columns)))
	}
	for _, fk := range node.ForeignKeys {
		if fk == nil {
			continue
		}
		lines = append(lines, r.ForeignKeyClause(fk))
	}
	return "(\n    " + strings.Join(lines, ",\n    ") + "\n)"
}

// VisitCreateDatabase renders CREATE DATABASE.
func (r *Renderer) VisitCreateDatabase(node *ast.CreateDatabaseNode) error {
	r.w.WriteStatementf("CREATE DATABASE %s", r.Quote(node.Name))
	return nil
}

// VisitDropDatabase renders DROP DATABASE.
func (r *Renderer) VisitDropDatabase(node *ast.DropDatabaseNode) error {
	r.w.WriteStatementf("DROP DATABASE %s", r.Quote(node.Name))
	return nil
}

// VisitEnsureSchema renders CREATE SCHEMA IF NOT EXISTS.
func (r *Renderer) VisitEnsureSchema(node *ast.EnsureSchemaNode) error {
	r.w.WriteStatementf("CREATE SCHEMA IF NOT EXISTS %s", r.Quote(node.Name))
	return nil
}

// VisitDropSchema renders DROP SCHEMA.
func (r *Renderer) VisitDropSchema(node *ast.DropSchemaNode) error {
	if node.Cascade {
		r.w.WriteStatementf("DROP SCHEMA %s CASCADE", r.Quote(node.Name))
		return nil
	}
	r.w.WriteStatementf("DROP SCHEMA %s", r.Quote(node.Name))
	return nil
}

// VisitCreateTable renders CREATE TABLE with inline constraints.
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	r.w.WriteStatement(r.CreateTableClause(node) + " " + r.TableBody(node))
	return nil
}

// CreateTableClause renders "CREATE TABLE [IF NOT EXISTS] name".
func (r *Renderer) CreateTableClause(node *ast.CreateTableNode) string {
	if node.IfNotExists {
		return "CREATE TABLE IF NOT EXISTS " + r.Qualify(node.Schema, node.Name)
	}
	return "CREATE TABLE " + r.Qualify(node.Schema, node.Name)
}

// VisitDropTable renders DROP TABLE.
func (r *Renderer) VisitDropTable(node *ast.DropTableNode) error {
	if node.IfExists {
		r.w.WriteStatementf("DROP TABLE IF EXISTS %s", r.Qualify(node.Schema, node.Name))
		return nil
	}
	r.w.WriteStatementf("DROP TABLE %s", r.Qualify(node.Schema, node.Name))
	return nil
}

// VisitRenameTable renders ALTER TABLE ... RENAME TO.
func (r *Renderer) VisitRenameTable(node *ast.RenameTableNode) error {
	r.w.WriteStatementf("ALTER TABLE %s RENAME TO %s", r.Qualify(node.Schema, node.Name), r.Quote(node.NewName))
	return nil
}

// VisitAddColumn renders ALTER TABLE ... ADD COLUMN.
func (r *Renderer) VisitAddColumn(node *ast.AddColumnNode) error {
	r.w.WriteStatementf("ALTER TABLE %s ADD COLUMN %s", r.Qualify(node.Schema, node.Table), r.ColumnDefinition(node.Column))
	return nil
}

// VisitAlterColumn renders ALTER TABLE ... ALTER COLUMN ... TYPE.
func (r *Renderer) VisitAlterColumn(node *ast.AlterColumnNode) error {
	r.w.WriteStatementf("ALTER TABLE %s ALTER COLUMN %s TYPE %s",
		r.Qualify(node.Schema, node.Table), r.Quote(node.Column.Name), node.Column.Type)
	return nil
}

// VisitDropColumn renders ALTER TABLE ... DROP COLUMN.
func (r *Renderer) VisitDropColumn(node *ast.DropColumnNode) error {
	r.w.WriteStatementf("ALTER TABLE %s DROP COLUMN %s", r.Qualify(node.Schema, node.Table), r.Quote(node.Name))
	return nil
}

// VisitRenameColumn renders ALTER TABLE ... RENAME COLUMN.
func (r *Renderer) VisitRenameColumn(node *ast.RenameColumnNode) error {
	r.w.WriteStatementf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		r.Qualify(node.Schema, node.Table), r.Quote(node.Name), r.Quote(node.NewName))
	return nil
}

// VisitCreateIndex renders CREATE [UNIQUE] INDEX with an optional filter.
func (r *Renderer) VisitCreateIndex(node *ast.CreateIndexNode) error {
	r.w.WriteString("CREATE ")
	if node.Unique {
		r.w.WriteString("UNIQUE ")
	}
	r.w.WriteStringf("INDEX %s ON %s (%s)", r.Quote(node.Name), r.Qualify(node.Schema, node.Table), r.QuoteList(node.Columns))
	if node.Filter != "" {
		r.w.WriteStringf(" WHERE %s", node.Filter)
	}
	r.w.EndStatement()
	return nil
}

// VisitDropIndex renders DROP INDEX ... ON.
func (r *Renderer) VisitDropIndex(node *ast.DropIndexNode) error {
	r.w.WriteStatementf("DROP INDEX %s ON %s", r.Quote(node.Name), r.Qualify(node.Schema, node.Table))
	return nil
}

// VisitRenameIndex renders ALTER INDEX ... RENAME TO.
func (r *Renderer) VisitRenameIndex(node *ast.RenameIndexNode) error {
	r.w.WriteStatementf("ALTER INDEX %s RENAME TO %s", r.Qualify(node.Schema, node.Name), r.Quote(node.NewName))
	return nil
}

// VisitAddForeignKey renders ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY.
func (r *Renderer) VisitAddForeignKey(node *ast.AddForeignKeyNode) error {
	r.w.WriteStatementf("ALTER TABLE %s ADD %s", r.Qualify(node.Schema, node.Table), r.ForeignKeyClause(node))
	return nil
}

// VisitDropForeignKey renders ALTER TABLE ... DROP CONSTRAINT.
func (r *Renderer) VisitDropForeignKey(node *ast.DropForeignKeyNode) error {
	r.w.WriteStatementf("ALTER TABLE %s DROP CONSTRAINT %s", r.Qualify(node.Schema, node.Table), r.Quote(node.Name))
	return nil
}

// VisitInsertData renders a multi-row INSERT.
func (r *Renderer) VisitInsertData(node *ast.InsertDataNode) error {
	if len(node.Values) == 0 {
		return nil
	}
	rows := make([]string, 0, len(node.Values))
	for i, row := range node.Values {
		if len(row) != len(node.Columns) {
			return fmt.Errorf("insert into %s: row %d has %d values for %d columns", node.Table, i, len(row), len(node.Columns))
		}
		values := make([]string, len(row))
		for j, v := range row {
			lit, err := r.Literal(v)
			if err != nil {
				return fmt.Errorf("insert into %s: row %d column %s: %w", node.Table, i, node.Columns[j], err)
			}
			values[j] = lit
		}
		rows = append(rows, "("+strings.Join(values, ", ")+")")
	}
	r.w.WriteStatementf("INSERT INTO %s (%s) VALUES %s",
		r.Qualify(node.Schema, node.Table), r.QuoteList(node.Columns), strings.Join(rows, ", "))
	return nil
}

// VisitSQL passes raw SQL through.
func (r *Renderer) VisitSQL(node *ast.SQLNode) error {
	r.w.WriteStatement(node.SQL)
	return nil
}

// VisitComment renders a single-line comment per line of text.
func (r *Renderer) VisitComment(node *ast.CommentNode) error {
	for _, line := range strings.Split(node.Text, "\n") {
		r.w.WriteStatement("-- " + line)
	}
	return nil
}
