// Package renderer picks the dialect renderer for a database platform.
package renderer

import (
	"errors"
	"fmt"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/mariadb"
	"github.com/stokaro/schemaroute/core/renderer/dialects/mysql"
	"github.com/stokaro/schemaroute/core/renderer/dialects/postgres"
	"github.com/stokaro/schemaroute/core/renderer/dialects/sqlserver"
	"github.com/stokaro/schemaroute/core/renderer/types"
)

// ErrUnsupportedDialect is returned by New for platforms without a renderer.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// New returns a fresh renderer for dialect. Renderers are not safe for
// concurrent use; create one per goroutine.
func New(dialect string) (types.RenderVisitor, error) {
	switch platform.NormalizeDialect(dialect) {
	case platform.Postgres:
		return postgres.New(), nil
	case platform.MySQL:
		return mysql.New(), nil
	case platform.MariaDB:
		return mariadb.New(), nil
	case platform.SQLServer:
		return sqlserver.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}

// RenderAll renders ops in order and concatenates their statements.
func RenderAll(r types.RenderVisitor, ops []ast.Operation) ([]string, error) {
	var statements []string
	for i, op := range ops {
		stmts, err := r.Render(op)
		if err != nil {
			return nil, fmt.Errorf("render operation %d for %s: %w", i, r.Dialect(), err)
		}
		statements = append(statements, stmts...)
	}
	return statements, nil
}
