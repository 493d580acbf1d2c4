// Package types declares the contract shared by the dialect renderers.
package types

import (
	"github.com/stokaro/schemaroute/core/ast"
)

// RenderVisitor renders migration operations into dialect-specific SQL.
//
// Render returns one entry per statement so callers can execute them one by one;
// none of the supported drivers accept every multi-statement batch.
type RenderVisitor interface {
	ast.Visitor

	// Dialect returns the platform name the renderer targets.
	Dialect() string
	// Render renders a single operation.
	Render(op ast.Operation) ([]string, error)
	// Qualify returns the quoted, schema-qualified name of a table.
	Qualify(schema, name string) string
}
