// Package generator turns migration operations into SQL for the tenant active
// in a context.
//
// Every operation is first stamped with the tenant's schema and only then
// rendered, so the same migration replays into a different schema per tenant.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/renderer"
	"github.com/stokaro/schemaroute/migration/rewriter"
)

// Generator generates schema-aware SQL for one dialect.
type Generator struct {
	rewriter *rewriter.Rewriter
	dialect  string
	logger   *slog.Logger
}

// New creates a generator that resolves schemas through schemas and renders
// for dialect. It fails for dialects without a renderer.
func New(schemas rewriter.SchemaNamer, dialect string) (*Generator, error) {
	r, err := renderer.New(dialect)
	if err != nil {
		return nil, err
	}
	return &Generator{
		rewriter: rewriter.New(schemas),
		dialect:  r.Dialect(),
		logger:   slog.Default(),
	}, nil
}

// WithLogger sets the logger for the generator
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	tmp := *g
	tmp.logger = l
	return &tmp
}

// Dialect returns the normalized dialect the generator renders for.
func (g *Generator) Dialect() string {
	return g.dialect
}

// Generate rewrites ops in place with the schema of the tenant active in ctx
// and renders them. Nothing is rendered when any operation is unsupported.
func (g *Generator) Generate(ctx context.Context, ops []ast.Operation) ([]string, error) {
	if err := g.rewriter.RewriteAll(ctx, ops); err != nil {
		return nil, fmt.Errorf("failed to rewrite operations: %w", err)
	}

	r, err := renderer.New(g.dialect)
	if err != nil {
		return nil, err
	}

	statements, err := renderer.RenderAll(r, ops)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "Generated statements", "dialect", g.dialect, "operations", len(ops), "statements", len(statements))
	return statements, nil
}

// Script generates ops as a single SQL script with a header comment. Statements
// are terminated with semicolons.
func (g *Generator) Script(ctx context.Context, title string, ops []ast.Operation) (string, error) {
	statements, err := g.Generate(ctx, ops)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "-- %s\n-- Dialect: %s\n-- Generated on: %s\n\n", title, g.dialect, time.Now().Format(time.RFC3339))
	if len(statements) == 0 {
		sb.WriteString("-- No operations\n")
		return sb.String(), nil
	}
	for _, stmt := range statements {
		sb.WriteString(stmt)
		if !strings.HasPrefix(stmt, "--") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
