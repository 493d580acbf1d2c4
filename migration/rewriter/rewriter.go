// Package rewriter stamps migration operations with the schema of the tenant they
// are about to be executed for.
//
// Migrations are authored once against a design-time schema and replayed for
// every tenant. Before an operation is rendered, every schema-qualifying field on
// it is overwritten with the tenant's schema. The set of operation kinds handled
// here is closed: any other kind is rejected with ErrUnsupportedOperation rather
// than executed against whatever schema it was planned with.
package rewriter

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/stokaro/schemaroute/core/ast"
)

// ErrUnsupportedOperation is matched by every error returned for an operation
// kind the rewriter does not know how to stamp.
var ErrUnsupportedOperation = errors.New("unsupported migration operation")

// UnsupportedOperationError names the operation kind that was rejected.
type UnsupportedOperationError struct {
	Kind string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("migration operation of type %s is not supported by the schema rewriter", e.Kind)
}

// Is makes errors.Is(err, ErrUnsupportedOperation) hold.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// SchemaNamer resolves the schema for the tenant active in a context.
// tenant.Provider satisfies it.
type SchemaNamer interface {
	SchemaName(ctx context.Context) string
}

// Rewriter rewrites operations with the schema resolved from the context.
type Rewriter struct {
	schemas SchemaNamer
}

// New returns a Rewriter that resolves schemas through schemas.
func New(schemas SchemaNamer) *Rewriter {
	return &Rewriter{schemas: schemas}
}

// Rewrite stamps op with the schema of the tenant active in ctx. A nil op is a no-op.
func (r *Rewriter) Rewrite(ctx context.Context, op ast.Operation) error {
	return ChangeSchema(op, r.schemas.SchemaName(ctx))
}

// RewriteAll stamps every operation with the schema of the tenant active in ctx.
// Every operation kind is checked before any is modified, so when an error is
// returned none of ops has been touched.
func (r *Rewriter) RewriteAll(ctx context.Context, ops []ast.Operation) error {
	applies := make([]func(schema string), 0, len(ops))
	for i, op := range ops {
		apply, err := rewriteFunc(op)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		applies = append(applies, apply)
	}

	schema := r.schemas.SchemaName(ctx)
	for _, apply := range applies {
		apply(schema)
	}

	return nil
}

// ChangeSchema stamps op with schema.
func ChangeSchema(op ast.Operation, schema string) error {
	apply, err := rewriteFunc(op)
	if err != nil {
		return err
	}
	apply(schema)
	return nil
}

// Supports reports whether op is of a kind the rewriter can stamp.
func Supports(op ast.Operation) bool {
	_, err := rewriteFunc(op)
	return err == nil
}

func noop(string) {}

// rewriteFunc classifies op and returns the mutation for its kind. Nothing is
// modified until the returned function is called.
func rewriteFunc(op ast.Operation) (func(schema string), error) {
	if isNil(op) {
		return noop, nil
	}

	switch op := op.(type) {
	case *ast.CreateDatabaseNode, *ast.DropDatabaseNode:
		return noop, nil
	case *ast.EnsureSchemaNode:
		return func(schema string) {
			op.Name = schema
		}, nil
	case *ast.CreateTableNode:
		return func(schema string) {
			op.Schema = schema
			for _, fk := range op.ForeignKeys {
				if fk != nil {
					rewriteForeignKey(fk, schema)
				}
			}
		}, nil
	case *ast.DropTableNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.CreateIndexNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.AddColumnNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.AlterColumnNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.DropColumnNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.RenameColumnNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.AddForeignKeyNode:
		return func(schema string) {
			rewriteForeignKey(op, schema)
		}, nil
	case *ast.DropForeignKeyNode:
		return func(schema string) {
			op.Schema = schema
		}, nil
	case *ast.RenameTableNode:
		// A table never leaves its tenant's schema.
		return func(schema string) {
			op.Schema = schema
			op.NewSchema = schema
		}, nil
	default:
		return nil, &UnsupportedOperationError{Kind: kindOf(op)}
	}
}

// rewriteForeignKey points both ends of fk at schema; cross-schema foreign keys
// are not supported between tenants.
func rewriteForeignKey(fk *ast.AddForeignKeyNode, schema string) {
	fk.Schema = schema
	fk.PrincipalSchema = schema
}

func isNil(op ast.Operation) bool {
	if op == nil {
		return true
	}
	v := reflect.ValueOf(op)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func kindOf(op ast.Operation) string {
	t := reflect.TypeOf(op)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
