// Package tenant carries the current tenant through a logical call chain and
// resolves the schema and connection string that chain should use.
//
// The current tenant lives in a storage cell attached to a context.Context.
// BeginScope installs a new cell in a derived context; every goroutine handed
// that context (or a context derived from it) sees the same tenant, and any
// goroutine working from an unrelated context does not. Ending a scope clears
// the cell that scope created and nothing else, so a nested scope that ends
// never disturbs the scope it was nested in:
//
//	ctx, scope := provider.BeginScope(ctx, "acme")
//	defer scope.End()
//
//	provider.SchemaName(ctx)       // "acme"
//	provider.ConnectionString(ctx) // acme's override, or the default
//
// Reading outside any scope is not an error: CurrentTenant reports false and
// SchemaName returns DefaultSchemaName.
package tenant
