package tenant

import (
	"context"
	"fmt"

	"github.com/stokaro/schemaroute/config"
)

// DefaultSchemaName is the schema used when no tenant is active.
const DefaultSchemaName = "dbo"

// Scoper begins tenant scopes.
type Scoper interface {
	BeginScope(ctx context.Context, tenant string) (context.Context, *Scope)
}

// Provider answers "who am I" and "what do I connect to" for the tenant active in
// a context, and lets callers become a tenant.
type Provider interface {
	Scoper

	// CurrentTenant returns the tenant active in ctx, if any.
	CurrentTenant(ctx context.Context) (string, bool)
	// SchemaName returns the schema for the active tenant, or the default schema.
	SchemaName(ctx context.Context) string
	// ConnectionString returns the active tenant's override, or the default connection string.
	ConnectionString(ctx context.Context) string
}

var (
	_ Provider = (*ConfigProvider)(nil)
	_ Provider = (*StaticProvider)(nil)
)

// ConfigProvider resolves schema names and connection strings from a static
// tenant configuration. It is safe for concurrent use: its lookup table is never
// written after construction.
type ConfigProvider struct {
	defaultSchema           string
	defaultConnectionString string
	connectionStrings       map[string]string
}

// Option configures a ConfigProvider.
type Option func(*ConfigProvider)

// WithDefaultSchema overrides DefaultSchemaName.
func WithDefaultSchema(schema string) Option {
	return func(p *ConfigProvider) {
		p.defaultSchema = schema
	}
}

// NewProvider validates cfg and builds a provider from it. Tenants without a
// connection string override are valid and use the default connection string.
func NewProvider(cfg *config.TenantConfiguration, opts ...Option) (*ConfigProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tenant provider: %w", config.ErrMissingConnectionString)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tenant provider: %w", err)
	}

	p := &ConfigProvider{
		defaultSchema:           DefaultSchemaName,
		defaultConnectionString: cfg.ConnectionString,
		connectionStrings:       cfg.ConnectionStringOverrides(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// BeginScope begins a tenant scope. See the package-level BeginScope.
func (p *ConfigProvider) BeginScope(ctx context.Context, tenant string) (context.Context, *Scope) {
	return BeginScope(ctx, tenant)
}

// CurrentTenant returns the tenant active in ctx, if any.
func (p *ConfigProvider) CurrentTenant(ctx context.Context) (string, bool) {
	return Current(ctx)
}

// SchemaName returns the active tenant's name, which is also its schema, or the
// default schema when no tenant is active. Unregistered tenants still get their
// own schema.
func (p *ConfigProvider) SchemaName(ctx context.Context) string {
	if name, ok := p.CurrentTenant(ctx); ok {
		return name
	}
	return p.defaultSchema
}

// ConnectionString returns the connection string for the tenant active in ctx.
func (p *ConfigProvider) ConnectionString(ctx context.Context) string {
	name, ok := p.CurrentTenant(ctx)
	return p.resolveConnectionString(name, ok)
}

// resolveConnectionString applies the precedence: tenant override, then default.
func (p *ConfigProvider) resolveConnectionString(name string, active bool) string {
	if !active {
		return p.defaultConnectionString
	}
	if override, ok := p.connectionStrings[name]; ok {
		return override
	}
	return p.defaultConnectionString
}

// StaticProvider always reports the same schema and connection string and never
// has an active tenant. It stands in for the tenant provider at design time,
// when migrations are authored against the default schema.
type StaticProvider struct {
	schema           string
	connectionString string
}

// NewStaticProvider returns a provider pinned to schema and connectionString.
func NewStaticProvider(schema, connectionString string) *StaticProvider {
	return &StaticProvider{
		schema:           schema,
		connectionString: connectionString,
	}
}

// BeginScope returns ctx unchanged with an already-ended scope.
func (p *StaticProvider) BeginScope(ctx context.Context, _ string) (context.Context, *Scope) {
	return ctx, &Scope{}
}

// CurrentTenant always reports no tenant.
func (p *StaticProvider) CurrentTenant(context.Context) (string, bool) {
	return "", false
}

// SchemaName returns the pinned schema.
func (p *StaticProvider) SchemaName(context.Context) string {
	return p.schema
}

// ConnectionString returns the pinned connection string.
func (p *StaticProvider) ConnectionString(context.Context) string {
	return p.connectionString
}
