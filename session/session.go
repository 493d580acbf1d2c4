// Package session opens database sessions bound to the tenant active in a context.
//
// A session pins everything tenant-specific at open time: the connection pool
// for the tenant's connection string, the tenant's schema, and the compiled
// models for that schema. Sessions are cheap; pools and models are shared.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/stokaro/schemaroute/core/model"
	"github.com/stokaro/schemaroute/core/modelcache"
	"github.com/stokaro/schemaroute/dbschema"
	"github.com/stokaro/schemaroute/migration/generator"
	"github.com/stokaro/schemaroute/tenant"
)

// HistoryTableName is the migrations history table created in every tenant schema.
const HistoryTableName = "__schemaroute_migrations"

// ErrTenantMismatch is returned when a session is used from a context whose
// tenant resolves to a different schema than the one it was opened for.
var ErrTenantMismatch = errors.New("session used outside its tenant")

// Factory opens sessions.
type Factory struct {
	provider   tenant.Provider
	registry   *dbschema.Registry
	models     *modelcache.Cache[*model.Model]
	keys       *modelcache.KeyFactory
	designTime bool
	logger     *slog.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithModelCache shares cache between factories.
func WithModelCache(cache *modelcache.Cache[*model.Model]) Option {
	return func(f *Factory) {
		f.models = cache
	}
}

// WithDesignTime keys models as design-time builds.
func WithDesignTime() Option {
	return func(f *Factory) {
		f.designTime = true
	}
}

// NewFactory creates a factory resolving tenants through provider and pools
// through registry.
func NewFactory(provider tenant.Provider, registry *dbschema.Registry, opts ...Option) *Factory {
	f := &Factory{
		provider: provider,
		registry: registry,
		keys:     modelcache.NewKeyFactory(provider),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.models == nil {
		f.models = modelcache.New[*model.Model]()
	}
	return f
}

// WithLogger sets the logger for the factory
func (f *Factory) WithLogger(l *slog.Logger) *Factory {
	tmp := *f
	tmp.logger = l
	return &tmp
}

// Provider returns the tenant provider sessions are resolved through.
func (f *Factory) Provider() tenant.Provider {
	return f.provider
}

// Models returns the model cache.
func (f *Factory) Models() *modelcache.Cache[*model.Model] {
	return f.models
}

// Open opens a session for the tenant active in ctx. Without a tenant the
// session targets the default schema and connection string.
func (f *Factory) Open(ctx context.Context) (*Session, error) {
	name, _ := f.provider.CurrentTenant(ctx)
	schema := f.provider.SchemaName(ctx)

	conn, err := f.registry.Get(f.provider.ConnectionString(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to open session for schema %s: %w", schema, err)
	}

	gen, err := generator.New(f.provider, conn.Dialect())
	if err != nil {
		return nil, fmt.Errorf("failed to open session for schema %s: %w", schema, err)
	}

	logger := f.logger
	if attr, ok := tenant.LogAttr(ctx); ok {
		logger = logger.With(attr)
	}
	logger.DebugContext(ctx, "Opened session", "schema", schema, "dialect", conn.Dialect())

	return &Session{
		factory:   f,
		tenant:    name,
		schema:    schema,
		conn:      conn,
		generator: gen.WithLogger(logger),
		logger:    logger,
	}, nil
}

// Session is a unit of work for one tenant.
type Session struct {
	factory   *Factory
	tenant    string
	schema    string
	conn      *dbschema.DatabaseConnection
	generator *generator.Generator
	logger    *slog.Logger
}

// Tenant returns the tenant the session was opened for, or "" when none was active.
func (s *Session) Tenant() string {
	return s.tenant
}

// Schema returns the schema every statement of the session targets.
func (s *Session) Schema() string {
	return s.schema
}

// DB returns the connection pool.
func (s *Session) DB() *sql.DB {
	return s.conn.DB()
}

// Dialect returns the database dialect.
func (s *Session) Dialect() string {
	return s.conn.Dialect()
}

// Generator returns the schema-aware SQL generator for the session's dialect.
func (s *Session) Generator() *generator.Generator {
	return s.generator
}

// Logger returns the session logger, tagged with the tenant.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// HistoryTable returns the migrations history table in the session schema.
func (s *Session) HistoryTable() model.Table {
	return model.Table{Schema: s.schema, Name: HistoryTableName}
}

// Model returns the compiled model of entity for the tenant active in ctx,
// building it once per schema. entity may be a value, a pointer or a reflect.Type.
func (s *Session) Model(ctx context.Context, entity any) (*model.Model, error) {
	t, ok := entity.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(entity)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	key := s.factory.keys.CreateKey(ctx, t, s.factory.designTime)
	if key.Schema != s.schema {
		return nil, fmt.Errorf("%w: opened for schema %s, context resolves to %s", ErrTenantMismatch, s.schema, key.Schema)
	}

	return s.factory.models.GetOrBuild(ctx, key, func(_ context.Context, key modelcache.Key) (*model.Model, error) {
		s.logger.DebugContext(ctx, "Building model", "type", key.ModelType, "schema", key.Schema)
		return model.Build(key.ModelType, key.Schema)
	})
}
