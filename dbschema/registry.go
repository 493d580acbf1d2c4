package dbschema

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Opener opens a connection for a connection string.
type Opener func(connectionString string) (*DatabaseConnection, error)

// Registry hands out one pool per distinct connection string. Tenants sharing
// a connection string share the pool; schema routing happens in SQL, not in
// the pool.
type Registry struct {
	mu     sync.Mutex
	open   Opener
	conns  map[string]*DatabaseConnection
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithOpener replaces Open as the way new pools are created.
func WithOpener(open Opener) RegistryOption {
	return func(r *Registry) {
		r.open = open
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		open:   Open,
		conns:  make(map[string]*DatabaseConnection),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLogger sets the logger for the registry
func (r *Registry) WithLogger(l *slog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
	return r
}

// Get returns the pool for connectionString, opening it on first use.
func (r *Registry) Get(connectionString string) (*DatabaseConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.conns[connectionString]; ok {
		return conn, nil
	}

	conn, err := r.open(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	r.conns[connectionString] = conn
	r.logger.Debug("Opened connection pool", "dialect", conn.Info().Dialect, "url", conn.Info().URL)
	return conn, nil
}

// Len returns the number of open pools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Close closes every pool and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for cs, conn := range r.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", conn.Info().URL, err))
		}
		delete(r.conns, cs)
	}
	return errors.Join(errs...)
}
