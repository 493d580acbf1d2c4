// Package modelcache keys compiled models by entity type and tenant schema.
//
// Two contexts whose tenants resolve to the same schema share one model; any
// schema difference yields a distinct entry. Design-time builds are keyed
// separately from runtime builds.
package modelcache

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one compiled model. Keys are comparable and equal exactly when
// all three fields are equal.
type Key struct {
	ModelType  reflect.Type
	Schema     string
	DesignTime bool
}

func (k Key) String() string {
	name := "<nil>"
	if k.ModelType != nil {
		name = k.ModelType.String()
	}
	return fmt.Sprintf("%s@%s(designTime=%t)", name, k.Schema, k.DesignTime)
}

// SchemaNamer resolves the schema for the tenant active in a context.
type SchemaNamer interface {
	SchemaName(ctx context.Context) string
}

// KeyFactory creates cache keys from the tenant active in a context.
type KeyFactory struct {
	schemas SchemaNamer
}

// NewKeyFactory returns a factory reading schemas from schemas.
func NewKeyFactory(schemas SchemaNamer) *KeyFactory {
	return &KeyFactory{schemas: schemas}
}

// CreateKey returns the key for modelType under the schema current in ctx.
// The schema is read on every call; nothing is memoized.
func (f *KeyFactory) CreateKey(ctx context.Context, modelType reflect.Type, designTime bool) Key {
	return Key{
		ModelType:  modelType,
		Schema:     f.schemas.SchemaName(ctx),
		DesignTime: designTime,
	}
}

// Cache is a process-wide, read-mostly cache of values built per Key.
// Concurrent first requests for a key share one build; failed builds are not
// cached.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[Key]T
	group   singleflight.Group
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[Key]T)}
}

// Get returns the cached value for key.
func (c *Cache[T]) Get(key Key) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetOrBuild returns the cached value for key, building and storing it on a miss.
// When several callers miss at once, build runs with the first caller's ctx.
func (c *Cache[T]) GetOrBuild(ctx context.Context, key Key, build func(ctx context.Context, key Key) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(flightKey(key), func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		built, err := build(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("build model for %s: %w", key, err)
	}
	v, _ := res.(T)
	return v, nil
}

// flightKey identifies key for singleflight; type names alone are not unique
// across packages.
func flightKey(key Key) string {
	return fmt.Sprintf("%p|%q|%t", key.ModelType, key.Schema, key.DesignTime)
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
