package tenant

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// holder is the storage cell a scope installs into a context. Contexts derived
// from the scope's context share the cell, so ending the scope clears the tenant
// for every one of them. A nested scope installs a fresh cell and never touches
// the one it shadows.
type holder struct {
	tenant atomic.Pointer[string]
}

func (h *holder) load() (string, bool) {
	p := h.tenant.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (h *holder) clear() {
	h.tenant.Store(nil)
}

type holderKey struct{}

func holderFromContext(ctx context.Context) *holder {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(holderKey{}).(*holder)
	return h
}

// Scope is the handle returned by BeginScope. End clears the tenant stored by this
// scope only; it is safe to call more than once and on a nil or zero Scope.
type Scope struct {
	holder *holder
	tenant string
}

// Tenant returns the identifier the scope was begun with.
func (s *Scope) Tenant() string {
	if s == nil {
		return ""
	}
	return s.tenant
}

// End clears the scope's cell.
func (s *Scope) End() {
	if s == nil || s.holder == nil {
		return
	}
	s.holder.clear()
}

// BeginScope returns a context carrying tenant as the current tenant, together
// with the scope that ends it. An empty tenant begins nothing: ctx is returned
// unchanged with an already-ended scope.
//
//	ctx, scope := tenant.BeginScope(ctx, "acme")
//	defer scope.End()
func BeginScope(ctx context.Context, tenant string) (context.Context, *Scope) {
	if tenant == "" {
		return ctx, &Scope{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h := &holder{}
	h.tenant.Store(&tenant)

	return context.WithValue(ctx, holderKey{}, h), &Scope{holder: h, tenant: tenant}
}

// Current returns the tenant active in ctx, if any.
func Current(ctx context.Context) (string, bool) {
	h := holderFromContext(ctx)
	if h == nil {
		return "", false
	}
	return h.load()
}

// EndScope clears the cell visible in ctx. Ending an already-ended scope, or
// calling it on a context that never had one, does nothing.
func EndScope(ctx context.Context) {
	if h := holderFromContext(ctx); h != nil {
		h.clear()
	}
}

// Do runs fn with tenant as the current tenant and ends the scope when fn
// returns, panics included.
func Do(ctx context.Context, tenant string, fn func(ctx context.Context) error) error {
	ctx, scope := BeginScope(ctx, tenant)
	defer scope.End()

	return fn(ctx)
}

// LogAttr returns a slog attribute naming the active tenant, or false when no
// tenant is active.
func LogAttr(ctx context.Context) (slog.Attr, bool) {
	if name, ok := Current(ctx); ok {
		return slog.String("tenant", name), true
	}
	return slog.Attr{}, false
}
