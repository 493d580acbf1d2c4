package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/tenant"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		header         string
		extractor      tenant.Extractor
		expectedTenant string
		expectedActive bool
	}{
		{
			name:           "tenant from query",
			target:         "/?tenant=acme",
			extractor:      tenant.FromQuery("tenant"),
			expectedTenant: "acme",
			expectedActive: true,
		},
		{
			name:           "tenant from header",
			target:         "/",
			header:         "globex",
			extractor:      tenant.FromHeader("X-Tenant"),
			expectedTenant: "globex",
			expectedActive: true,
		},
		{
			name:      "no tenant",
			target:    "/",
			extractor: tenant.FromQuery("tenant"),
		},
		{
			name:      "blank tenant",
			target:    "/?tenant=%20",
			extractor: tenant.FromQuery("tenant"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			p := newTestProvider(c)

			var handlerCtx context.Context
			var gotTenant string
			var gotActive bool
			handler := tenant.Middleware(p, tt.extractor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCtx = r.Context()
				gotTenant, gotActive = p.CurrentTenant(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Tenant", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
			c.Assert(gotActive, qt.Equals, tt.expectedActive)
			c.Assert(gotTenant, qt.Equals, tt.expectedTenant)

			// The scope is over once the handler has returned.
			_, ok := p.CurrentTenant(handlerCtx)
			c.Assert(ok, qt.IsFalse)
		})
	}
}

func TestMiddleware_EndsScopeOnPanic(t *testing.T) {
	c := qt.New(t)
	p := newTestProvider(c)

	var handlerCtx context.Context
	handler := tenant.Middleware(p, tenant.FromQuery("tenant"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCtx = r.Context()
		panic("boom")
	}))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?tenant=acme", nil))
	}()

	_, ok := p.CurrentTenant(handlerCtx)
	c.Assert(ok, qt.IsFalse)
}
