package tenant

import (
	"net/http"
	"strings"
)

// Extractor pulls a tenant identifier out of a request. It returns "" when the
// request does not name a tenant.
type Extractor func(r *http.Request) string

// FromQuery extracts the tenant from a query parameter, e.g. ?tenant=acme.
func FromQuery(name string) Extractor {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.URL.Query().Get(name))
	}
}

// FromHeader extracts the tenant from a request header.
func FromHeader(name string) Extractor {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// Middleware begins a tenant scope for every request that names a tenant and ends
// it when the wrapped handler returns. Requests without a tenant pass through
// with no scope.
func Middleware(scoper Scoper, extract Extractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := extract(r)
			if name == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, scope := scoper.BeginScope(r.Context(), name)
			defer scope.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
