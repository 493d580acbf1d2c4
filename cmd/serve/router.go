package serve

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stokaro/schemaroute/customers"
	"github.com/stokaro/schemaroute/session"
	"github.com/stokaro/schemaroute/tenant"
)

// TenantParam is the query parameter naming the tenant of a request.
const TenantParam = "tenant"

// CustomersResponse is the body of GET /customers.
type CustomersResponse struct {
	Tenant    string               `json:"tenant,omitempty"`
	Schema    string               `json:"schema"`
	Customers []customers.Customer `json:"customers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter routes requests into the scope of the tenant named by ?tenant=.
// Requests without a tenant are served from the default schema.
func NewRouter(factory *session.Factory, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(tenant.Middleware(factory.Provider(), tenant.FromQuery(TenantParam)))

	r.Get("/customers", listCustomers(factory, logger))
	return r
}

func listCustomers(factory *session.Factory, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger
		if attr, ok := tenant.LogAttr(ctx); ok {
			log = log.With(attr)
		}

		s, err := factory.Open(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to open session", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
			return
		}

		list, err := session.List[customers.Customer](ctx, s)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list customers", "schema", s.Schema(), "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list customers"})
			return
		}
		if list == nil {
			list = []customers.Customer{}
		}

		writeJSON(w, http.StatusOK, CustomersResponse{
			Tenant:    s.Tenant(),
			Schema:    s.Schema(),
			Customers: list,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
