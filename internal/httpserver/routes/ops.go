package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/mw"
)

func init() { Register("ops", registerOps) }

// opsGuard limits routes to the configured networks and hosts.
func opsGuard(r chi.Router, d deps.Deps) chi.Router {
	return r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
}

// healthz stays open for container probes; the rest is ops only.
func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	ops := opsGuard(r, d)
	ops.Get("/readyz", handlers.Readyz(d))
	ops.Get("/infra", handlers.Infra(d))
	ops.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
}
