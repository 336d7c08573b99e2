// Package router arma el árbol de rutas chi de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/http/controllers"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	mw "github.com/dropDatabas3/comanda/internal/http/middlewares"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Controllers *controllers.Controllers
	Gate        *authgate.Gate
	// LoginRate limita POST /api/v1/auth/login por IP. RPS 0 lo deshabilita.
	LoginRate mw.RateLimitConfig
	// Metrics se monta en GET /metrics si no es nil.
	Metrics http.Handler
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.Std(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
	)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	c := d.Controllers
	r.Get("/healthz", c.Health.Healthz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.With(mw.WithRateLimit(d.LoginRate)).Post("/auth/login", c.Auth.Login)

		api.Group(func(p chi.Router) {
			p.Use(mw.RequireAuth(d.Gate))
			registerAuthRoutes(p, c)
			registerBusinessRoutes(p, c)
			registerCatalogRoutes(p, c)
			registerOrderRoutes(p, c)
			registerKitchenRoutes(p, c)
		})
	})
	return r
}
