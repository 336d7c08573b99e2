package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/http/errors"
)

// RequireAuth corre el AuthGate: el handler ve el tenant ligado y el principal
// en el contexto. Toda falla de autenticación responde 401.
func RequireAuth(g *authgate.Gate) Middleware {
	return authgate.Middleware(g, func(w http.ResponseWriter, _ *http.Request, err error) {
		errors.WriteError(w, errors.ErrUnauthorized.WithCause(err))
	})
}

// RequireRole limita la ruta a los roles dados. Debe ir después de RequireAuth.
func RequireRole(roles ...string) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := authgate.PrincipalFrom(r.Context())
			if !ok {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("rol "+p.Role+" sin permiso"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
