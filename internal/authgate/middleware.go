package authgate

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

type principalKey struct{}

// WithPrincipal guarda el principal en el contexto.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom obtiene el principal del contexto.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Middleware autentica cada request. En éxito, el handler corre con el tenant
// ligado y el principal en el contexto; ambos mueren con el request. En falla
// se llama a onFail y el handler no corre.
func Middleware(g *Gate, onFail func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				logger.From(r.Context()).Debug("request rejected", logger.Err(err))
				onFail(w, r, err)
				return
			}

			ctx := tenantctx.Bind(r.Context(), p.Tenant)
			ctx = WithPrincipal(ctx, p)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.Tenant(p.Tenant.String()),
				logger.User(p.Username),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
