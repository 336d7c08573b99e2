package helpers

import (
	"net/http"

	"github.com/dropDatabas3/comanda/internal/authgate"
	httperrors "github.com/dropDatabas3/comanda/internal/http/errors"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Tenant lee el tenant ligado por el AuthGate. Devuelve false si ya escribió
// el error HTTP.
func Tenant(w http.ResponseWriter, r *http.Request) (tenantctx.TenantID, bool) {
	t, err := tenantctx.Current(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return "", false
	}
	return t, true
}

// Principal lee el staff autenticado. Devuelve false si ya escribió el error.
func Principal(w http.ResponseWriter, r *http.Request) (authgate.Principal, bool) {
	p, ok := authgate.PrincipalFrom(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return authgate.Principal{}, false
	}
	return p, true
}
