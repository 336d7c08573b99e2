// Package tenantctx liga una unidad de trabajo a exactamente un tenant.
//
// No hay estado global: el binding vive en el context.Context del request y
// desaparece con él, en cualquier camino de salida. Los componentes del core
// reciben el TenantID como parámetro explícito; solo el borde (AuthGate, CLI,
// tests) usa Bind/Scope.
package tenantctx

import (
	"context"
	"errors"
	"strings"
)

// TenantID identifica la partición de datos de un negocio.
type TenantID string

// Master es la partición administrativa, independiente de tenant.
const Master TenantID = "master"

// ErrNoTenant indica que se pidió el tenant actual antes de ligarlo.
var ErrNoTenant = errors.New("tenantctx: no tenant bound to context")

type ctxKey struct{}

// Normalize resuelve el valor vacío a Master.
func Normalize(raw string) TenantID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Master
	}
	return TenantID(raw)
}

// String implementa fmt.Stringer.
func (t TenantID) String() string { return string(t) }

// Bind devuelve un contexto hijo ligado al tenant. Un segundo Bind sobre un
// contexto ya ligado es un error de programación y hace panic.
func Bind(ctx context.Context, id TenantID) context.Context {
	if id == "" {
		panic("tenantctx: bind with empty tenant id")
	}
	if _, ok := ctx.Value(ctxKey{}).(TenantID); ok {
		panic("tenantctx: context already bound to a tenant")
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// Current retorna el tenant ligado al contexto.
func Current(ctx context.Context) (TenantID, error) {
	if ctx == nil {
		return "", ErrNoTenant
	}
	id, ok := ctx.Value(ctxKey{}).(TenantID)
	if !ok || id == "" {
		return "", ErrNoTenant
	}
	return id, nil
}

// MustCurrent es Current pero hace panic si no hay tenant.
// Usar solo detrás del middleware de AuthGate.
func MustCurrent(ctx context.Context) TenantID {
	id, err := Current(ctx)
	if err != nil {
		panic(err)
	}
	return id
}

// Scope ejecuta fn con el tenant ligado. Al retornar fn (con o sin error, o
// por panic) el binding deja de existir para el llamador: el contexto original
// nunca fue modificado.
func Scope(ctx context.Context, id TenantID, fn func(ctx context.Context) error) error {
	scoped, cancel := context.WithCancel(Bind(ctx, id))
	defer cancel()
	return fn(scoped)
}
