package tenantcache

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Para cualquier par de tenants distintos y cualquier clave local, lo que un
// tenant publica o desaloja nunca es visible para el otro.
func TestProperty_TenantIsolation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nonEmpty := gen.AnyString().SuchThat(func(s string) bool { return s != "" })

	properties.Property("a tenant never reads another tenant's entry", prop.ForAll(
		func(a, b, local string, value int) bool {
			if a == b {
				return true
			}
			ctx := context.Background()
			c := New(Config{})
			c.Put(ctx, Order, tenantctx.TenantID(a), local, value)

			var got int
			return !c.Get(ctx, Order, tenantctx.TenantID(b), local, &got)
		},
		nonEmpty, nonEmpty, gen.AnyString(), gen.Int(),
	))

	properties.Property("evicting one tenant leaves the other intact", prop.ForAll(
		func(a, b, local string, value int) bool {
			if a == b {
				return true
			}
			ctx := context.Background()
			c := New(Config{})
			c.Put(ctx, Order, tenantctx.TenantID(a), local, value)
			c.Put(ctx, Order, tenantctx.TenantID(b), local, value+1)

			c.EvictAll(ctx, tenantctx.TenantID(a), Order)

			var got int
			if c.Get(ctx, Order, tenantctx.TenantID(a), local, &got) {
				return false
			}
			return c.Get(ctx, Order, tenantctx.TenantID(b), local, &got) && got == value+1
		},
		nonEmpty, nonEmpty, gen.AnyString(), gen.Int(),
	))

	properties.TestingRun(t)
}
