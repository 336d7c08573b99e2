package tenantctx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, Master, Normalize(""))
	require.Equal(t, Master, Normalize("   "))
	require.Equal(t, TenantID("diner7"), Normalize(" diner7 "))
}

func TestCurrent_BeforeBind(t *testing.T) {
	_, err := Current(context.Background())
	require.ErrorIs(t, err, ErrNoTenant)
	require.Panics(t, func() { MustCurrent(context.Background()) })
}

func TestBind_Twice_Panics(t *testing.T) {
	ctx := Bind(context.Background(), "a")
	require.Panics(t, func() { Bind(ctx, "b") })
}

func TestScope_ClearsOnEveryExitPath(t *testing.T) {
	base := context.Background()

	var seen TenantID
	err := Scope(base, "diner7", func(ctx context.Context) error {
		seen = MustCurrent(ctx)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, TenantID("diner7"), seen)

	boom := errors.New("boom")
	err = Scope(base, "diner7", func(ctx context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	require.Panics(t, func() {
		_ = Scope(base, "diner7", func(ctx context.Context) error { panic("x") })
	})

	// El contexto base nunca queda ligado
	_, err = Current(base)
	require.ErrorIs(t, err, ErrNoTenant)
}

func TestScope_ConcurrentWorkersDoNotLeak(t *testing.T) {
	base := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := TenantID([]string{"a", "b"}[i%2])
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Scope(base, id, func(ctx context.Context) error {
				assert.Equal(t, id, MustCurrent(ctx))
				return nil
			})
		}()
	}
	wg.Wait()
}
