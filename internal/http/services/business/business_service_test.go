package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/business"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/store/adapters/memory"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
)

func newService(t *testing.T) (BusinessService, *memory.Store, *tenantcache.Coordinator) {
	t.Helper()
	st := memory.New()
	coord := tenantcache.New(tenantcache.Config{})
	return NewBusinessService(Deps{Store: st, Cache: coord}), st, coord
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Get(context.Background(), "cafe")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGet_CachedPerTenant(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	_, err := st.SaveBusiness(ctx, "cafe", repository.Business{Name: "Cafe A"})
	require.NoError(t, err)

	b, err := svc.Get(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, "Cafe A", b.Name)

	// Escritura directa al store: el cache sigue sirviendo el valor anterior.
	_, err = st.SaveBusiness(ctx, "cafe", repository.Business{Name: "Cafe B"})
	require.NoError(t, err)
	b, err = svc.Get(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, "Cafe A", b.Name)

	_, err = svc.Get(ctx, "bistro")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveOrUpdate_EvictsTableCountAndStatus(t *testing.T) {
	svc, st, coord := newService(t)
	ctx := context.Background()
	agg := tablestatus.New(st, coord)

	_, err := svc.SaveOrUpdate(ctx, "cafe", dto.BusinessRequest{Name: "Cafe", TableCount: 2})
	require.NoError(t, err)

	n, err := svc.TableCount(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	snaps, err := agg.GetAllTableStatus(ctx, "cafe")
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	_, err = svc.SaveOrUpdate(ctx, "cafe", dto.BusinessRequest{Name: "Cafe", TableCount: 5})
	require.NoError(t, err)

	n, err = svc.TableCount(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	snaps, err = agg.GetAllTableStatus(ctx, "cafe")
	require.NoError(t, err)
	assert.Len(t, snaps, 5)

	b, err := svc.Get(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultBusinessID, b.ID)
}

func TestTableCount_AbsentIsZero(t *testing.T) {
	svc, _, _ := newService(t)
	n, err := svc.TableCount(context.Background(), "nuevo")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateLogo(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateLogo(ctx, "cafe", "https://cdn/logo.png")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.SaveOrUpdate(ctx, "cafe", dto.BusinessRequest{Name: "Cafe"})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "cafe")
	require.NoError(t, err)

	_, err = svc.UpdateLogo(ctx, "cafe", "https://cdn/logo.png")
	require.NoError(t, err)
	b, err := svc.Get(ctx, "cafe")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/logo.png", b.LogoURL)
}

func TestDashboard_WithoutBusiness(t *testing.T) {
	svc, _, _ := newService(t)
	d, err := svc.Dashboard(context.Background(), "cafe", "ana", "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "ana", d.Username)
	assert.Empty(t, d.BusinessName)
}
