// Package tablestatus deriva la ocupación de mesas de un tenant.
//
// El snapshot se calcula a partir del tableCount cacheado y de las mesas con
// órdenes abiertas, y se cachea 5 segundos. Mientras el cache está frío, los
// llamadores concurrentes del mismo tenant comparten una sola recomputación.
package tablestatus

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/metrics"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

const snapshotKey = "all"

// Snapshot es el estado de una mesa.
type Snapshot struct {
	TableNumber int  `json:"tableNumber"`
	Occupied    bool `json:"isOccupied"`
}

// Store es lo que el agregador necesita del record store.
type Store interface {
	FindTableCount(ctx context.Context, tenant tenantctx.TenantID, businessID int64) (int, error)
	FindOpenOrderTableNumbers(ctx context.Context, tenant tenantctx.TenantID) (map[int]struct{}, error)
}

// Aggregator es seguro para uso concurrente.
type Aggregator struct {
	store Store
	cache *tenantcache.Coordinator
	sf    singleflight.Group
}

// New crea un Aggregator.
func New(store Store, cache *tenantcache.Coordinator) *Aggregator {
	return &Aggregator{store: store, cache: cache}
}

// GetAllTableStatus retorna el estado de las mesas 1..tableCount en orden.
// Sin negocio o con tableCount <= 0 retorna una secuencia vacía.
func (a *Aggregator) GetAllTableStatus(ctx context.Context, tenant tenantctx.TenantID) ([]Snapshot, error) {
	epoch := a.cache.Epoch(tenantcache.TableStatus, tenant)

	var cached []Snapshot
	if a.cache.Get(ctx, tenantcache.TableStatus, tenant, snapshotKey, &cached) {
		return cached, nil
	}

	// La época es parte de la clave: tras un Invalidate arranca una
	// recomputación nueva en lugar de esperar una que ya leyó el store.
	flight := string(tenant) + "@" + strconv.FormatUint(epoch, 10)
	v, err, shared := a.sf.Do(flight, func() (any, error) {
		return a.compute(context.WithoutCancel(ctx), tenant, epoch)
	})
	if err != nil {
		return nil, err
	}
	snaps := v.([]Snapshot)
	if shared {
		// Cada llamador recibe su propia copia.
		snaps = append([]Snapshot(nil), snaps...)
	}
	return snaps, nil
}

func (a *Aggregator) compute(ctx context.Context, tenant tenantctx.TenantID, epoch uint64) ([]Snapshot, error) {
	// Un llamador que perdió la carrera contra una recomputación ya terminada
	// encuentra el snapshot fresco aquí.
	var cached []Snapshot
	if a.cache.Get(ctx, tenantcache.TableStatus, tenant, snapshotKey, &cached) {
		return cached, nil
	}

	metrics.TableStatusComputations.Inc()

	count, err := tenantcache.ReadThrough(ctx, a.cache, tenantcache.TableCount, tenant,
		strconv.FormatInt(repository.DefaultBusinessID, 10),
		func(ctx context.Context) (int, error) {
			return a.store.FindTableCount(ctx, tenant, repository.DefaultBusinessID)
		})
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []Snapshot{}, nil
	}

	open, err := a.store.FindOpenOrderTableNumbers(ctx, tenant)
	if err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, count)
	for i := range snaps {
		n := i + 1
		_, occupied := open[n]
		snaps[i] = Snapshot{TableNumber: n, Occupied: occupied}
	}

	// Si hubo un Invalidate durante el cálculo, el snapshot se entrega pero no se cachea.
	a.cache.PutIfCurrent(ctx, tenantcache.TableStatus, tenant, snapshotKey, snaps, epoch)
	logger.From(ctx).Debug("table status recomputed",
		logger.Tenant(tenant.String()), logger.Count(count), logger.Int("occupied", len(open)))
	return snaps, nil
}

// IsTableOccupied consulta el mismo snapshot que GetAllTableStatus. Una mesa
// fuera de rango no está ocupada.
func (a *Aggregator) IsTableOccupied(ctx context.Context, tenant tenantctx.TenantID, table int) (bool, error) {
	snaps, err := a.GetAllTableStatus(ctx, tenant)
	if err != nil {
		return false, err
	}
	if table < 1 || table > len(snaps) {
		return false, nil
	}
	return snaps[table-1].Occupied, nil
}

// Invalidate descarta el snapshot cacheado del tenant.
func (a *Aggregator) Invalidate(ctx context.Context, tenant tenantctx.TenantID) {
	a.cache.Evict(ctx, tenantcache.TableStatus, tenant, snapshotKey)
}
