// Package tenantcache implementa el cache read-through/write-through por
// tenant sobre el record store.
//
// Toda entrada se direcciona por (cache lógico, tenant, clave local); el
// tenant siempre es parte de la clave y nunca se infiere. Las evicciones
// también están acotadas al tenant que actúa: no existe una operación que
// invalide un cache lógico para todos los tenants.
//
// El backend es una optimización: cualquier error suyo se loguea, se cuenta
// y se trata como miss. Nunca convierte una lectura en error.
//
// Cada par (cache lógico, tenant) lleva una época que Put, Evict y EvictAll
// incrementan antes de tocar el backend. Un load de ReadThrough solo publica
// su resultado si la época no cambió desde que empezó; así un load que leyó
// el store antes de una escritura no re-publica el valor viejo.
package tenantcache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/comanda/internal/cache"
	"github.com/dropDatabas3/comanda/internal/metrics"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Config permite personalizar el Coordinator.
type Config struct {
	Backend cache.Client
	Policy  Policy // nil => DefaultPolicy()
}

// Coordinator es seguro para uso concurrente.
type Coordinator struct {
	backend cache.Client
	policy  Policy
	sf      singleflight.Group

	epochMu sync.Mutex
	epochs  map[string]uint64
}

// New crea un Coordinator. Sin backend usa uno en memoria.
func New(cfg Config) *Coordinator {
	backend := cfg.Backend
	if backend == nil {
		backend = cache.NewMemory("")
	}
	policy := cfg.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Coordinator{backend: backend, policy: policy, epochs: make(map[string]uint64)}
}

// Policy retorna la política de TTL activa.
func (c *Coordinator) Policy() Policy { return c.policy }

// Key compone la clave física. Tenant y clave local se escapan para que
// ningún valor pueda colisionar con la partición de otro tenant.
func Key(name Name, tenant tenantctx.TenantID, local string) string {
	return tenantPrefix(name, tenant) + url.QueryEscape(local)
}

func tenantPrefix(name Name, tenant tenantctx.TenantID) string {
	return string(name) + "::" + url.QueryEscape(string(tenant)) + "::"
}

// Get busca la entrada y la decodifica en dst. Retorna false en miss o ante
// cualquier error del backend.
func (c *Coordinator) Get(ctx context.Context, name Name, tenant tenantctx.TenantID, local string, dst any) bool {
	key := Key(name, tenant, local)
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		if !cache.IsNotFound(err) {
			c.backendFailed(ctx, name, tenant, "get", err)
		}
		metrics.CacheMisses.WithLabelValues(string(name)).Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Entrada corrupta o de un formato anterior: se descarta.
		logger.From(ctx).Warn("cache entry undecodable, evicting",
			logger.CacheName(string(name)), logger.Tenant(tenant.String()), logger.Err(err))
		_ = c.backend.Delete(ctx, key)
		metrics.CacheMisses.WithLabelValues(string(name)).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(string(name)).Inc()
	return true
}

// Epoch retorna la época actual de (name, tenant). Solo es comparable por
// igualdad contra otra lectura del mismo par.
func (c *Coordinator) Epoch(name Name, tenant tenantctx.TenantID) uint64 {
	c.epochMu.Lock()
	defer c.epochMu.Unlock()
	return c.epochs[tenantPrefix(name, tenant)]
}

func (c *Coordinator) bump(name Name, tenant tenantctx.TenantID) {
	c.epochMu.Lock()
	c.epochs[tenantPrefix(name, tenant)]++
	c.epochMu.Unlock()
}

// Put publica value con el TTL del cache lógico (write-through). Valores nil
// no se cachean.
func (c *Coordinator) Put(ctx context.Context, name Name, tenant tenantctx.TenantID, local string, value any) {
	if isNil(value) {
		return
	}
	c.bump(name, tenant)
	c.set(ctx, name, tenant, local, value)
}

// PutIfCurrent publica value solo si (name, tenant) no cambió de época desde
// epoch. Si una escritura se cruza con el Set, la entrada recién publicada se
// descarta. Retorna true si la entrada quedó publicada.
func (c *Coordinator) PutIfCurrent(ctx context.Context, name Name, tenant tenantctx.TenantID, local string, value any, epoch uint64) bool {
	if isNil(value) || c.Epoch(name, tenant) != epoch {
		return false
	}
	if !c.set(ctx, name, tenant, local, value) {
		return false
	}
	if c.Epoch(name, tenant) != epoch {
		if err := c.backend.Delete(ctx, Key(name, tenant, local)); err != nil {
			c.backendFailed(ctx, name, tenant, "evict", err)
		}
		return false
	}
	return true
}

func (c *Coordinator) set(ctx context.Context, name Name, tenant tenantctx.TenantID, local string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.From(ctx).Error("cache value not serializable",
			logger.CacheName(string(name)), logger.Tenant(tenant.String()), logger.Err(err))
		return false
	}
	if err := c.backend.Set(ctx, Key(name, tenant, local), raw, c.policy.TTL(name)); err != nil {
		c.backendFailed(ctx, name, tenant, "put", err)
		return false
	}
	return true
}

// Evict elimina una entrada del tenant.
func (c *Coordinator) Evict(ctx context.Context, name Name, tenant tenantctx.TenantID, local string) {
	c.bump(name, tenant)
	metrics.CacheEvictions.WithLabelValues(string(name)).Inc()
	if err := c.backend.Delete(ctx, Key(name, tenant, local)); err != nil {
		c.backendFailed(ctx, name, tenant, "evict", err)
	}
}

// EvictAll elimina todas las entradas de los caches indicados, solo para tenant.
func (c *Coordinator) EvictAll(ctx context.Context, tenant tenantctx.TenantID, names ...Name) {
	for _, name := range names {
		c.bump(name, tenant)
	}
	for _, name := range names {
		metrics.CacheEvictions.WithLabelValues(string(name)).Inc()
		if _, err := c.backend.DeleteByPrefix(ctx, tenantPrefix(name, tenant)); err != nil {
			c.backendFailed(ctx, name, tenant, "evict_all", err)
		}
	}
}

func (c *Coordinator) backendFailed(ctx context.Context, name Name, tenant tenantctx.TenantID, op string, err error) {
	metrics.CacheErrors.WithLabelValues(string(name), op).Inc()
	logger.From(ctx).Warn("cache backend unavailable, falling back to store",
		logger.CacheName(string(name)), logger.Tenant(tenant.String()), logger.Op(op), logger.Err(err))
}

// ReadThrough devuelve el valor cacheado o lo calcula con load y lo publica.
// Misses concurrentes sobre la misma clave y época comparten un único load.
// Si load falla no se cachea nada y el error llega intacto al llamador.
func ReadThrough[T any](ctx context.Context, c *Coordinator, name Name, tenant tenantctx.TenantID, local string, load func(ctx context.Context) (T, error)) (T, error) {
	epoch := c.Epoch(name, tenant)

	var out T
	if c.Get(ctx, name, tenant, local, &out) {
		return out, nil
	}

	// Un llamador que llega después de una evicción no se suma a un load anterior.
	flight := Key(name, tenant, local) + "@" + strconv.FormatUint(epoch, 10)
	v, err, _ := c.sf.Do(flight, func() (any, error) {
		// El load es compartido: la cancelación de un llamador no aborta a los demás.
		fresh, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.PutIfCurrent(ctx, name, tenant, local, fresh, epoch)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.New("tenantcache: shared result has unexpected type")
	}
	return typed, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
