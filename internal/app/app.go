// Package app es el composition root: arma store, cache, núcleo, services,
// controllers y router a partir de la configuración.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/cache"
	"github.com/dropDatabas3/comanda/internal/config"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/http/controllers"
	mw "github.com/dropDatabas3/comanda/internal/http/middlewares"
	"github.com/dropDatabas3/comanda/internal/http/router"
	"github.com/dropDatabas3/comanda/internal/http/services"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/kot"
	"github.com/dropDatabas3/comanda/internal/metrics"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/rate"
	"github.com/dropDatabas3/comanda/internal/store"
	_ "github.com/dropDatabas3/comanda/internal/store/adapters/dal"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
	"github.com/dropDatabas3/comanda/internal/util"
)

// Deps permite inyectar dependencias ya construidas. Los campos nil se
// construyen desde la configuración.
type Deps struct {
	Store repository.Store
	Cache cache.Client
	// Registry recibe las métricas. nil crea uno propio.
	Registry *prometheus.Registry
	// Now sella el inventario; nil usa time.Now.
	Now func() time.Time
}

// App representa la aplicación cableada.
type App struct {
	Handler http.Handler

	Store     repository.Store
	Cache     cache.Client
	Tables    *tablestatus.Aggregator
	Kot       *kot.Distributor
	Gate      *authgate.Gate
	Services  services.Services
	Heartbeat time.Duration
}

// New crea y cablea la aplicación.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*App, error) {
	log := logger.L().With(logger.Layer("app"))

	ttls, err := cfg.CacheTTLs()
	if err != nil {
		return nil, err
	}

	// 1. Record store
	st := deps.Store
	if st == nil {
		st, err = store.Open(ctx, store.AdapterConfig{
			Name:         cfg.Storage.Driver,
			DSN:          cfg.Storage.DSN,
			MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	// 2. Cache backend
	cc := deps.Cache
	if cc == nil {
		cc, err = cache.New(cache.Config{
			Kind:     cfg.Cache.Kind,
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	// 3. Métricas
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg); err != nil {
		_ = cc.Close()
		_ = st.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	// 4. Núcleo
	coord := tenantcache.New(tenantcache.Config{
		Backend: cc,
		Policy:  tenantcache.DefaultPolicy().Merge(ttls),
	})
	tables := tablestatus.New(st, coord)
	dist := kot.NewDistributor()

	// 5. Credenciales
	codec, err := authgate.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, config.Duration(cfg.JWT.AccessTTL))
	if err != nil {
		_ = cc.Close()
		_ = st.Close()
		return nil, fmt.Errorf("jwt codec: %w", err)
	}
	loginRate := mw.RateLimitConfig{
		RPS:     cfg.Rate.Login.RPS,
		Burst:   cfg.Rate.Login.Burst,
		KeyFunc: mw.IPOnlyRateKey,
	}
	blacklist, blacklistKind := authgate.NewMemoryBlacklist(), "memory"
	// Con Redis, blacklist y rate limit de login se comparten entre réplicas.
	if rb, ok := cc.(cache.RedisBacked); ok {
		blacklist, blacklistKind = authgate.NewRedisBlacklist(rb.Redis(), cfg.Cache.Redis.Prefix), "redis"
		if loginRate.RPS > 0 {
			loginRate.Limiter = rate.NewRedis(rb.Redis(), cfg.Cache.Redis.Prefix+":rl:login:",
				loginRate.Burst, rate.WindowFor(loginRate.RPS, loginRate.Burst))
		}
	}
	gate := authgate.New(codec, st, blacklist)

	// 6. Services, controllers y router
	svcs := services.New(services.Deps{
		Store:  st,
		Cache:  coord,
		Tables: tables,
		Kot:    dist,
		Gate:   gate,
		Now:    deps.Now,
	})
	heartbeat := config.Duration(cfg.Kot.Heartbeat)
	ctrls := controllers.New(svcs, controllers.Deps{
		Tables:       tables,
		Kot:          dist,
		StoreHealth:  st.Ping,
		CacheHealth:  cc.Ping,
		KotHeartbeat: heartbeat,
	})
	handler := router.New(router.Deps{
		Controllers: ctrls,
		Gate:        gate,
		LoginRate:   loginRate,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	log.Info("app wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("dsn", util.MaskDSN(cfg.Storage.DSN)),
		logger.String("cache", cfg.Cache.Kind),
		logger.String("blacklist", blacklistKind))

	return &App{
		Handler:   handler,
		Store:     st,
		Cache:     cc,
		Tables:    tables,
		Kot:       dist,
		Gate:      gate,
		Services:  svcs,
		Heartbeat: heartbeat,
	}, nil
}

// Close cierra los streams de cocina y libera store y cache.
func (a *App) Close() error {
	a.Kot.Close()
	return errors.Join(a.Cache.Close(), a.Store.Close())
}
