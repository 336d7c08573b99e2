package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del core (cache por tenant, estado de mesas, comandas). Viven en un
// paquete propio para evitar ciclos entre tenantcache/kot y la capa HTTP.

var (
	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_cache_hits_total",
		Help: "Lecturas servidas desde el cache, por cache lógico",
	}, []string{"cache"})

	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_cache_misses_total",
		Help: "Lecturas que fueron al record store, por cache lógico",
	}, []string{"cache"})

	CacheErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_cache_backend_errors_total",
		Help: "Errores del backend de cache absorbidos (fallback al store)",
	}, []string{"cache", "op"})

	CacheEvictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_cache_evictions_total",
		Help: "Evicciones explícitas, por cache lógico",
	}, []string{"cache"})

	TableStatusComputations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comanda_table_status_computations_total",
		Help: "Recomputaciones del estado de mesas contra el store",
	})

	KotSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "comanda_kot_subscribers",
		Help: "Suscriptores activos al stream de comandas (todos los tenants)",
	})

	KotEmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comanda_kot_emissions_total",
		Help: "Snapshots de comandas publicados",
	})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comanda_http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comanda_http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register registra las métricas en el registry dado (o el default si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		CacheHits, CacheMisses, CacheErrors, CacheEvictions,
		TableStatusComputations, KotSubscribers, KotEmissions,
		HTTPRequests, HTTPDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
