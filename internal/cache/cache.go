// Package cache provee el backend de bytes sobre el que se apoya el cache
// por tenant.
//
// Soporta:
//   - Memory (in-process, go-cache; desarrollo, tests, despliegues de un nodo)
//   - Redis (externo; sobrevive a reinicios del proceso)
//
// El backend no conoce tenants ni nombres lógicos: solo claves opacas. La
// composición de claves vive en internal/tenantcache.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda un valor. ttl 0 = no expira.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete elimina las keys indicadas (las inexistentes se ignoran).
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix elimina todas las keys con el prefijo y retorna cuántas.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close libera recursos.
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind     string // "memory" | "redis"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string // prefijo global para todas las keys
}

// ErrNotFound indica que la key no existe.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
