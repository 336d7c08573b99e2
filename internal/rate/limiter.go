// Package rate limita requests por clave (IP, usuario).
//
// Dos implementaciones:
//   - Local: token bucket por clave en memoria (golang.org/x/time/rate).
//   - Redis: ventana fija compartida entre réplicas (INCR + EXPIRE).
package rate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	rdb "github.com/redis/go-redis/v9"
	xrate "golang.org/x/time/rate"
)

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// ─── Local ───

// LocalLimiter mantiene un token bucket por clave; los buckets inactivos
// expiran solos.
type LocalLimiter struct {
	rps   xrate.Limit
	burst int
	idle  time.Duration
	items *gocache.Cache
}

// NewLocal crea el limitador. rps <= 0 deja pasar todo.
func NewLocal(rps float64, burst int, idle time.Duration) *LocalLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &LocalLimiter{
		rps:   xrate.Limit(rps),
		burst: burst,
		idle:  idle,
		items: gocache.New(idle, idle),
	}
}

func (l *LocalLimiter) bucket(key string) *xrate.Limiter {
	if v, ok := l.items.Get(key); ok {
		lim := v.(*xrate.Limiter)
		l.items.Set(key, lim, l.idle)
		return lim
	}
	lim := xrate.NewLimiter(l.rps, l.burst)
	if err := l.items.Add(key, lim, l.idle); err != nil {
		// otro request creó el bucket primero
		if v, ok := l.items.Get(key); ok {
			return v.(*xrate.Limiter)
		}
	}
	return lim
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Result, error) {
	if l.rps <= 0 {
		return Result{Allowed: true, Remaining: math.MaxInt64}, nil
	}
	lim := l.bucket(key)
	res := lim.Reserve()
	if !res.OK() {
		return Result{RetryAfter: time.Second}, nil
	}
	if d := res.Delay(); d > 0 {
		res.Cancel()
		return Result{RetryAfter: d}, nil
	}
	return Result{Allowed: true, Remaining: int64(lim.Tokens())}, nil
}

// ─── Redis ───

// RedisLimiter: ventana fija de Window con hasta Max hits por clave.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewRedis(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) key(key string, winStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.window)
	k := l.key(key, winStart)

	hits, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, err
	}
	// expiry en el primer hit de la ventana
	if hits == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Allowed: hits <= l.max, Remaining: max(l.max-hits, 0)}
	if !res.Allowed {
		// resto de la ventana
		res.RetryAfter = winStart.Add(l.window).Sub(l.now().UTC())
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Duration(math.Ceil(l.window.Seconds())) * time.Second
		}
	}
	return res, nil
}

// WindowFor traduce un token bucket (rps, burst) a una ventana fija
// equivalente: burst hits cada burst/rps segundos.
func WindowFor(rps float64, burst int) time.Duration {
	if rps <= 0 || burst <= 0 {
		return time.Minute
	}
	return time.Duration(math.Ceil(float64(burst)/rps)) * time.Second
}
