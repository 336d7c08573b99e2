package authgate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Blacklist guarda tokens revocados hasta su expiración natural.
type Blacklist interface {
	Add(ctx context.Context, token string, until time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

// Los tokens se guardan por hash; el token en claro no queda en el backend.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// ─── Memory ───

type memoryBlacklist struct {
	c *gocache.Cache
}

// NewMemoryBlacklist crea una blacklist in-process.
func NewMemoryBlacklist() Blacklist {
	return &memoryBlacklist{c: gocache.New(gocache.NoExpiration, 5*time.Minute)}
}

func (m *memoryBlacklist) Add(_ context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	m.c.Set(blacklistKey(token), struct{}{}, ttl)
	return nil
}

func (m *memoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	_, ok := m.c.Get(blacklistKey(token))
	return ok, nil
}

// ─── Redis ───

type redisBlacklist struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisBlacklist crea una blacklist compartida entre procesos.
func NewRedisBlacklist(rdb *redis.Client, prefix string) Blacklist {
	return &redisBlacklist{rdb: rdb, prefix: prefix}
}

func (r *redisBlacklist) key(token string) string {
	if r.prefix == "" {
		return blacklistKey(token)
	}
	return r.prefix + ":" + blacklistKey(token)
}

func (r *redisBlacklist) Add(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.key(token), "1", ttl).Err()
}

func (r *redisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
