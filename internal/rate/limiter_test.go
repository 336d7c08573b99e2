package rate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_BurstThenBlocked(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(0.001, 2, time.Minute)

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	res, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "cada clave tiene su bucket")
}

func TestLocal_Disabled(t *testing.T) {
	l := NewLocal(0, 0, 0)
	for i := 0; i < 100; i++ {
		res, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
}

func TestWindowFor(t *testing.T) {
	assert.Equal(t, 25*time.Second, WindowFor(0.2, 5))
	assert.Equal(t, time.Second, WindowFor(10, 10))
	assert.Equal(t, time.Minute, WindowFor(0, 5))
}

// Corre solo con COMANDA_TEST_REDIS=host:port
func TestRedis_FixedWindow(t *testing.T) {
	addr := os.Getenv("COMANDA_TEST_REDIS")
	if addr == "" {
		t.Skip("COMANDA_TEST_REDIS not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	l := NewRedis(client, "test:rl:"+uuid.NewString()+":", 3, time.Minute)
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}
