package tenantcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/comanda/internal/cache"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

type business struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// brokenBackend falla en toda operación, como un Redis caído.
type brokenBackend struct{}

var errDown = errors.New("connection refused")

func (brokenBackend) Get(context.Context, string) ([]byte, error)              { return nil, errDown }
func (brokenBackend) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (brokenBackend) Delete(context.Context, ...string) error                  { return errDown }
func (brokenBackend) DeleteByPrefix(context.Context, string) (int, error)      { return 0, errDown }
func (brokenBackend) Ping(context.Context) error                               { return errDown }
func (brokenBackend) Close() error                                             { return nil }

func TestKey_TenantIsPartOfKey(t *testing.T) {
	a := Key(Business, "cafe", "default")
	b := Key(Business, "diner", "default")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "business::cafe::default", a)

	// Un separador dentro del tenant no puede invadir otra partición.
	assert.NotEqual(t, Key(Order, "a::b", "c"), Key(Order, "a", "b::c"))
}

func TestPutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	c.Put(ctx, Business, "cafe", "default", business{ID: 1, Name: "Cafe"})

	var got business
	require.True(t, c.Get(ctx, Business, "cafe", "default", &got))
	assert.Equal(t, "Cafe", got.Name)

	var other business
	assert.False(t, c.Get(ctx, Business, "diner", "default", &other), "otro tenant no debe ver la entrada")
}

func TestPut_NilNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	var p *business
	c.Put(ctx, Business, "cafe", "default", p)

	var got *business
	assert.False(t, c.Get(ctx, Business, "cafe", "default", &got))
}

func TestEvictAll_ScopedToTenant(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	c.Put(ctx, Order, "cafe", "1", business{ID: 1})
	c.Put(ctx, Order, "cafe", "2", business{ID: 2})
	c.Put(ctx, Order, "diner", "1", business{ID: 3})
	c.Put(ctx, Products, "cafe", "all", []business{{ID: 9}})

	c.EvictAll(ctx, "cafe", Order)

	var v business
	assert.False(t, c.Get(ctx, Order, "cafe", "1", &v))
	assert.False(t, c.Get(ctx, Order, "cafe", "2", &v))
	require.True(t, c.Get(ctx, Order, "diner", "1", &v))
	assert.Equal(t, int64(3), v.ID)

	var list []business
	assert.True(t, c.Get(ctx, Products, "cafe", "all", &list), "otros caches no se tocan")
}

func TestEvict_Single(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	c.Put(ctx, Product, "cafe", "5", business{ID: 5})
	c.Put(ctx, Product, "cafe", "6", business{ID: 6})

	c.Evict(ctx, Product, "cafe", "5")

	var v business
	assert.False(t, c.Get(ctx, Product, "cafe", "5", &v))
	assert.True(t, c.Get(ctx, Product, "cafe", "6", &v))
}

func TestReadThrough_LoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	var loads int32

	load := func(context.Context) (business, error) {
		atomic.AddInt32(&loads, 1)
		return business{ID: 1, Name: "Cafe"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := ReadThrough(ctx, c, Business, "cafe", "default", load)
		require.NoError(t, err)
		assert.Equal(t, "Cafe", got.Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestReadThrough_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	boom := errors.New("store down")

	_, err := ReadThrough(ctx, c, Business, "cafe", "default", func(context.Context) (business, error) {
		return business{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := ReadThrough(ctx, c, Business, "cafe", "default", func(context.Context) (business, error) {
		return business{ID: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestReadThrough_ConcurrentMissesShareLoad(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	var loads int32
	release := make(chan struct{})

	load := func(context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return 12, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := ReadThrough(ctx, c, TableCount, "diner", "1", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for _, v := range results {
		assert.Equal(t, 12, v)
	}
}

func TestReadThrough_LoadOverlappingEvictNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	var mu sync.Mutex
	stored := "old"
	read := func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return stored, nil
	}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string, 1)
	go func() {
		v, err := ReadThrough(ctx, c, Business, "cafe", "1", func(ctx context.Context) (string, error) {
			v, err := read(ctx)
			close(started)
			<-release
			return v, err
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	mu.Lock()
	stored = "new"
	mu.Unlock()
	c.Evict(ctx, Business, "cafe", "1")

	// Un lector posterior a la escritura no se suma al load viejo.
	v, err := ReadThrough(ctx, c, Business, "cafe", "1", read)
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	assert.Equal(t, "old", <-done)

	v, err = ReadThrough(ctx, c, Business, "cafe", "1", read)
	require.NoError(t, err)
	assert.Equal(t, "new", v, "el load viejo no se publica después del evict")
}

func TestReadThrough_LoadOverlappingEvictAllNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	epoch := c.Epoch(Products, "cafe")
	c.EvictAll(ctx, "cafe", Products)
	assert.False(t, c.PutIfCurrent(ctx, Products, "cafe", "all", []string{"Tea"}, epoch))

	var got []string
	assert.False(t, c.Get(ctx, Products, "cafe", "all", &got))

	// La época de otro tenant no se toca.
	other := c.Epoch(Products, "diner")
	c.EvictAll(ctx, "cafe", Products)
	assert.True(t, c.PutIfCurrent(ctx, Products, "diner", "all", []string{"Bun"}, other))
}

func TestPut_WriteThroughInvalidatesInFlightLoad(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	epoch := c.Epoch(Order, "cafe")
	c.Put(ctx, Order, "cafe", "5", business{ID: 5, Name: "new"})
	assert.False(t, c.PutIfCurrent(ctx, Order, "cafe", "5", business{ID: 5, Name: "old"}, epoch))

	var got business
	require.True(t, c.Get(ctx, Order, "cafe", "5", &got))
	assert.Equal(t, "new", got.Name)
}

func TestReadThrough_BackendDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Backend: brokenBackend{}})
	var loads int32

	for i := 0; i < 2; i++ {
		got, err := ReadThrough(ctx, c, Business, "cafe", "default", func(context.Context) (business, error) {
			atomic.AddInt32(&loads, 1)
			return business{Name: "Cafe"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Cafe", got.Name)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))

	// Las evicciones tampoco fallan.
	c.Evict(ctx, Business, "cafe", "default")
	c.EvictAll(ctx, "cafe", Business, TableStatus)
}

func TestGet_UndecodableEntryEvicted(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemory("")
	c := New(Config{Backend: backend})

	key := Key(Business, "cafe", "default")
	require.NoError(t, backend.Set(ctx, key, []byte("{not json"), 0))

	var got business
	assert.False(t, c.Get(ctx, Business, "cafe", "default", &got))

	_, err := backend.Get(ctx, key)
	assert.True(t, cache.IsNotFound(err))
}

func TestPolicy_TTLAndMerge(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 30*time.Minute, p.TTL(Inventory))
	assert.Equal(t, 5*time.Second, p.TTL(TableStatus))
	assert.Equal(t, DefaultTTL, p.TTL(Name("unknown")))

	m := p.Merge(map[string]time.Duration{"tableStatus": 2 * time.Second, "business": 0})
	assert.Equal(t, 2*time.Second, m.TTL(TableStatus))
	assert.Equal(t, 10*time.Minute, m.TTL(Business))
	assert.Equal(t, 5*time.Second, p.TTL(TableStatus), "Merge no modifica el original")
}

func TestPolicy_TableStatusExpires(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Policy: Policy{TableStatus: 20 * time.Millisecond}})
	c.Put(ctx, TableStatus, tenantctx.TenantID("cafe"), "all", []int{1})

	var got []int
	require.True(t, c.Get(ctx, TableStatus, "cafe", "all", &got))
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.Get(ctx, TableStatus, "cafe", "all", &got))
}
