package order

import (
	"sort"
	"sync"

	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// tableLocks serializa, por (tenant, mesa), la escritura en el store junto
// con el push a la cola de comandas. Mesas distintas no se bloquean entre sí.
// Las entradas se liberan cuando nadie las usa.
type tableLocks struct {
	mu    sync.Mutex
	locks map[tableKey]*tableLock
}

type tableKey struct {
	tenant tenantctx.TenantID
	table  int
}

type tableLock struct {
	mu   sync.Mutex
	refs int
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[tableKey]*tableLock)}
}

// lock toma las mesas en orden ascendente (sin repetidos) y retorna la
// función que las libera.
func (l *tableLocks) lock(tenant tenantctx.TenantID, tables ...int) func() {
	sorted := append([]int(nil), tables...)
	sort.Ints(sorted)

	held := make([]tableKey, 0, len(sorted))
	for i, n := range sorted {
		if i > 0 && n == sorted[i-1] {
			continue
		}
		k := tableKey{tenant: tenant, table: n}
		l.acquire(k).mu.Lock()
		held = append(held, k)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.release(held[i])
		}
	}
}

func (l *tableLocks) acquire(k tableKey) *tableLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[k]
	if !ok {
		e = &tableLock{}
		l.locks[k] = e
	}
	e.refs++
	return e
}

func (l *tableLocks) release(k tableKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[k]
	e.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, k)
	}
}
