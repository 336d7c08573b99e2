// Package kot mantiene la cola de comandas (KOT) por tenant y la reparte en
// vivo a las pantallas de cocina.
//
// Cada tenant tiene una cola dividida en carriles por mesa. Las mutaciones de
// mesas distintas solo toman el lock de su propio carril. Cada mutación
// incrementa la versión del tenant mientras aún sostiene el lock del carril,
// de modo que un snapshot armado después de leer la versión v contiene toda
// mutación con versión <= v. La emisión se serializa por tenant y descarta
// versiones ya cubiertas por un snapshot posterior, así los suscriptores ven
// una secuencia monótona de snapshots.
package kot

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Ticket es una línea de comanda.
type Ticket struct {
	OrderID     int64  `json:"orderId"`
	TableNumber int    `json:"tableNumber"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	Completed   bool   `json:"completed"`

	seq uint64
}

// Distributor es seguro para uso concurrente.
type Distributor struct {
	mu      sync.Mutex
	tenants map[tenantctx.TenantID]*queue
	closed  bool
}

type queue struct {
	lanesMu sync.Mutex
	lanes   map[int]*lane

	seq     atomic.Uint64
	version atomic.Uint64

	emitMu  sync.Mutex
	emitted uint64

	b *Broadcaster
}

type lane struct {
	mu      sync.Mutex
	tickets []Ticket
}

// NewDistributor crea un Distributor vacío.
func NewDistributor() *Distributor {
	return &Distributor{tenants: make(map[tenantctx.TenantID]*queue)}
}

func (d *Distributor) queue(tenant tenantctx.TenantID) *queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.tenants[tenant]
	if !ok {
		q = &queue{lanes: make(map[int]*lane), b: NewBroadcaster()}
		if d.closed {
			q.b.Close()
		}
		d.tenants[tenant] = q
	}
	return q
}

func (q *queue) lane(table int) *lane {
	q.lanesMu.Lock()
	defer q.lanesMu.Unlock()
	l, ok := q.lanes[table]
	if !ok {
		l = &lane{}
		q.lanes[table] = l
	}
	return l
}

func (q *queue) allLanes() []*lane {
	q.lanesMu.Lock()
	defer q.lanesMu.Unlock()
	out := make([]*lane, 0, len(q.lanes))
	for _, l := range q.lanes {
		out = append(out, l)
	}
	return out
}

// mutate ejecuta fn con el lock del carril. Si fn reporta cambios, la versión
// se incrementa antes de soltar el lock y se emite un snapshot.
func (q *queue) mutate(table int, fn func(l *lane) bool) {
	l := q.lane(table)
	l.mu.Lock()
	changed := fn(l)
	var v uint64
	if changed {
		v = q.version.Add(1)
	}
	l.mu.Unlock()

	if changed {
		q.emit(v)
	}
}

func (q *queue) emit(v uint64) {
	q.emitMu.Lock()
	defer q.emitMu.Unlock()
	if v <= q.emitted {
		return
	}
	cur := q.version.Load()
	q.b.Publish(q.collect(false))
	q.emitted = cur
}

// collect arma la lista ordenada por inserción de tickets pendientes (o completados).
func (q *queue) collect(completed bool) []Ticket {
	out := []Ticket{}
	for _, l := range q.allLanes() {
		l.mu.Lock()
		for _, t := range l.tickets {
			if t.Completed == completed {
				out = append(out, t)
			}
		}
		l.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func removePending(tickets []Ticket) ([]Ticket, bool) {
	kept := tickets[:0]
	removed := false
	for _, t := range tickets {
		if !t.Completed {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}

// AddOrder encola una línea por ítem de la orden. Los tickets pendientes
// previos de la misma mesa se reemplazan.
func (d *Distributor) AddOrder(ctx context.Context, tenant tenantctx.TenantID, order repository.Order) {
	q := d.queue(tenant)
	q.mutate(order.TableNumber, func(l *lane) bool {
		kept, _ := removePending(l.tickets)
		for _, it := range order.Items {
			kept = append(kept, Ticket{
				OrderID:     order.ID,
				TableNumber: order.TableNumber,
				ItemName:    it.ItemName,
				Quantity:    it.Quantity,
				seq:         q.seq.Add(1),
			})
		}
		l.tickets = kept
		return true
	})
	logger.From(ctx).Debug("kot order queued",
		logger.Tenant(tenant.String()), logger.OrderID(order.ID), logger.Table(order.TableNumber), logger.Count(len(order.Items)))
}

// RemoveByTable descarta los tickets pendientes de la mesa. Los completados se conservan.
func (d *Distributor) RemoveByTable(ctx context.Context, tenant tenantctx.TenantID, table int) {
	q := d.queue(tenant)
	q.mutate(table, func(l *lane) bool {
		kept, removed := removePending(l.tickets)
		l.tickets = kept
		return removed
	})
	logger.From(ctx).Debug("kot table cleared", logger.Tenant(tenant.String()), logger.Table(table))
}

// MarkCompletedByOrder marca como completados los tickets pendientes de la
// orden. Es idempotente: repetirlo no cambia nada ni emite.
func (d *Distributor) MarkCompletedByOrder(ctx context.Context, tenant tenantctx.TenantID, orderID int64) {
	q := d.queue(tenant)
	q.lanesMu.Lock()
	tables := make([]int, 0, len(q.lanes))
	for n := range q.lanes {
		tables = append(tables, n)
	}
	q.lanesMu.Unlock()

	for _, n := range tables {
		q.mutate(n, func(l *lane) bool {
			changed := false
			for i := range l.tickets {
				if l.tickets[i].OrderID == orderID && !l.tickets[i].Completed {
					l.tickets[i].Completed = true
					changed = true
				}
			}
			return changed
		})
	}
	logger.From(ctx).Debug("kot order completed", logger.Tenant(tenant.String()), logger.OrderID(orderID))
}

// GetAllPending retorna los tickets pendientes en orden de llegada.
func (d *Distributor) GetAllPending(_ context.Context, tenant tenantctx.TenantID) []Ticket {
	return d.queue(tenant).collect(false)
}

// GetAllCompleted retorna los tickets completados en orden de llegada.
func (d *Distributor) GetAllCompleted(_ context.Context, tenant tenantctx.TenantID) []Ticket {
	return d.queue(tenant).collect(true)
}

// Stream adjunta un suscriptor nuevo al tenant. Recibe de inmediato el último
// snapshot de pendientes (si ya se emitió alguno) y luego cada emisión. El
// canal se cierra cuando ctx termina o el Distributor se cierra.
func (d *Distributor) Stream(ctx context.Context, tenant tenantctx.TenantID) <-chan []Ticket {
	b := d.queue(tenant).b
	ch, cancel := b.Subscribe()
	go func() {
		select {
		case <-ctx.Done():
		case <-b.Done():
		}
		cancel()
	}()
	return ch
}

// Close desconecta todos los streams abiertos.
func (d *Distributor) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for _, q := range d.tenants {
		q.b.Close()
	}
}
