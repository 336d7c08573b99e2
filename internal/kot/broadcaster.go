package kot

import (
	"sync"

	"github.com/dropDatabas3/comanda/internal/metrics"
)

// Broadcaster reparte snapshots a N suscriptores con semántica replay-latest:
// al suscribirse se recibe el último snapshot publicado (si hubo alguno) y
// luego cada publicación posterior en orden.
//
// Cada suscriptor tiene un buffer de un solo snapshot. Si no alcanzó a leer,
// el snapshot pendiente se reemplaza por el más nuevo: un suscriptor lento ve
// menos estados intermedios pero nunca frena al publicador ni a los demás.
type Broadcaster struct {
	mu     sync.Mutex
	latest []Ticket
	has    bool
	subs   map[chan []Ticket]struct{}
	closed bool
	done   chan struct{}
}

// NewBroadcaster crea un Broadcaster sin snapshot inicial.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan []Ticket]struct{}), done: make(chan struct{})}
}

// Publish registra snap como último snapshot y lo ofrece a cada suscriptor.
// snap no debe modificarse después de publicarse.
func (b *Broadcaster) Publish(snap []Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.latest = snap
	b.has = true
	for ch := range b.subs {
		offer(ch, snap)
	}
	metrics.KotEmissions.Inc()
}

// offer nunca bloquea. Los envíos ocurren siempre bajo b.mu, así que luego de
// vaciar el buffer el segundo envío tiene lugar garantizado.
func offer(ch chan []Ticket, snap []Ticket) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Subscribe adjunta un suscriptor nuevo. El canal se cierra al llamar a la
// función de cancelación o al cerrar el Broadcaster.
func (b *Broadcaster) Subscribe() (<-chan []Ticket, func()) {
	ch := make(chan []Ticket, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.has {
		ch <- b.latest
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	metrics.KotSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
				metrics.KotSubscribers.Dec()
			}
		})
	}
	return ch, cancel
}

// Latest retorna el último snapshot publicado.
func (b *Broadcaster) Latest() ([]Ticket, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}

// Subscribers retorna la cantidad de suscriptores activos.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Done se cierra junto con el Broadcaster.
func (b *Broadcaster) Done() <-chan struct{} { return b.done }

// Close desconecta a todos los suscriptores. Publish posteriores se ignoran.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
		metrics.KotSubscribers.Dec()
	}
}
