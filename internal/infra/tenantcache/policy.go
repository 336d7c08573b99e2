package tenantcache

import "time"

// Name identifica un cache lógico. Cada uno tiene su propio TTL.
type Name string

const (
	Business    Name = "business"
	TableCount  Name = "tableCount"
	Inventory   Name = "inventory"
	Products    Name = "products"
	Product     Name = "product"
	Order       Name = "order"
	TableStatus Name = "tableStatus"
)

// DefaultTTL aplica a cualquier cache sin TTL explícito.
const DefaultTTL = 10 * time.Minute

// Policy mapea cache lógico -> TTL.
type Policy map[Name]time.Duration

// DefaultPolicy retorna los TTL de referencia.
func DefaultPolicy() Policy {
	return Policy{
		Business:    10 * time.Minute,
		TableCount:  10 * time.Minute,
		Inventory:   30 * time.Minute,
		Products:    10 * time.Minute,
		Product:     10 * time.Minute,
		Order:       10 * time.Minute,
		TableStatus: 5 * time.Second,
	}
}

// TTL retorna el TTL del cache (DefaultTTL si no está definido).
func (p Policy) TTL(name Name) time.Duration {
	if d, ok := p[name]; ok && d > 0 {
		return d
	}
	return DefaultTTL
}

// Merge retorna una copia de p con los overrides aplicados (los <= 0 se ignoran).
func (p Policy) Merge(overrides map[string]time.Duration) Policy {
	out := make(Policy, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		if v > 0 {
			out[Name(k)] = v
		}
	}
	return out
}
