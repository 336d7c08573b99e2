// Package memory implementa el record store en memoria.
//
// Cada tenant tiene su partición con su propio lock; el lock de la partición
// hace atómicas las operaciones compuestas (CreateOrder, ReplaceProducts).
// Todos los valores se copian al entrar y al salir.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/store"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (repository.Store, error) {
	return New(), nil
}

// Store es un repository.Store en memoria.
type Store struct {
	mu    sync.Mutex
	parts map[tenantctx.TenantID]*partition

	staffMu sync.RWMutex
	staff   map[string]repository.StaffUser
}

type partition struct {
	mu sync.RWMutex

	business *repository.Business

	products    map[int64]repository.Product
	nextProduct int64

	inventory     []repository.Inventory
	nextInventory int64

	orders    map[int64]repository.Order
	nextOrder int64
	nextItem  int64
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		parts: make(map[tenantctx.TenantID]*partition),
		staff: make(map[string]repository.StaffUser),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) part(tenant tenantctx.TenantID) *partition {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[tenant]
	if !ok {
		p = &partition{
			products: make(map[int64]repository.Product),
			orders:   make(map[int64]repository.Order),
		}
		s.parts[tenant] = p
	}
	return p
}

// ─── BusinessRepository ───

func (s *Store) FindBusiness(_ context.Context, tenant tenantctx.TenantID) (*repository.Business, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.business == nil {
		return nil, repository.ErrNotFound
	}
	b := *p.business
	return &b, nil
}

func (s *Store) SaveBusiness(_ context.Context, tenant tenantctx.TenantID, b repository.Business) (*repository.Business, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	b.ID = repository.DefaultBusinessID
	p.business = &b
	out := b
	return &out, nil
}

func (s *Store) FindTableCount(_ context.Context, tenant tenantctx.TenantID, businessID int64) (int, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.business == nil || p.business.ID != businessID {
		return 0, nil
	}
	return p.business.TableCount, nil
}

// ─── ProductRepository ───

func (s *Store) ListProducts(_ context.Context, tenant tenantctx.TenantID) ([]repository.Product, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]repository.Product, 0, len(p.products))
	for _, pr := range p.products {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindProduct(_ context.Context, tenant tenantctx.TenantID, id int64) (*repository.Product, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	pr, ok := p.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pr, nil
}

func (s *Store) SaveProduct(_ context.Context, tenant tenantctx.TenantID, pr repository.Product) (*repository.Product, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	saved, err := p.saveProductLocked(pr)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Store) SaveProducts(_ context.Context, tenant tenantctx.TenantID, ps []repository.Product) ([]repository.Product, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pr := range ps {
		if pr.ID != 0 {
			if _, ok := p.products[pr.ID]; !ok {
				return nil, repository.ErrNotFound
			}
		}
	}
	out := make([]repository.Product, 0, len(ps))
	for _, pr := range ps {
		saved, _ := p.saveProductLocked(pr)
		out = append(out, saved)
	}
	return out, nil
}

func (p *partition) saveProductLocked(pr repository.Product) (repository.Product, error) {
	if pr.ID == 0 {
		p.nextProduct++
		pr.ID = p.nextProduct
	} else if _, ok := p.products[pr.ID]; !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	p.products[pr.ID] = pr
	return pr, nil
}

func (s *Store) DeleteProduct(_ context.Context, tenant tenantctx.TenantID, id int64) (bool, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.products[id]; !ok {
		return false, nil
	}
	delete(p.products, id)
	return true, nil
}

func (s *Store) ReplaceProducts(_ context.Context, tenant tenantctx.TenantID, ps []repository.Product) ([]repository.Product, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products = make(map[int64]repository.Product, len(ps))
	out := make([]repository.Product, 0, len(ps))
	for _, pr := range ps {
		pr.ID = 0
		saved, _ := p.saveProductLocked(pr)
		out = append(out, saved)
	}
	return out, nil
}

// ─── InventoryRepository ───

func (s *Store) ListInventory(_ context.Context, tenant tenantctx.TenantID) ([]repository.Inventory, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]repository.Inventory{}, p.inventory...), nil
}

func (s *Store) SaveInventory(_ context.Context, tenant tenantctx.TenantID, items []repository.Inventory) ([]repository.Inventory, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]repository.Inventory, 0, len(items))
	for _, it := range items {
		p.nextInventory++
		it.ID = p.nextInventory
		p.inventory = append(p.inventory, it)
		out = append(out, it)
	}
	return out, nil
}

// ─── OrderRepository ───

func cloneOrder(o repository.Order) *repository.Order {
	o.Items = append([]repository.OrderItem(nil), o.Items...)
	return &o
}

func (s *Store) FindOrder(_ context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) ExistsOpenOrderForTable(_ context.Context, tenant tenantctx.TenantID, table int) (bool, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tableOccupiedLocked(table), nil
}

func (p *partition) tableOccupiedLocked(table int) bool {
	for _, o := range p.orders {
		if o.TableNumber == table && !o.Completed {
			return true
		}
	}
	return false
}

func (p *partition) assignItemIDsLocked(items []repository.OrderItem) []repository.OrderItem {
	out := make([]repository.OrderItem, len(items))
	for i, it := range items {
		if it.ID == 0 {
			p.nextItem++
			it.ID = p.nextItem
		}
		out[i] = it
	}
	return out
}

func (s *Store) CreateOrder(_ context.Context, tenant tenantctx.TenantID, o repository.Order) (*repository.Order, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tableOccupiedLocked(o.TableNumber) {
		return nil, repository.ErrConflict
	}
	p.nextOrder++
	o.ID = p.nextOrder
	o.Completed = false
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Items = p.assignItemIDsLocked(o.Items)
	p.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrder(_ context.Context, tenant tenantctx.TenantID, o repository.Order) (*repository.Order, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.orders[o.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !cur.Completed && o.TableNumber != cur.TableNumber && p.tableOccupiedLocked(o.TableNumber) {
		return nil, repository.ErrConflict
	}
	cur.TableNumber = o.TableNumber
	cur.Items = p.assignItemIDsLocked(o.Items)
	p.orders[o.ID] = cur
	return cloneOrder(cur), nil
}

func (s *Store) DeleteOrder(_ context.Context, tenant tenantctx.TenantID, id int64) (bool, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.orders[id]; !ok {
		return false, nil
	}
	delete(p.orders, id)
	return true, nil
}

func (s *Store) CompleteOrder(_ context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	p := s.part(tenant)
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Completed = true
	p.orders[id] = o
	return cloneOrder(o), nil
}

func (s *Store) FindOpenOrderTableNumbers(_ context.Context, tenant tenantctx.TenantID) (map[int]struct{}, error) {
	p := s.part(tenant)
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]struct{})
	for _, o := range p.orders {
		if !o.Completed {
			out[o.TableNumber] = struct{}{}
		}
	}
	return out, nil
}

// ─── StaffRepository ───

func (s *Store) FindStaffUser(_ context.Context, username string) (*repository.StaffUser, error) {
	s.staffMu.RLock()
	defer s.staffMu.RUnlock()
	u, ok := s.staff[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListStaffUsers(_ context.Context, tenant tenantctx.TenantID) ([]repository.StaffUser, error) {
	s.staffMu.RLock()
	defer s.staffMu.RUnlock()
	out := []repository.StaffUser{}
	for _, u := range s.staff {
		if tenantctx.Normalize(string(u.Tenant)) == tenantctx.Normalize(string(tenant)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) CreateStaffUser(_ context.Context, u repository.StaffUser) error {
	if u.Username == "" {
		return repository.ErrInvalidInput
	}
	s.staffMu.Lock()
	defer s.staffMu.Unlock()
	if _, ok := s.staff[u.Username]; ok {
		return repository.ErrConflict
	}
	s.staff[u.Username] = u
	return nil
}

func (s *Store) DeleteStaffUser(_ context.Context, username string) (bool, error) {
	s.staffMu.Lock()
	defer s.staffMu.Unlock()
	if _, ok := s.staff[username]; !ok {
		return false, nil
	}
	delete(s.staff, username)
	return true, nil
}

func (s *Store) SaveStaffUser(_ context.Context, u repository.StaffUser) error {
	if u.Username == "" {
		return repository.ErrInvalidInput
	}
	s.staffMu.Lock()
	defer s.staffMu.Unlock()
	if cur, ok := s.staff[u.Username]; ok && u.TokenGeneration < cur.TokenGeneration {
		u.TokenGeneration = cur.TokenGeneration
	}
	s.staff[u.Username] = u
	return nil
}

func (s *Store) BumpTokenGeneration(_ context.Context, username string) (int64, error) {
	s.staffMu.Lock()
	defer s.staffMu.Unlock()
	u, ok := s.staff[username]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.TokenGeneration++
	s.staff[username] = u
	return u.TokenGeneration, nil
}
