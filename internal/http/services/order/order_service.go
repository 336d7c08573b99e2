// Package order contiene el service de órdenes. Cada escritura mantiene
// coherentes el cache de la orden, el estado de mesas y la cola de comandas.
//
// Las escrituras sobre una mesa se serializan dentro del proceso: la
// escritura en el store y el push a la cola de comandas ocurren bajo el mismo
// lock, así la cola nunca queda con un estado anterior al del store.
package order

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/order"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/kot"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tablestatus"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// OrderService define las operaciones sobre órdenes.
type OrderService interface {
	Create(ctx context.Context, tenant tenantctx.TenantID, req dto.OrderRequest) (*repository.Order, error)
	Get(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error)
	Update(ctx context.Context, tenant tenantctx.TenantID, id int64, req dto.OrderRequest) (*repository.Order, error)
	Delete(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error)
	Complete(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error)
}

// Store es lo que el service necesita del record store.
type Store interface {
	repository.OrderRepository
	FindProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Product, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store  Store
	Cache  *tenantcache.Coordinator
	Tables *tablestatus.Aggregator
	Kot    *kot.Distributor
}

type orderService struct {
	deps  Deps
	locks *tableLocks
}

// NewOrderService crea el service.
func NewOrderService(deps Deps) OrderService {
	return &orderService{deps: deps, locks: newTableLocks()}
}

const componentOrder = "order"

func orderKey(id int64) string { return strconv.FormatInt(id, 10) }

func (s *orderService) log(ctx context.Context, op string, tenant tenantctx.TenantID) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentOrder),
		logger.Op(op),
		logger.Tenant(tenant.String()),
	)
}

// lockOrder lee la orden y toma el lock de su mesa (y de las mesas extra).
// Si la orden cambió de mesa entre la lectura y el lock, reintenta. La orden
// retornada es la leída bajo el lock.
func (s *orderService) lockOrder(ctx context.Context, tenant tenantctx.TenantID, id int64, extra ...int) (*repository.Order, func(), error) {
	for {
		o, err := s.deps.Store.FindOrder(ctx, tenant, id)
		if err != nil {
			return nil, nil, err
		}
		unlock := s.locks.lock(tenant, append([]int{o.TableNumber}, extra...)...)
		cur, err := s.deps.Store.FindOrder(ctx, tenant, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if cur.TableNumber == o.TableNumber {
			return cur, unlock, nil
		}
		unlock()
	}
}

func (s *orderService) resolveItem(ctx context.Context, tenant tenantctx.TenantID, it dto.OrderItemRequest) (repository.OrderItem, error) {
	p, err := s.deps.Store.FindProduct(ctx, tenant, it.ProductID)
	if err != nil {
		return repository.OrderItem{}, fmt.Errorf("product %d: %w", it.ProductID, err)
	}
	return repository.OrderItem{
		ProductID: p.ID,
		ItemName:  p.Name,
		Price:     p.Price,
		Quantity:  it.Quantity,
	}, nil
}

// Create rechaza mesas ocupadas y productos inexistentes antes de persistir
// nada. El alta es atómica contra otra alta concurrente para la misma mesa.
func (s *orderService) Create(ctx context.Context, tenant tenantctx.TenantID, req dto.OrderRequest) (*repository.Order, error) {
	log := s.log(ctx, "Create", tenant).With(logger.Table(req.TableNumber))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(tenant, req.TableNumber)
	defer unlock()

	busy, err := s.deps.Store.ExistsOpenOrderForTable(ctx, tenant, req.TableNumber)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, fmt.Errorf("table %d is already occupied: %w", req.TableNumber, repository.ErrConflict)
	}

	items := make([]repository.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		item, err := s.resolveItem(ctx, tenant, it)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	saved, err := s.deps.Store.CreateOrder(ctx, tenant, repository.Order{
		TableNumber: req.TableNumber,
		Items:       items,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, fmt.Errorf("table %d is already occupied: %w", req.TableNumber, repository.ErrConflict)
		}
		log.Error("create order failed", logger.Err(err))
		return nil, err
	}

	s.deps.Tables.Invalidate(ctx, tenant)
	s.deps.Kot.AddOrder(ctx, tenant, *saved)
	log.Info("order created", logger.OrderID(saved.ID), logger.Count(len(saved.Items)))
	return saved, nil
}

func (s *orderService) Get(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	o, err := tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.Order, tenant, orderKey(id),
		func(ctx context.Context) (*repository.Order, error) {
			return s.deps.Store.FindOrder(ctx, tenant, id)
		})
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	return o, nil
}

// Update fusiona las líneas: mismo producto suma cantidades, producto nuevo
// agrega una línea. La mesa del request reemplaza a la actual.
func (s *orderService) Update(ctx context.Context, tenant tenantctx.TenantID, id int64, req dto.OrderRequest) (*repository.Order, error) {
	log := s.log(ctx, "Update", tenant).With(logger.OrderID(id))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, unlock, err := s.lockOrder(ctx, tenant, id, req.TableNumber)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	defer unlock()
	prevTable := existing.TableNumber

	merged := existing.Items
	for _, it := range req.Items {
		idx := -1
		for i := range merged {
			if merged[i].ProductID == it.ProductID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged[idx].Quantity += it.Quantity
			continue
		}
		item, err := s.resolveItem(ctx, tenant, it)
		if err != nil {
			return nil, err
		}
		merged = append(merged, item)
	}
	existing.TableNumber = req.TableNumber
	existing.Items = merged

	saved, err := s.deps.Store.UpdateOrder(ctx, tenant, *existing)
	if err != nil {
		if repository.IsConflict(err) {
			return nil, fmt.Errorf("table %d is already occupied: %w", req.TableNumber, repository.ErrConflict)
		}
		return nil, err
	}

	s.deps.Cache.Put(ctx, tenantcache.Order, tenant, orderKey(id), saved)
	s.deps.Tables.Invalidate(ctx, tenant)
	if !saved.Completed {
		if prevTable != saved.TableNumber {
			s.deps.Kot.RemoveByTable(ctx, tenant, prevTable)
		}
		s.deps.Kot.AddOrder(ctx, tenant, *saved)
	}
	log.Info("order updated", logger.Table(saved.TableNumber), logger.Count(len(saved.Items)))
	return saved, nil
}

// Delete retorna false, sin error, si la orden no existe.
func (s *orderService) Delete(ctx context.Context, tenant tenantctx.TenantID, id int64) (bool, error) {
	existing, unlock, err := s.lockOrder(ctx, tenant, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	defer unlock()

	ok, err := s.deps.Store.DeleteOrder(ctx, tenant, id)
	if err != nil || !ok {
		return ok, err
	}

	s.deps.Cache.Evict(ctx, tenantcache.Order, tenant, orderKey(id))
	s.deps.Tables.Invalidate(ctx, tenant)
	// Las comandas pendientes de la mesa son de esta orden sólo si seguía abierta.
	if !existing.Completed {
		s.deps.Kot.RemoveByTable(ctx, tenant, existing.TableNumber)
	}
	s.log(ctx, "Delete", tenant).Info("order deleted", logger.OrderID(id))
	return true, nil
}

// Complete cierra la orden (libera la mesa) y marca sus comandas como listas.
func (s *orderService) Complete(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Order, error) {
	_, unlock, err := s.lockOrder(ctx, tenant, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	defer unlock()

	saved, err := s.deps.Store.CompleteOrder(ctx, tenant, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	s.deps.Cache.Evict(ctx, tenantcache.Order, tenant, orderKey(id))
	s.deps.Tables.Invalidate(ctx, tenant)
	s.deps.Kot.MarkCompletedByOrder(ctx, tenant, id)
	s.log(ctx, "Complete", tenant).Info("order completed", logger.OrderID(id), logger.Table(saved.TableNumber))
	return saved, nil
}
