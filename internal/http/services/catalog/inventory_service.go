package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/catalog"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// InventoryService define las operaciones sobre el stock del tenant.
type InventoryService interface {
	Create(ctx context.Context, tenant tenantctx.TenantID, req dto.InventoryRequest) (*repository.Inventory, error)
	CreateBulk(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.InventoryRequest) ([]repository.Inventory, error)
	List(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Inventory, error)
	ClearCache(ctx context.Context, tenant tenantctx.TenantID)
}

// InventoryDeps contiene las dependencias del service de inventario.
type InventoryDeps struct {
	Store repository.InventoryRepository
	Cache *tenantcache.Coordinator
	// Now es el reloj que sella fecha y hora; nil usa time.Now.
	Now func() time.Time
}

type inventoryService struct {
	deps InventoryDeps
}

// NewInventoryService crea el service.
func NewInventoryService(deps InventoryDeps) InventoryService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &inventoryService{deps: deps}
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "03:04 PM"
)

func (s *inventoryService) stamp(reqs []dto.InventoryRequest) ([]repository.Inventory, error) {
	now := s.deps.Now()
	out := make([]repository.Inventory, len(reqs))
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("inventory %d: %w", i, err)
		}
		out[i] = repository.Inventory{
			ItemName: strings.TrimSpace(r.ItemName),
			Quantity: r.Quantity,
			Unit:     r.Unit,
			Price:    r.Price,
			Date:     now.Format(dateLayout),
			Time:     now.Format(timeLayout),
		}
	}
	return out, nil
}

func (s *inventoryService) Create(ctx context.Context, tenant tenantctx.TenantID, req dto.InventoryRequest) (*repository.Inventory, error) {
	saved, err := s.CreateBulk(ctx, tenant, []dto.InventoryRequest{req})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

func (s *inventoryService) CreateBulk(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.InventoryRequest) ([]repository.Inventory, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty inventory list", repository.ErrInvalidInput)
	}
	items, err := s.stamp(reqs)
	if err != nil {
		return nil, err
	}
	saved, err := s.deps.Store.SaveInventory(ctx, tenant, items)
	if err != nil {
		return nil, err
	}
	s.ClearCache(ctx, tenant)
	return saved, nil
}

func (s *inventoryService) List(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Inventory, error) {
	items, err := tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.Inventory, tenant, listKey,
		func(ctx context.Context) ([]repository.Inventory, error) {
			return s.deps.Store.ListInventory(ctx, tenant)
		})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []repository.Inventory{}
	}
	return items, nil
}

// ClearCache descarta el inventario cacheado del tenant.
func (s *inventoryService) ClearCache(ctx context.Context, tenant tenantctx.TenantID) {
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Inventory)
}
