// Package catalog contiene los services de productos e inventario.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/catalog"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// ProductService define las operaciones sobre el catálogo del tenant.
type ProductService interface {
	Create(ctx context.Context, tenant tenantctx.TenantID, req dto.ProductRequest) (*repository.Product, error)
	CreateBulk(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.ProductRequest) ([]repository.Product, error)
	List(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Product, error)
	Get(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Product, error)
	Update(ctx context.Context, tenant tenantctx.TenantID, id int64, req dto.ProductRequest) (*repository.Product, error)
	Delete(ctx context.Context, tenant tenantctx.TenantID, id int64) error
	Replace(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.ProductRequest) ([]repository.Product, error)
}

// ProductDeps contiene las dependencias del service de productos.
type ProductDeps struct {
	Store repository.ProductRepository
	Cache *tenantcache.Coordinator
}

type productService struct {
	deps ProductDeps
}

// NewProductService crea el service.
func NewProductService(deps ProductDeps) ProductService {
	return &productService{deps: deps}
}

const listKey = "all"

func productKey(id int64) string { return strconv.FormatInt(id, 10) }

func toProducts(reqs []dto.ProductRequest) ([]repository.Product, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty product list", repository.ErrInvalidInput)
	}
	out := make([]repository.Product, len(reqs))
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out[i] = r.ToProduct()
	}
	return out, nil
}

func (s *productService) Create(ctx context.Context, tenant tenantctx.TenantID, req dto.ProductRequest) (*repository.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.deps.Store.SaveProduct(ctx, tenant, req.ToProduct())
	if err != nil {
		return nil, err
	}
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Products)
	return p, nil
}

func (s *productService) CreateBulk(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.ProductRequest) ([]repository.Product, error) {
	ps, err := toProducts(reqs)
	if err != nil {
		return nil, err
	}
	saved, err := s.deps.Store.SaveProducts(ctx, tenant, ps)
	if err != nil {
		return nil, err
	}
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Products)
	return saved, nil
}

func (s *productService) List(ctx context.Context, tenant tenantctx.TenantID) ([]repository.Product, error) {
	ps, err := tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.Products, tenant, listKey,
		func(ctx context.Context) ([]repository.Product, error) {
			return s.deps.Store.ListProducts(ctx, tenant)
		})
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []repository.Product{}
	}
	return ps, nil
}

func (s *productService) Get(ctx context.Context, tenant tenantctx.TenantID, id int64) (*repository.Product, error) {
	p, err := tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.Product, tenant, productKey(id),
		func(ctx context.Context) (*repository.Product, error) {
			return s.deps.Store.FindProduct(ctx, tenant, id)
		})
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, tenant tenantctx.TenantID, id int64, req dto.ProductRequest) (*repository.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.deps.Store.FindProduct(ctx, tenant, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	existing.Name = req.ToProduct().Name
	existing.Description = req.Description
	existing.Price = req.Price

	saved, err := s.deps.Store.SaveProduct(ctx, tenant, *existing)
	if err != nil {
		return nil, err
	}
	s.evictProduct(ctx, tenant, id)
	return saved, nil
}

func (s *productService) Delete(ctx context.Context, tenant tenantctx.TenantID, id int64) error {
	ok, err := s.deps.Store.DeleteProduct(ctx, tenant, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	s.evictProduct(ctx, tenant, id)
	return nil
}

// Replace reemplaza el catálogo completo con la lista ya parseada por la
// ingesta externa. Los IDs se reasignan.
func (s *productService) Replace(ctx context.Context, tenant tenantctx.TenantID, reqs []dto.ProductRequest) ([]repository.Product, error) {
	ps, err := toProducts(reqs)
	if err != nil {
		return nil, err
	}
	saved, err := s.deps.Store.ReplaceProducts(ctx, tenant, ps)
	if err != nil {
		return nil, err
	}
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Products, tenantcache.Product)
	logger.From(ctx).Info("catalog replaced",
		logger.Layer("service"), logger.Tenant(tenant.String()), logger.Count(len(saved)))
	return saved, nil
}

func (s *productService) evictProduct(ctx context.Context, tenant tenantctx.TenantID, id int64) {
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Products)
	s.deps.Cache.Evict(ctx, tenantcache.Product, tenant, productKey(id))
}
