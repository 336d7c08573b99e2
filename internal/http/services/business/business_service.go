// Package business contiene el service del negocio del tenant.
package business

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/business"
	"github.com/dropDatabas3/comanda/internal/infra/tenantcache"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
	"github.com/dropDatabas3/comanda/internal/util"
)

// BusinessService define las operaciones sobre el negocio (fila única por tenant).
type BusinessService interface {
	Get(ctx context.Context, tenant tenantctx.TenantID) (*repository.Business, error)
	SaveOrUpdate(ctx context.Context, tenant tenantctx.TenantID, req dto.BusinessRequest) (*repository.Business, error)
	UpdateLogo(ctx context.Context, tenant tenantctx.TenantID, logoURL string) (*repository.Business, error)
	TableCount(ctx context.Context, tenant tenantctx.TenantID) (int, error)
	Dashboard(ctx context.Context, tenant tenantctx.TenantID, username, role string) (dto.DashboardResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Store repository.BusinessRepository
	Cache *tenantcache.Coordinator
}

type businessService struct {
	deps Deps
}

// NewBusinessService crea el service.
func NewBusinessService(deps Deps) BusinessService {
	return &businessService{deps: deps}
}

const componentBusiness = "business"

var businessKey = strconv.FormatInt(repository.DefaultBusinessID, 10)

func (s *businessService) Get(ctx context.Context, tenant tenantctx.TenantID) (*repository.Business, error) {
	b, err := tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.Business, tenant, businessKey,
		func(ctx context.Context) (*repository.Business, error) {
			return s.deps.Store.FindBusiness(ctx, tenant)
		})
	if err != nil {
		return nil, fmt.Errorf("business: %w", err)
	}
	return b, nil
}

// SaveOrUpdate reemplaza todos los campos del negocio (o lo crea). Invalida
// business, tableCount y el estado de mesas del tenant.
func (s *businessService) SaveOrUpdate(ctx context.Context, tenant tenantctx.TenantID, req dto.BusinessRequest) (*repository.Business, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentBusiness),
		logger.Op("SaveOrUpdate"),
	)
	if req.TableCount < 0 {
		return nil, fmt.Errorf("%w: tableCount must not be negative", repository.ErrInvalidInput)
	}

	saved, err := s.deps.Store.SaveBusiness(ctx, tenant, req.ToBusiness())
	if err != nil {
		log.Error("save business failed", logger.Err(err))
		return nil, err
	}
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Business, tenantcache.TableCount, tenantcache.TableStatus)
	log.Info("business saved", logger.Count(saved.TableCount), logger.String("email", util.MaskEmail(saved.Email)))
	return saved, nil
}

func (s *businessService) UpdateLogo(ctx context.Context, tenant tenantctx.TenantID, logoURL string) (*repository.Business, error) {
	if logoURL == "" {
		return nil, fmt.Errorf("%w: logoUrl is required", repository.ErrInvalidInput)
	}
	b, err := s.deps.Store.FindBusiness(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("business: %w", err)
	}
	b.LogoURL = logoURL
	saved, err := s.deps.Store.SaveBusiness(ctx, tenant, *b)
	if err != nil {
		return nil, err
	}
	s.deps.Cache.EvictAll(ctx, tenant, tenantcache.Business)
	return saved, nil
}

// TableCount retorna 0 si el negocio no existe.
func (s *businessService) TableCount(ctx context.Context, tenant tenantctx.TenantID) (int, error) {
	return tenantcache.ReadThrough(ctx, s.deps.Cache, tenantcache.TableCount, tenant, businessKey,
		func(ctx context.Context) (int, error) {
			return s.deps.Store.FindTableCount(ctx, tenant, repository.DefaultBusinessID)
		})
}

// Dashboard no falla si el negocio todavía no fue cargado.
func (s *businessService) Dashboard(ctx context.Context, tenant tenantctx.TenantID, username, role string) (dto.DashboardResponse, error) {
	out := dto.DashboardResponse{Username: username, Role: role}
	b, err := s.Get(ctx, tenant)
	switch {
	case err == nil:
		out.BusinessName = b.Name
		out.LogoURL = b.LogoURL
	case repository.IsNotFound(err):
	default:
		return dto.DashboardResponse{}, err
	}
	return out, nil
}
