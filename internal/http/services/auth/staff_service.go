package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/comanda/internal/audit"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/auth"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/security/password"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

var validRoles = map[string]struct{}{
	repository.RoleAdmin:   {},
	repository.RoleStaff:   {},
	repository.RoleWaiter:  {},
	repository.RoleKitchen: {},
}

// StaffService administra los usuarios del staff de un tenant. Los registros
// viven en la partición master; toda operación se limita al tenant que actúa.
type StaffService interface {
	Create(ctx context.Context, tenant tenantctx.TenantID, req dto.StaffRequest) (dto.StaffResponse, error)
	List(ctx context.Context, tenant tenantctx.TenantID) ([]dto.StaffResponse, error)
	Get(ctx context.Context, tenant tenantctx.TenantID, username string) (dto.StaffResponse, error)
	Delete(ctx context.Context, tenant tenantctx.TenantID, username string) (bool, error)
}

type staffService struct {
	staff repository.StaffRepository
}

// NewStaffService crea el service.
func NewStaffService(staff repository.StaffRepository) StaffService {
	return &staffService{staff: staff}
}

// Create falla con ErrConflict si el username ya existe en cualquier tenant.
// El insert es atómico: nunca pisa un usuario existente.
func (s *staffService) Create(ctx context.Context, tenant tenantctx.TenantID, req dto.StaffRequest) (dto.StaffResponse, error) {
	u, err := NewStaffUser(tenant, req)
	if err != nil {
		return dto.StaffResponse{}, err
	}

	if err := s.staff.CreateStaffUser(ctx, u); err != nil {
		if repository.IsConflict(err) {
			return dto.StaffResponse{}, fmt.Errorf("user %q: %w", u.Username, repository.ErrConflict)
		}
		return dto.StaffResponse{}, err
	}
	audit.Log(ctx, audit.EventStaffCreated, logger.User(u.Username), logger.Tenant(u.Tenant.String()), logger.String("role", u.Role))
	return toStaffResponse(u), nil
}

func (s *staffService) List(ctx context.Context, tenant tenantctx.TenantID) ([]dto.StaffResponse, error) {
	users, err := s.staff.ListStaffUsers(ctx, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StaffResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toStaffResponse(u))
	}
	return out, nil
}

// Get retorna ErrNotFound también si el usuario es de otro tenant.
func (s *staffService) Get(ctx context.Context, tenant tenantctx.TenantID, username string) (dto.StaffResponse, error) {
	u, err := s.find(ctx, tenant, username)
	if err != nil {
		return dto.StaffResponse{}, err
	}
	return toStaffResponse(*u), nil
}

// Delete borra el registro de credenciales. Antes incrementa la generación
// para que los tokens vivos del usuario dejen de valer. Retorna false si el
// usuario no existe en el tenant.
func (s *staffService) Delete(ctx context.Context, tenant tenantctx.TenantID, username string) (bool, error) {
	u, err := s.find(ctx, tenant, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.staff.BumpTokenGeneration(ctx, u.Username); err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	deleted, err := s.staff.DeleteStaffUser(ctx, u.Username)
	if err != nil || !deleted {
		return deleted, err
	}
	audit.Log(ctx, audit.EventStaffDeleted, logger.User(u.Username), logger.Tenant(u.Tenant.String()))
	return true, nil
}

func (s *staffService) find(ctx context.Context, tenant tenantctx.TenantID, username string) (*repository.StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", repository.ErrInvalidInput)
	}
	u, err := s.staff.FindStaffUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if tenantctx.Normalize(string(u.Tenant)) != tenantctx.Normalize(string(tenant)) {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func toStaffResponse(u repository.StaffUser) dto.StaffResponse {
	return dto.StaffResponse{Username: u.Username, Role: u.Role, Tenant: tenantctx.Normalize(string(u.Tenant)).String()}
}

// NewStaffUser valida el request contra password.Staff y hashea con argon2id.
func NewStaffUser(tenant tenantctx.TenantID, req dto.StaffRequest) (repository.StaffUser, error) {
	username := strings.TrimSpace(req.Username)
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if username == "" {
		return repository.StaffUser{}, fmt.Errorf("%w: username is required", repository.ErrInvalidInput)
	}
	if reasons := password.Staff.Validate(req.Password); len(reasons) > 0 {
		return repository.StaffUser{}, fmt.Errorf("%w: weak password (%s)", repository.ErrInvalidInput, strings.Join(reasons, ", "))
	}
	if _, ok := validRoles[role]; !ok {
		return repository.StaffUser{}, fmt.Errorf("%w: unknown role %q", repository.ErrInvalidInput, req.Role)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return repository.StaffUser{}, fmt.Errorf("hash password: %w", err)
	}
	// Generación inicial única por alta: un usuario borrado y recreado con el
	// mismo username no revive los tokens del anterior.
	return repository.StaffUser{
		Username:        username,
		PasswordHash:    hash,
		Role:            role,
		Tenant:          tenantctx.Normalize(string(tenant)),
		TokenGeneration: time.Now().UnixMicro(),
	}, nil
}
