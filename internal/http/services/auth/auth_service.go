// Package auth contiene los services de login, logout y administración de staff.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/comanda/internal/audit"
	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/auth"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/security/password"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// ErrInvalidCredentials usuario inexistente o password incorrecta.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService define login y logout del staff.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, p authgate.Principal) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Staff repository.StaffRepository
	Gate  *authgate.Gate
}

type authService struct {
	deps Deps
}

// NewAuthService crea el service.
func NewAuthService(deps Deps) AuthService {
	return &authService{deps: deps}
}

// Hash usado cuando el usuario no existe, para que el tiempo de respuesta no
// revele qué usernames son válidos.
var dummyHash, _ = password.Hash("comanda-dummy-password")

// Login verifica la password y emite un token nuevo. Cada login sube la
// generación del usuario, por lo que los tokens anteriores dejan de valer.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.User(req.Username),
	)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return dto.LoginResponse{}, fmt.Errorf("%w: username and password are required", repository.ErrInvalidInput)
	}

	u, err := s.deps.Staff.FindStaffUser(ctx, username)
	if err != nil {
		if !repository.IsNotFound(err) {
			return dto.LoginResponse{}, err
		}
		_ = password.Verify(req.Password, dummyHash)
		log.Debug("login rejected: unknown user")
		audit.Log(ctx, audit.EventLoginFailed, logger.User(username))
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		log.Debug("login rejected: bad password")
		audit.Log(ctx, audit.EventLoginFailed, logger.User(username))
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if password.NeedsRehash(u.PasswordHash) {
		s.upgradeHash(ctx, *u, req.Password)
	}

	gen, err := s.deps.Staff.BumpTokenGeneration(ctx, u.Username)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	u.TokenGeneration = gen

	token, exp, err := s.deps.Gate.Codec().Issue(*u)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	tenant := tenantctx.Normalize(string(u.Tenant))
	audit.Log(ctx, audit.EventLogin, logger.User(u.Username), logger.Tenant(tenant.String()))

	resp := dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		Role:        u.Role,
	}
	if tenant != tenantctx.Master {
		resp.Tenant = tenant.String()
	}
	return resp, nil
}

// upgradeHash migra hashes bcrypt heredados a argon2id. Un fallo no impide el login.
func (s *authService) upgradeHash(ctx context.Context, u repository.StaffUser, plain string) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.User(u.Username))
	h, err := password.Hash(plain)
	if err == nil {
		u.PasswordHash = h
		err = s.deps.Staff.SaveStaffUser(ctx, u)
	}
	if err != nil {
		log.Warn("password rehash failed", logger.Err(err))
		return
	}
	log.Info("password rehashed to argon2id")
}

// Logout invalida todos los tokens del usuario y pone el actual en la blacklist
// hasta que expire.
func (s *authService) Logout(ctx context.Context, p authgate.Principal) error {
	if _, err := s.deps.Staff.BumpTokenGeneration(ctx, p.Username); err != nil {
		return err
	}
	if err := s.deps.Gate.Revoke(ctx, p); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	audit.Log(ctx, audit.EventLogout, logger.User(p.Username), logger.Tenant(p.Tenant.String()))
	return nil
}
