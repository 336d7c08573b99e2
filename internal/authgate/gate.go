// Package authgate resuelve la credencial de un request en un Principal y
// liga el tenant al contexto del request.
//
// Orden de validación: formato Bearer, blacklist, firma y expiración, y por
// último frescura contra el registro del usuario en la partición master (el
// usuario debe existir y su generación de token debe coincidir). Cualquier
// falla es ErrUnauthorized y no liga ningún tenant.
package authgate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/observability/logger"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// ErrUnauthorized es la única falla que AuthGate expone.
var ErrUnauthorized = errors.New("unauthorized")

// StaffLookup es lo que el gate necesita del record store.
type StaffLookup interface {
	FindStaffUser(ctx context.Context, username string) (*repository.StaffUser, error)
}

// Principal es el staff autenticado.
type Principal struct {
	Username  string
	Role      string
	Tenant    tenantctx.TenantID
	ExpiresAt time.Time
	Token     string
}

// Gate es seguro para uso concurrente.
type Gate struct {
	codec     *Codec
	staff     StaffLookup
	blacklist Blacklist
}

// New crea un Gate. Sin blacklist usa una en memoria.
func New(codec *Codec, staff StaffLookup, blacklist Blacklist) *Gate {
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &Gate{codec: codec, staff: staff, blacklist: blacklist}
}

// Codec retorna el codec de tokens del gate.
func (g *Gate) Codec() *Codec { return g.codec }

// Blacklist retorna la blacklist del gate.
func (g *Gate) Blacklist() Blacklist { return g.blacklist }

// BearerToken extrae el token de un header Authorization.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: missing bearer credential", ErrUnauthorized)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer credential", ErrUnauthorized)
	}
	return token, nil
}

// Authenticate valida el header Authorization y retorna el Principal.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (Principal, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return Principal{}, err
	}

	revoked, err := g.blacklist.Contains(ctx, token)
	if err != nil {
		// Sin poder consultar la blacklist no se acepta la credencial.
		logger.From(ctx).Warn("blacklist unavailable", logger.Err(err))
		return Principal{}, fmt.Errorf("%w: revocation check failed", ErrUnauthorized)
	}
	if revoked {
		return Principal{}, fmt.Errorf("%w: credential revoked", ErrUnauthorized)
	}

	claims, err := g.codec.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	user, err := g.staff.FindStaffUser(ctx, claims.Subject)
	if err != nil {
		if !repository.IsNotFound(err) {
			logger.From(ctx).Error("staff lookup failed", logger.User(claims.Subject), logger.Err(err))
		}
		return Principal{}, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
	}
	if user.TokenGeneration != claims.Gen {
		return Principal{}, fmt.Errorf("%w: stale credential", ErrUnauthorized)
	}

	tenant := tenantctx.Normalize(claims.Tenant)
	if tenant != tenantctx.Normalize(string(user.Tenant)) {
		return Principal{}, fmt.Errorf("%w: tenant mismatch", ErrUnauthorized)
	}

	p := Principal{
		Username: user.Username,
		Role:     user.Role,
		Tenant:   tenant,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Revoke agrega el token a la blacklist hasta su expiración.
func (g *Gate) Revoke(ctx context.Context, p Principal) error {
	return g.blacklist.Add(ctx, p.Token, p.ExpiresAt)
}
