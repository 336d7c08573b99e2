package authgate

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

// Claims son los claims del access token de staff.
type Claims struct {
	Role   string `json:"role"`
	Tenant string `json:"tenant,omitempty"` // vacío = master
	Gen    int64  `json:"gen"`
	jwtv5.RegisteredClaims
}

// Codec firma y valida tokens HS256.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec crea un Codec. ttl <= 0 usa 12 horas.
func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if len(secret) < 16 {
		return nil, errors.New("authgate: jwt secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL retorna la vida de los tokens emitidos.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue firma un token para el usuario con su generación actual.
func (c *Codec) Issue(u repository.StaffUser) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	claims := Claims{
		Role: u.Role,
		Gen:  u.TokenGeneration,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   u.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	if u.Tenant != "" && u.Tenant != tenantctx.Master {
		claims.Tenant = string(u.Tenant)
	}
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("authgate: sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma, algoritmo, issuer y expiración.
func (c *Codec) Parse(raw string) (*Claims, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(c.issuer))
	}

	var claims Claims
	tok, err := jwtv5.ParseWithClaims(raw, &claims, func(*jwtv5.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token without subject", ErrUnauthorized)
	}
	return &claims, nil
}
