package authgate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/comanda/internal/domain/repository"
	"github.com/dropDatabas3/comanda/internal/store/adapters/memory"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setup(t *testing.T) (*Gate, *memory.Store) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.SaveStaffUser(ctx, repository.StaffUser{Username: "ana", Role: repository.RoleAdmin, Tenant: "cafe"}))
	require.NoError(t, st.SaveStaffUser(ctx, repository.StaffUser{Username: "root", Role: repository.RoleAdmin}))

	codec, err := NewCodec(testSecret, "comanda", time.Hour)
	require.NoError(t, err)
	return New(codec, st, nil), st
}

func issue(t *testing.T, g *Gate, st *memory.Store, username string) string {
	t.Helper()
	u, err := st.FindStaffUser(context.Background(), username)
	require.NoError(t, err)
	tok, _, err := g.Codec().Issue(*u)
	require.NoError(t, err)
	return tok
}

func TestAuthenticate_ValidTenantToken(t *testing.T) {
	g, st := setup(t)
	tok := issue(t, g, st, "ana")

	p, err := g.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Username)
	assert.Equal(t, tenantctx.TenantID("cafe"), p.Tenant)
	assert.WithinDuration(t, time.Now().Add(time.Hour), p.ExpiresAt, 5*time.Second)
}

func TestAuthenticate_AbsentTenantClaimIsMaster(t *testing.T) {
	g, st := setup(t)
	tok := issue(t, g, st, "root")

	p, err := g.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, tenantctx.Master, p.Tenant)
}

func TestAuthenticate_Rejections(t *testing.T) {
	g, st := setup(t)
	ctx := context.Background()
	valid := issue(t, g, st, "ana")

	otherCodec, _ := NewCodec("another-secret-of-32-bytes-000000", "comanda", time.Hour)
	forged, _, _ := otherCodec.Issue(repository.StaffUser{Username: "ana", Role: repository.RoleAdmin, Tenant: "cafe"})

	expiredCodec, _ := NewCodec(testSecret, "comanda", time.Hour)
	expiredCodec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredCodec.Issue(repository.StaffUser{Username: "ana", Role: repository.RoleAdmin, Tenant: "cafe"})

	ghost, _, _ := g.Codec().Issue(repository.StaffUser{Username: "ghost", Role: repository.RoleStaff, Tenant: "cafe"})
	wrongTenant, _, _ := g.Codec().Issue(repository.StaffUser{Username: "ana", Role: repository.RoleAdmin, Tenant: "diner"})

	cases := map[string]string{
		"missing":      "",
		"no scheme":    valid,
		"basic":        "Basic " + valid,
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not-a-jwt",
		"bad sig":      "Bearer " + forged,
		"expired":      "Bearer " + expired,
		"unknown user": "Bearer " + ghost,
		"wrong tenant": "Bearer " + wrongTenant,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := g.Authenticate(ctx, header)
			require.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	g, _ := setup(t)
	claims := Claims{
		Role: repository.RoleAdmin, Tenant: "cafe",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject: "ana", Issuer: "comanda",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), "Bearer "+tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_StaleGeneration(t *testing.T) {
	g, st := setup(t)
	ctx := context.Background()
	old := issue(t, g, st, "ana")

	_, err := st.BumpTokenGeneration(ctx, "ana")
	require.NoError(t, err)

	_, err = g.Authenticate(ctx, "Bearer "+old)
	require.ErrorIs(t, err, ErrUnauthorized)

	fresh := issue(t, g, st, "ana")
	_, err = g.Authenticate(ctx, "Bearer "+fresh)
	require.NoError(t, err)
}

func TestAuthenticate_Blacklisted(t *testing.T) {
	g, st := setup(t)
	ctx := context.Background()
	tok := issue(t, g, st, "ana")

	p, err := g.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	require.NoError(t, g.Revoke(ctx, p))

	_, err = g.Authenticate(ctx, "Bearer "+tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

type downBlacklist struct{}

func (downBlacklist) Add(context.Context, string, time.Time) error { return errors.New("down") }
func (downBlacklist) Contains(context.Context, string) (bool, error) {
	return false, errors.New("down")
}

func TestAuthenticate_BlacklistUnavailableFailsClosed(t *testing.T) {
	g, st := setup(t)
	tok := issue(t, g, st, "ana")
	g.blacklist = downBlacklist{}

	_, err := g.Authenticate(context.Background(), "Bearer "+tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestMiddleware_BindsTenantForRequest(t *testing.T) {
	g, st := setup(t)
	tok := issue(t, g, st, "ana")

	var seen tenantctx.TenantID
	var principal Principal
	h := Middleware(g, func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = tenantctx.MustCurrent(r.Context())
		principal, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/business", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, tenantctx.TenantID("cafe"), seen)
	assert.Equal(t, "ana", principal.Username)

	// El request original nunca quedó ligado.
	_, err := tenantctx.Current(req.Context())
	assert.ErrorIs(t, err, tenantctx.ErrNoTenant)
}

func TestMiddleware_RejectsWithoutCallingHandler(t *testing.T) {
	g, _ := setup(t)
	called := false
	h := Middleware(g, func(w http.ResponseWriter, r *http.Request, err error) {
		assert.ErrorIs(t, err, ErrUnauthorized)
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/business", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestMemoryBlacklist_ExpiresWithToken(t *testing.T) {
	bl := NewMemoryBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "a", time.Now().Add(-time.Second)))
	ok, _ := bl.Contains(ctx, "a")
	assert.False(t, ok, "tokens ya expirados no se guardan")

	require.NoError(t, bl.Add(ctx, "b", time.Now().Add(time.Minute)))
	ok, _ = bl.Contains(ctx, "b")
	assert.True(t, ok)
}
