package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/comanda/internal/authgate"
	"github.com/dropDatabas3/comanda/internal/domain/repository"
	dto "github.com/dropDatabas3/comanda/internal/http/dto/auth"
	"github.com/dropDatabas3/comanda/internal/security/password"
	"github.com/dropDatabas3/comanda/internal/store/adapters/memory"
	"github.com/dropDatabas3/comanda/internal/tenantctx"
)

func setup(t *testing.T) (AuthService, StaffService, *authgate.Gate) {
	t.Helper()
	st := memory.New()
	codec, err := authgate.NewCodec("0123456789abcdef0123456789abcdef", "comanda", time.Hour)
	require.NoError(t, err)
	gate := authgate.New(codec, st, nil)

	staff := NewStaffService(st)
	_, err = staff.Create(context.Background(), "cafe", dto.StaffRequest{Username: "ana", Password: "s3cret-pass", Role: "admin"})
	require.NoError(t, err)
	return NewAuthService(Deps{Staff: st, Gate: gate}), staff, gate
}

func TestLogin_IssuesTenantToken(t *testing.T) {
	svc, _, gate := setup(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "cafe", resp.Tenant)
	assert.Equal(t, repository.RoleAdmin, resp.Role)

	p, err := gate.Authenticate(ctx, "Bearer "+resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantctx.TenantID("cafe"), p.Tenant)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "whatever-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestLogin_NewTokenInvalidatesOlder(t *testing.T) {
	svc, _, gate := setup(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = gate.Authenticate(ctx, "Bearer "+first.AccessToken)
	assert.ErrorIs(t, err, authgate.ErrUnauthorized)
	_, err = gate.Authenticate(ctx, "Bearer "+second.AccessToken)
	assert.NoError(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, gate := setup(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	p, err := gate.Authenticate(ctx, "Bearer "+resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, p))
	_, err = gate.Authenticate(ctx, "Bearer "+resp.AccessToken)
	assert.ErrorIs(t, err, authgate.ErrUnauthorized)

	revoked, err := gate.Blacklist().Contains(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStaffCreate_Validation(t *testing.T) {
	_, staff, _ := setup(t)
	ctx := context.Background()

	_, err := staff.Create(ctx, "cafe", dto.StaffRequest{Username: "ana", Password: "another-pass", Role: "STAFF"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = staff.Create(ctx, "cafe", dto.StaffRequest{Username: "bo", Password: "short", Role: "STAFF"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	_, err = staff.Create(ctx, "cafe", dto.StaffRequest{Username: "bo", Password: "long-enough", Role: "CHEF"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	out, err := staff.Create(ctx, "cafe", dto.StaffRequest{Username: "bo", Password: "long-enough", Role: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, repository.RoleKitchen, out.Role)
}

func TestStaffCreate_ConcurrentSameUsernameOneWins(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	staff := NewStaffService(st)

	tenants := []tenantctx.TenantID{"cafe", "bistro"}
	errs := make([]error, len(tenants))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, tn := range tenants {
		wg.Add(1)
		go func(i int, tn tenantctx.TenantID) {
			defer wg.Done()
			<-start
			_, errs[i] = staff.Create(ctx, tn, dto.StaffRequest{Username: "zoe", Password: "pass-" + string(tn) + "-1", Role: "ADMIN"})
		}(i, tn)
	}
	close(start)
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "solo un alta puede ganar")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, repository.ErrConflict)
	}
	require.NotEqual(t, -1, winner)

	u, err := st.FindStaffUser(ctx, "zoe")
	require.NoError(t, err)
	assert.Equal(t, tenants[winner], u.Tenant)
	assert.True(t, password.Verify("pass-"+string(tenants[winner])+"-1", u.PasswordHash))
}

func TestStaffCreate_NeverOverwritesExistingUser(t *testing.T) {
	_, staff, _ := setup(t)
	ctx := context.Background()

	_, err := staff.Create(ctx, "bistro", dto.StaffRequest{Username: "ana", Password: "hijack-pass-1", Role: "ADMIN"})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := staff.Get(ctx, "cafe", "ana")
	require.NoError(t, err)
	assert.Equal(t, "cafe", got.Tenant)
}

func TestStaffListGet_ScopedToTenant(t *testing.T) {
	_, staff, _ := setup(t)
	ctx := context.Background()

	_, err := staff.Create(ctx, "cafe", dto.StaffRequest{Username: "kai", Password: "kitchen-pass-1", Role: "KITCHEN"})
	require.NoError(t, err)
	_, err = staff.Create(ctx, "bistro", dto.StaffRequest{Username: "bob", Password: "bistro-pass-1", Role: "ADMIN"})
	require.NoError(t, err)

	list, err := staff.List(ctx, "cafe")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ana", list[0].Username)
	assert.Equal(t, "kai", list[1].Username)

	got, err := staff.Get(ctx, "cafe", "kai")
	require.NoError(t, err)
	assert.Equal(t, repository.RoleKitchen, got.Role)

	_, err = staff.Get(ctx, "cafe", "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = staff.Get(ctx, "cafe", "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStaffDelete_RevokesLiveTokens(t *testing.T) {
	svc, staff, gate := setup(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)

	deleted, err := staff.Delete(ctx, "bistro", "ana")
	require.NoError(t, err)
	assert.False(t, deleted, "otro tenant no puede borrarla")

	deleted, err = staff.Delete(ctx, "cafe", "ana")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = gate.Authenticate(ctx, "Bearer "+resp.AccessToken)
	assert.ErrorIs(t, err, authgate.ErrUnauthorized)

	deleted, err = staff.Delete(ctx, "cafe", "ana")
	require.NoError(t, err)
	assert.False(t, deleted)

	// Recrear el mismo username no revive el token anterior.
	_, err = staff.Create(ctx, "cafe", dto.StaffRequest{Username: "ana", Password: "s3cret-pass", Role: "ADMIN"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = gate.Authenticate(ctx, "Bearer "+resp.AccessToken)
	assert.ErrorIs(t, err, authgate.ErrUnauthorized)
}

func TestLogin_UpgradesLegacyBcryptHash(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.SaveStaffUser(ctx, repository.StaffUser{
		Username:     "old",
		PasswordHash: string(legacy),
		Role:         repository.RoleStaff,
		Tenant:       "cafe",
	}))

	codec, err := authgate.NewCodec("0123456789abcdef0123456789abcdef", "comanda", time.Hour)
	require.NoError(t, err)
	svc := NewAuthService(Deps{Staff: st, Gate: authgate.New(codec, st, nil)})

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "old", Password: "s3cret-pass"})
	require.NoError(t, err)

	u, err := st.FindStaffUser(ctx, "old")
	require.NoError(t, err)
	assert.False(t, password.NeedsRehash(u.PasswordHash))
	assert.True(t, password.Verify("s3cret-pass", u.PasswordHash))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "old", Password: "s3cret-pass"})
	assert.NoError(t, err)
}
