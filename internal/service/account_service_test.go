package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:         "test-secret",
		BcryptCost:        bcrypt.MinCost,
		DefaultAdminEmail: "admin@annadata.com",
	}}
}

type accountFixture struct {
	staffRepo *testutil.Staff
	adminRepo *testutil.Admins
	cache     *testutil.DirectoryCache
	tokens    *auth.TokenManager
	staffSvc  *StaffService
	authSvc   *AuthService
}

func newAccountFixture(cfg config.Config) *accountFixture {
	clock := testutil.NewClock()
	f := &accountFixture{
		staffRepo: testutil.NewStaff(clock),
		adminRepo: testutil.NewAdmins(clock),
		cache:     &testutil.DirectoryCache{},
		tokens:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
	}
	f.staffSvc = NewStaffService(cfg, StaffDependencies{StaffRepo: f.staffRepo, Cache: f.cache})
	f.authSvc = NewAuthService(cfg, AuthDependencies{
		AdminRepo:    f.adminRepo,
		StaffRepo:    f.staffRepo,
		TokenManager: f.tokens,
	})
	return f
}

func TestStaffCreateNormalizes(t *testing.T) {
	f := newAccountFixture(testConfig())
	member, err := f.staffSvc.Create(context.Background(), StaffCreateInput{
		Name:      " Ravi ",
		Username:  " Ravi.K ",
		Password:  "secret",
		StaffCode: "s01",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi.k", member.Username)
	assert.Equal(t, "S01", member.StaffCode)
	assert.True(t, member.Active)
	assert.NotEqual(t, "secret", member.PasswordHash)
	assert.True(t, auth.PasswordMatches(member.PasswordHash, "secret"))
}

func TestStaffCreateConflicts(t *testing.T) {
	f := newAccountFixture(testConfig())
	ctx := context.Background()
	_, err := f.staffSvc.Create(ctx, StaffCreateInput{Username: "a", Password: "p", StaffCode: "S1"})
	require.NoError(t, err)

	_, err = f.staffSvc.Create(ctx, StaffCreateInput{Username: "A", Password: "p", StaffCode: "S2"})
	requireCode(t, err, "CONFLICT")
	_, err = f.staffSvc.Create(ctx, StaffCreateInput{Username: "b", Password: "p", StaffCode: "s1"})
	requireCode(t, err, "CONFLICT")
	_, err = f.staffSvc.Create(ctx, StaffCreateInput{Username: "c", StaffCode: "S3"})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestStaffDirectoryCaching(t *testing.T) {
	f := newAccountFixture(testConfig())
	ctx := context.Background()
	inactive := false
	_, err := f.staffSvc.Create(ctx, StaffCreateInput{Name: "One", Username: "one", Password: "p", StaffCode: "S1"})
	require.NoError(t, err)
	off, err := f.staffSvc.Create(ctx, StaffCreateInput{Name: "Two", Username: "two", Password: "p", StaffCode: "S2", Active: &inactive})
	require.NoError(t, err)

	entries, err := f.staffSvc.Directory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.StaffSummary{{StaffCode: "S1", Name: "One", Username: "one"}}, entries)
	assert.Equal(t, 1, f.staffRepo.ListCalls)

	_, err = f.staffSvc.Directory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.staffRepo.ListCalls)
	assert.Equal(t, 1, f.cache.Hits)

	_, err = f.staffSvc.SetActive(ctx, off.ID, true)
	require.NoError(t, err)
	entries, err = f.staffSvc.Directory(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, f.staffRepo.ListCalls)
	assert.Equal(t, 3, f.cache.Invalidated)
}

func TestStaffSetActiveUnknown(t *testing.T) {
	f := newAccountFixture(testConfig())
	_, err := f.staffSvc.SetActive(context.Background(), "bogus", false)
	requireCode(t, err, "NOT_FOUND")
	_, err = f.staffSvc.SetActive(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false)
	requireCode(t, err, "NOT_FOUND")
}

func TestLoginStaff(t *testing.T) {
	f := newAccountFixture(testConfig())
	ctx := context.Background()
	member, err := f.staffSvc.Create(ctx, StaffCreateInput{Name: "Ravi", Username: "ravi", Password: "pw", StaffCode: "S1"})
	require.NoError(t, err)

	res, err := f.authSvc.LoginStaff(ctx, " RAVI ", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, res.Identity.Role)
	assert.Equal(t, "S1", res.Identity.StaffCode)

	claims, err := f.tokens.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Identity, claims.Identity())

	_, err = f.authSvc.LoginStaff(ctx, "ravi", "wrong")
	requireCode(t, err, "UNAUTHORIZED")
	_, err = f.authSvc.LoginStaff(ctx, "nobody", "pw")
	requireCode(t, err, "UNAUTHORIZED")

	_, err = f.staffSvc.SetActive(ctx, member.ID, false)
	require.NoError(t, err)
	_, err = f.authSvc.LoginStaff(ctx, "ravi", "pw")
	requireCode(t, err, "UNAUTHORIZED")
}

func TestBootstrapDefaultAdmin(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.DefaultAdminPassword = "letmein"
	f := newAccountFixture(cfg)
	ctx := context.Background()

	require.NoError(t, f.authSvc.BootstrapAdmin(ctx))
	require.NoError(t, f.authSvc.BootstrapAdmin(ctx))
	count, err := f.adminRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	res, err := f.authSvc.LoginAdmin(ctx, "Admin@Annadata.com", "letmein")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Identity.Role)
	assert.WithinDuration(t, time.Now().Add(cfg.Auth.TokenTTL()), res.ExpiresAt, time.Minute)

	_, err = f.authSvc.LoginAdmin(ctx, "admin@annadata.com", "nope")
	requireCode(t, err, "UNAUTHORIZED")
	_, err = f.authSvc.LoginAdmin(ctx, "", "nope")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestBootstrapAdminFromEnvironmentResetsPassword(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AdminEmail = "ops@example.com"
	cfg.Auth.AdminPassword = "first"
	ctx := context.Background()

	f := newAccountFixture(cfg)
	require.NoError(t, f.authSvc.BootstrapAdmin(ctx))
	_, err := f.authSvc.LoginAdmin(ctx, "ops@example.com", "first")
	require.NoError(t, err)

	cfg.Auth.AdminPassword = "second"
	rotated := NewAuthService(cfg, AuthDependencies{AdminRepo: f.adminRepo, StaffRepo: f.staffRepo, TokenManager: f.tokens})
	require.NoError(t, rotated.BootstrapAdmin(ctx))

	_, err = rotated.LoginAdmin(ctx, "ops@example.com", "first")
	requireCode(t, err, "UNAUTHORIZED")
	_, err = rotated.LoginAdmin(ctx, "ops@example.com", "second")
	require.NoError(t, err)

	count, err := f.adminRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
