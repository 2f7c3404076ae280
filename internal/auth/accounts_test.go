package auth

import (
	"context"
	"testing"

	"github.com/gdg-garage/meibo/internal/config"
	"github.com/gdg-garage/meibo/internal/kv"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		AdminFullUser:        "00000",
		AdminFullPassword:    "00000",
		AdminLimitedUser:     "00111",
		AdminLimitedPassword: "00111",
	}
}

func newResolver(t *testing.T, cfg *config.Config) (*Resolver, *registry.Store, models.Record) {
	t.Helper()
	store := registry.New(kv.NewMemoryStore(), zap.NewNop())
	rec, _, err := store.Append(context.Background(), models.Record{RegistrationFields: models.RegistrationFields{
		FirstName:       "张",
		LastName:        "三",
		FirstNameRomaji: "zhang ",
		LastNameRomaji:  "san",
		Nationality:     models.NationalityChina,
		Phone:           "090-1234-5678",
	}})
	require.NoError(t, err)
	return NewResolver(store, cfg, zap.NewNop()), store, rec
}

func TestAccountIDOf(t *testing.T) {
	rec := models.Record{RegistrationFields: models.RegistrationFields{FirstNameRomaji: "zhang ", LastNameRomaji: "san"}}
	assert.Equal(t, "ZHANGSAN", AccountIDOf(rec))
}

func TestAuthenticateAdmin(t *testing.T) {
	r, _, _ := newResolver(t, testConfig())

	role, err := r.AuthenticateAdmin("00000", "00000")
	require.NoError(t, err)
	assert.Equal(t, RoleFull, role)

	role, err = r.AuthenticateAdmin("00111", "00111")
	require.NoError(t, err)
	assert.Equal(t, RoleLimited, role)

	for _, pair := range [][2]string{{"00000", "00111"}, {"00111", "00000"}, {"", ""}, {"admin", "admin"}} {
		_, err := r.AuthenticateAdmin(pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%v", pair)
	}
}

func TestAuthenticateAdminSkipsUnsetIdentity(t *testing.T) {
	cfg := testConfig()
	cfg.AdminLimitedUser = ""
	cfg.AdminLimitedPassword = ""
	r, _, _ := newResolver(t, cfg)

	_, err := r.AuthenticateAdmin("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUser(t *testing.T) {
	ctx := context.Background()
	r, store, rec := newResolver(t, testConfig())

	_, _, err := r.AuthenticateUser(ctx, "lisi", "123456")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, _, err = r.AuthenticateUser(ctx, "zhangsan", "123456")
	assert.ErrorIs(t, err, ErrNoPasswordSet)

	require.NoError(t, store.SetPassword(ctx, "ZHANGSAN", "123456"))

	_, _, err = r.AuthenticateUser(ctx, "zhangsan", "654321")
	assert.ErrorIs(t, err, ErrWrongPassword)

	got, idx, err := r.AuthenticateUser(ctx, "ZhangSan", "123456")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, rec.ID, got.ID)
}

func TestLockIsAdvisoryByDefault(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newResolver(t, testConfig())
	require.NoError(t, store.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, store.SetLocked(ctx, "ZHANGSAN"))

	_, _, err := r.AuthenticateUser(ctx, "zhangsan", "123456")
	assert.NoError(t, err)
}

func TestLockBlocksLogin(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.LockBlocksLogin = true
	r, store, _ := newResolver(t, cfg)
	require.NoError(t, store.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, store.SetLocked(ctx, "ZHANGSAN"))

	_, _, err := r.AuthenticateUser(ctx, "zhangsan", "000000")
	assert.ErrorIs(t, err, ErrWrongPassword, "password is checked before the lock")

	_, _, err = r.AuthenticateUser(ctx, "zhangsan", "123456")
	assert.ErrorIs(t, err, ErrAccountLocked)

	require.NoError(t, store.ClearLocked(ctx, "ZHANGSAN"))
	_, _, err = r.AuthenticateUser(ctx, "zhangsan", "123456")
	assert.NoError(t, err)
}

func TestCheckUnlocked(t *testing.T) {
	ctx := context.Background()

	r, store, rec := newResolver(t, testConfig())
	require.NoError(t, store.SetLocked(ctx, "ZHANGSAN"))
	assert.NoError(t, r.CheckUnlocked(ctx, rec.ID), "advisory locks do not end sessions")

	cfg := testConfig()
	cfg.LockBlocksLogin = true
	r, store, rec = newResolver(t, cfg)
	assert.NoError(t, r.CheckUnlocked(ctx, rec.ID))

	require.NoError(t, store.SetLocked(ctx, "ZHANGSAN"))
	assert.ErrorIs(t, r.CheckUnlocked(ctx, rec.ID), ErrAccountLocked)

	assert.ErrorIs(t, r.CheckUnlocked(ctx, "missing"), registry.ErrNotFound)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newResolver(t, testConfig())

	for _, bad := range []string{"", "12345", "1234567", "12345a"} {
		assert.ErrorIs(t, r.ResetPassword(ctx, "ZHANGSAN", bad), ErrInvalidPasswordFormat, bad)
	}
	assert.ErrorIs(t, r.ResetPassword(ctx, "LISI", "123456"), ErrAccountNotFound)

	require.NoError(t, r.ResetPassword(ctx, "zhang san", "123456"))
	pw, set, err := store.Password(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, "123456", pw)
}

func TestCreatePassword(t *testing.T) {
	ctx := context.Background()
	r, store, rec := newResolver(t, testConfig())

	_, err := r.CreatePassword(ctx, rec.ID, "", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
	_, err = r.CreatePassword(ctx, rec.ID, "123456", "123457")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = r.CreatePassword(ctx, rec.ID, "12345", "12345")
	assert.ErrorIs(t, err, ErrInvalidPasswordFormat)
	_, err = r.CreatePassword(ctx, "missing", "123456", "123456")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	account, err := r.CreatePassword(ctx, rec.ID, "123456", "123456")
	require.NoError(t, err)
	assert.Equal(t, "ZHANGSAN", account)
	pw, _, err := store.Password(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "123456", pw)

	_, err = r.CreatePassword(ctx, rec.ID, "654321", "654321")
	assert.ErrorIs(t, err, ErrPasswordAlreadySet)
}

func TestToggleLock(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newResolver(t, testConfig())

	locked, err := r.ToggleLock(ctx, "zhangsan")
	require.NoError(t, err)
	assert.True(t, locked)
	stored, err := store.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.True(t, stored)

	locked, err = r.ToggleLock(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, locked)

	_, err = r.ToggleLock(ctx, "LISI")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	r, store, rec := newResolver(t, testConfig())
	require.NoError(t, store.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, store.SetLocked(ctx, "ZHANGSAN"))

	rows, err := r.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Account{
		Index:       0,
		RecordID:    rec.ID,
		Account:     "ZHANGSAN",
		Password:    "123456",
		Name:        "张 三",
		Nationality: models.NationalityChina,
		Phone:       "090-1234-5678",
		Locked:      true,
	}, rows[0])
}
