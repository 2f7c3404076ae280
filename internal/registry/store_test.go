package registry

import (
	"context"
	"testing"
	"time"

	"github.com/gdg-garage/meibo/internal/kv"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backend := kv.NewMemoryStore()
	s := New(backend, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s, backend
}

func record(first, last, firstRomaji, lastRomaji string) models.Record {
	return models.Record{RegistrationFields: models.RegistrationFields{
		FirstName:       first,
		LastName:        last,
		FirstNameRomaji: firstRomaji,
		LastNameRomaji:  lastRomaji,
		Birth:           "1990-05-20",
		Nationality:     models.NationalityJapan,
	}}
}

func TestAppendKeepsEarlierRecords(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, idx, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 36, first.Age)
	assert.Equal(t, fixedNow, first.RegisteredAt)

	second, idx, err := s.Append(ctx, record("李", "四", "LI", "SI"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "张", list[0].FirstName)
	assert.Equal(t, "李", list[1].FirstName)
}

func TestListAbsentOrMalformed(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, kv.Set(ctx, backend, KeyRecords, "{not json"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, kv.Set(ctx, backend, KeyRecords, "null"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestGetAndFind(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	stored, _, err := s.Append(ctx, record("张", "三", "Zhang", "San"))
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored.ID, got.ID)

	_, ok, err = s.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, idx, err := s.FindByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, _, err = s.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, idx, err = s.FindByAccount(ctx, "zhang san")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, _, err = s.FindByAccount(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)

	for _, idx := range []int{-1, 1, 42} {
		ok, err := s.Update(ctx, idx, record("王", "五", "WANG", "WU"))
		require.NoError(t, err)
		assert.False(t, ok, "index %d", idx)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "张", list[0].FirstName)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	orig := record("张", "三", "ZHANG", "SAN")
	orig.Documents = map[string]string{models.DocRouzai: "data:image/png;base64,AA=="}
	stored, _, err := s.Append(ctx, orig)
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }

	edit := record("张", "三丰", "ZHANG", "SAN")
	edit.ID = "forged"
	ok, err := s.Update(ctx, 0, edit)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := s.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "三丰", got.LastName)
	assert.True(t, fixedNow.Equal(got.RegisteredAt))
	assert.True(t, later.Equal(got.UpdatedAt))
	assert.Equal(t, orig.Documents, got.Documents)
}

func TestUpdateMigratesRenamedAccount(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	require.NoError(t, s.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, s.SetLocked(ctx, "ZHANGSAN"))

	ok, err := s.Update(ctx, 0, record("张", "三", "ZHANG", "SANFENG"))
	require.NoError(t, err)
	require.True(t, ok)

	pw, set, err := s.Password(ctx, "ZHANGSANFENG")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, "123456", pw)
	locked, err := s.Locked(ctx, "zhangsanfeng")
	require.NoError(t, err)
	assert.True(t, locked)

	_, set, err = s.Password(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, set)
	locked, err = s.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestUpdateRenameKeepsSharedAccount(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	_, _, err = s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	require.NoError(t, s.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, s.SetPassword(ctx, "LISI", "654321"))

	_, err = s.Update(ctx, 0, record("李", "四", "LI", "SI"))
	require.NoError(t, err)

	pw, _, err := s.Password(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.Equal(t, "123456", pw, "still used by the second record")
	pw, _, err = s.Password(ctx, "LISI")
	require.NoError(t, err)
	assert.Equal(t, "654321", pw)
}

func TestModify(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	stored, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)

	got, err := s.Modify(ctx, stored.ID, func(r *models.Record) error {
		r.Documents = map[string]string{models.DocRouzai: "data:,x"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "data:,x", got.Documents[models.DocRouzai])

	_, err = s.Modify(ctx, "missing", func(*models.Record) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAtClearsSideTables(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	require.NoError(t, s.SetPassword(ctx, "ZHANGSAN", "123456"))
	require.NoError(t, s.SetLocked(ctx, "ZHANGSAN"))

	ok, err := s.RemoveAt(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.RemoveAt(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, set, err := s.Password(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, set)
	locked, err := s.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRemoveManyKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, r := range []models.Record{
		record("A", "a", "A", "A"),
		record("B", "b", "B", "B"),
		record("C", "c", "C", "C"),
		record("D", "d", "D", "D"),
	} {
		_, _, err := s.Append(ctx, r)
		require.NoError(t, err)
	}

	n, err := s.RemoveMany(ctx, []int{2, 0, 0, 9})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].FirstName)
	assert.Equal(t, "D", list[1].FirstName)
}

func TestRemoveAccount(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _, err := s.Append(ctx, record("张", "三", "ZHANG", "SAN"))
	require.NoError(t, err)
	_, _, err = s.Append(ctx, record("李", "四", "LI", "SI"))
	require.NoError(t, err)
	require.NoError(t, s.SetPassword(ctx, "ZHANGSAN", "123456"))

	n, err := s.RemoveAccount(ctx, "zhang san")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "LISI", list[0].AccountID())
	_, set, err := s.Password(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, s.SetLocked(ctx, "GHOST"))
	n, err = s.RemoveAccount(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)
	locked, err := s.Locked(ctx, "GHOST")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLockFlag(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	locked, err := s.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, s.SetLocked(ctx, "zhangsan"))
	locked, err = s.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, s.ClearLocked(ctx, "ZHANGSAN"))
	locked, err = s.Locked(ctx, "ZHANGSAN")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	staged, err := s.StagedEditAccount(ctx)
	require.NoError(t, err)
	assert.Empty(t, staged)

	require.NoError(t, s.StageEditAccount(ctx, "Zhang San"))
	staged, err = s.StagedEditAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", staged)

	lang, err := s.LangPreference(ctx)
	require.NoError(t, err)
	assert.Empty(t, lang)
	require.NoError(t, s.SetLangPreference(ctx, "ja"))
	raw, err := backend.Get(ctx, KeyLang)
	require.NoError(t, err)
	assert.Equal(t, "ja", raw)
}

func TestSideTableKeys(t *testing.T) {
	assert.Equal(t, "userPassword_ZHANGSAN", PasswordKey("zhang san"))
	assert.Equal(t, "userLocked_ZHANGSAN", LockedKey(" Zhang\tSan "))
}
