// Package registry keeps the registration list and the per-account
// password and lock tables in a kv.Store.
//
// The whole list lives under one key and every mutation reads, changes and
// rewrites it as a unit. Within a process mutations are serialised; across
// processes the last write wins.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdg-garage/meibo/internal/kv"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeyRecords     = "registerList"
	KeyEditAccount = "editUserAccount"
	KeyLang        = "lang"

	passwordPrefix = "userPassword_"
	lockedPrefix   = "userLocked_"
	lockedValue    = "1"
)

var ErrNotFound = errors.New("record not found")

func PasswordKey(accountID string) string {
	return passwordPrefix + models.NormalizeAccountID(accountID)
}

func LockedKey(accountID string) string {
	return lockedPrefix + models.NormalizeAccountID(accountID)
}

type Store struct {
	kv     kv.Store
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func New(store kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: store, logger: logger, now: time.Now}
}

// List returns the registration list. An absent or malformed list reads as
// empty; only backend failures are returned as errors.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	raw, err := s.kv.Get(ctx, KeyRecords)
	if errors.Is(err, kv.ErrNotFound) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyRecords, err)
	}

	var records []models.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("registration list is malformed, reading as empty", zap.Error(err))
		return []models.Record{}, nil
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, index int) (models.Record, bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, false, err
	}
	if index < 0 || index >= len(records) {
		return models.Record{}, false, nil
	}
	return records[index], true, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (models.Record, int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, -1, err
	}
	for i, r := range records {
		if r.ID == id {
			return r, i, nil
		}
	}
	return models.Record{}, -1, ErrNotFound
}

// FindByAccount returns the first record whose derived account id matches,
// ignoring case and whitespace.
func (s *Store) FindByAccount(ctx context.Context, accountID string) (models.Record, int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, -1, err
	}
	want := models.NormalizeAccountID(accountID)
	for i, r := range records {
		if want != "" && r.AccountID() == want {
			return r, i, nil
		}
	}
	return models.Record{}, -1, ErrNotFound
}

// Append adds rec at the end of the list, keeping every earlier entry. It
// assigns the id and audit timestamps and returns the stored record and
// its index.
func (s *Store) Append(ctx context.Context, rec models.Record) (models.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, -1, err
	}

	now := s.now()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.RegisteredAt = now
	rec.UpdatedAt = now
	rec.Age = validation.AgeOf(rec.Birth, now)

	records = append(records, rec)
	if err := s.save(ctx, records, kv.Batch{}); err != nil {
		return models.Record{}, -1, err
	}
	return rec, len(records) - 1, nil
}

// Update replaces the record at index. An index outside the list is a
// no-op and reports false.
func (s *Store) Update(ctx context.Context, index int, rec models.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(records) {
		return false, nil
	}

	batch, err := s.replace(ctx, records, index, rec)
	if err != nil {
		return false, err
	}
	return true, s.save(ctx, records, batch)
}

// Modify applies fn to the record with the given id and stores the result.
func (s *Store) Modify(ctx context.Context, id string, fn func(*models.Record) error) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.List(ctx)
	if err != nil {
		return models.Record{}, err
	}
	index := -1
	for i, r := range records {
		if r.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return models.Record{}, ErrNotFound
	}

	rec := records[index]
	if err := fn(&rec); err != nil {
		return models.Record{}, err
	}
	batch, err := s.replace(ctx, records, index, rec)
	if err != nil {
		return models.Record{}, err
	}
	if err := s.save(ctx, records, batch); err != nil {
		return models.Record{}, err
	}
	return records[index], nil
}

// replace swaps records[index] for rec, keeping identity and registration
// time, and returns the side-table writes needed when the account id moved.
func (s *Store) replace(ctx context.Context, records []models.Record, index int, rec models.Record) (kv.Batch, error) {
	old := records[index]
	now := s.now()

	rec.ID = old.ID
	rec.RegisteredAt = old.RegisteredAt
	if rec.Documents == nil {
		rec.Documents = old.Documents
	}
	rec.UpdatedAt = now
	rec.Age = validation.AgeOf(rec.Birth, now)
	records[index] = rec

	oldID, newID := old.AccountID(), rec.AccountID()
	if oldID == "" || newID == "" || oldID == newID || accountInUse(records, oldID) {
		return kv.Batch{}, nil
	}
	return s.migrateAccount(ctx, oldID, newID)
}

// migrateAccount moves password and lock entries from oldID to newID. A
// password already stored for newID is left alone.
func (s *Store) migrateAccount(ctx context.Context, oldID, newID string) (kv.Batch, error) {
	batch := kv.Batch{Set: map[string]string{}}

	oldPw, hasOld, err := s.Password(ctx, oldID)
	if err != nil {
		return kv.Batch{}, err
	}
	_, hasNew, err := s.Password(ctx, newID)
	if err != nil {
		return kv.Batch{}, err
	}
	if hasOld && !hasNew {
		batch.Set[PasswordKey(newID)] = oldPw
	}

	locked, err := s.Locked(ctx, oldID)
	if err != nil {
		return kv.Batch{}, err
	}
	if locked {
		batch.Set[LockedKey(newID)] = lockedValue
	}

	batch.Delete = []string{PasswordKey(oldID), LockedKey(oldID)}
	s.logger.Info("account id changed, side tables migrated",
		zap.String("from", oldID),
		zap.String("to", newID),
	)
	return batch, nil
}

// RemoveAt deletes the record at index and reports whether one was removed.
func (s *Store) RemoveAt(ctx context.Context, index int) (bool, error) {
	n, err := s.RemoveMany(ctx, []int{index})
	return n == 1, err
}

// RemoveMany deletes the records at the given positions, keeping the order
// of the rest. Password and lock entries of accounts that no longer have a
// record are cleared.
func (s *Store) RemoveMany(ctx context.Context, indices []int) (int, error) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	return s.removeWhere(ctx, func(i int, _ models.Record) bool { return drop[i] })
}

// RemoveAccount deletes every record deriving accountID along with the
// account's password and lock entries.
func (s *Store) RemoveAccount(ctx context.Context, accountID string) (int, error) {
	want := models.NormalizeAccountID(accountID)
	n, err := s.removeWhere(ctx, func(_ int, r models.Record) bool { return r.AccountID() == want })
	if err != nil || n > 0 {
		return n, err
	}
	// No record left, but stale side-table entries may still exist.
	return 0, kv.Delete(ctx, s.kv, PasswordKey(want), LockedKey(want))
}

func (s *Store) removeWhere(ctx context.Context, match func(int, models.Record) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]models.Record, 0, len(records))
	var removed []models.Record
	for i, r := range records {
		if match(i, r) {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	var orphans []string
	seen := map[string]bool{}
	for _, r := range removed {
		id := r.AccountID()
		if id == "" || seen[id] || accountInUse(kept, id) {
			continue
		}
		seen[id] = true
		orphans = append(orphans, PasswordKey(id), LockedKey(id))
	}
	sort.Strings(orphans)

	if err := s.save(ctx, kept, kv.Batch{Delete: orphans}); err != nil {
		return 0, err
	}
	return len(removed), nil
}

func accountInUse(records []models.Record, accountID string) bool {
	for _, r := range records {
		if r.AccountID() == accountID {
			return true
		}
	}
	return false
}

func (s *Store) save(ctx context.Context, records []models.Record, batch kv.Batch) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyRecords, err)
	}
	if batch.Set == nil {
		batch.Set = map[string]string{}
	}
	batch.Set[KeyRecords] = string(raw)
	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("write %s: %w", KeyRecords, err)
	}
	return nil
}

// Password returns the stored password of an account and whether one is set.
func (s *Store) Password(ctx context.Context, accountID string) (string, bool, error) {
	v, err := s.kv.Get(ctx, PasswordKey(accountID))
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}

func (s *Store) SetPassword(ctx context.Context, accountID, password string) error {
	return kv.Set(ctx, s.kv, PasswordKey(accountID), password)
}

// Locked reports the lock flag; an absent entry means unlocked.
func (s *Store) Locked(ctx context.Context, accountID string) (bool, error) {
	v, err := s.kv.Get(ctx, LockedKey(accountID))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == lockedValue, nil
}

func (s *Store) SetLocked(ctx context.Context, accountID string) error {
	return kv.Set(ctx, s.kv, LockedKey(accountID), lockedValue)
}

func (s *Store) ClearLocked(ctx context.Context, accountID string) error {
	return kv.Delete(ctx, s.kv, LockedKey(accountID))
}

// StageEditAccount remembers which account the edit-my-record flow is for.
func (s *Store) StageEditAccount(ctx context.Context, accountID string) error {
	return kv.Set(ctx, s.kv, KeyEditAccount, strings.ToLower(models.NormalizeAccountID(accountID)))
}

func (s *Store) StagedEditAccount(ctx context.Context) (string, error) {
	return s.optional(ctx, KeyEditAccount)
}

func (s *Store) LangPreference(ctx context.Context) (string, error) {
	return s.optional(ctx, KeyLang)
}

func (s *Store) SetLangPreference(ctx context.Context, lang string) error {
	return kv.Set(ctx, s.kv, KeyLang, lang)
}

func (s *Store) optional(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	return v, err
}
