package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"regexp"

	"github.com/gdg-garage/meibo/internal/config"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/registry"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials    = errors.New("invalid admin credentials")
	ErrAccountNotFound       = errors.New("account not found")
	ErrNoPasswordSet         = errors.New("account has no password")
	ErrWrongPassword         = errors.New("wrong password")
	ErrAccountLocked         = errors.New("account is locked")
	ErrInvalidPasswordFormat = errors.New("password must be six digits")
	ErrPasswordRequired      = errors.New("password is required")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrPasswordAlreadySet    = errors.New("account already has a password")
)

var passwordPattern = regexp.MustCompile(`^[0-9]{6}$`)

type adminIdentity struct {
	user, password string
	role           Role
}

// Resolver answers who is logging in and owns the account side tables.
type Resolver struct {
	store           *registry.Store
	admins          []adminIdentity
	lockBlocksLogin bool
	logger          *zap.Logger
}

func NewResolver(store *registry.Store, cfg *config.Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store: store,
		admins: []adminIdentity{
			{user: cfg.AdminFullUser, password: cfg.AdminFullPassword, role: RoleFull},
			{user: cfg.AdminLimitedUser, password: cfg.AdminLimitedPassword, role: RoleLimited},
		},
		lockBlocksLogin: cfg.LockBlocksLogin,
		logger:          logger,
	}
}

func AccountIDOf(rec models.Record) string {
	return rec.AccountID()
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (r *Resolver) AuthenticateAdmin(user, password string) (Role, error) {
	for _, a := range r.admins {
		if a.user == "" {
			continue
		}
		if equal(a.user, user) && equal(a.password, password) {
			return a.role, nil
		}
	}
	return "", ErrInvalidCredentials
}

// AuthenticateUser checks an account id and password against the store.
// Failures are reported in a fixed order: unknown account, no password,
// wrong password and, when enforced, lock.
func (r *Resolver) AuthenticateUser(ctx context.Context, account, password string) (models.Record, int, error) {
	rec, index, err := r.store.FindByAccount(ctx, account)
	if errors.Is(err, registry.ErrNotFound) {
		return models.Record{}, -1, ErrAccountNotFound
	}
	if err != nil {
		return models.Record{}, -1, err
	}

	id := rec.AccountID()
	stored, set, err := r.store.Password(ctx, id)
	if err != nil {
		return models.Record{}, -1, err
	}
	if !set {
		return models.Record{}, -1, ErrNoPasswordSet
	}
	if !equal(stored, password) {
		return models.Record{}, -1, ErrWrongPassword
	}

	if r.lockBlocksLogin {
		locked, err := r.store.Locked(ctx, id)
		if err != nil {
			return models.Record{}, -1, err
		}
		if locked {
			return models.Record{}, -1, ErrAccountLocked
		}
	}
	return rec, index, nil
}

// CheckUnlocked refuses a user session whose account was locked after the
// session was issued. It only applies when locks block login.
func (r *Resolver) CheckUnlocked(ctx context.Context, recordID string) error {
	if !r.lockBlocksLogin {
		return nil
	}
	rec, _, err := r.store.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	locked, err := r.store.Locked(ctx, rec.AccountID())
	if err != nil {
		return err
	}
	if locked {
		return ErrAccountLocked
	}
	return nil
}

// ResetPassword sets a new password for an existing account.
func (r *Resolver) ResetPassword(ctx context.Context, accountID, password string) error {
	if !passwordPattern.MatchString(password) {
		return ErrInvalidPasswordFormat
	}
	if _, _, err := r.store.FindByAccount(ctx, accountID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := r.store.SetPassword(ctx, accountID, password); err != nil {
		return err
	}
	r.logger.Info("password reset", zap.String("account", models.NormalizeAccountID(accountID)))
	return nil
}

// CreatePassword is the last registration step: it sets the first
// password of the account derived from the record with the given id.
func (r *Resolver) CreatePassword(ctx context.Context, recordID, password, confirm string) (string, error) {
	switch {
	case password == "":
		return "", ErrPasswordRequired
	case password != confirm:
		return "", ErrPasswordMismatch
	case !passwordPattern.MatchString(password):
		return "", ErrInvalidPasswordFormat
	}

	rec, _, err := r.store.FindByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	id := rec.AccountID()
	if id == "" {
		return "", ErrAccountNotFound
	}
	if _, set, err := r.store.Password(ctx, id); err != nil {
		return "", err
	} else if set {
		return "", ErrPasswordAlreadySet
	}

	if err := r.store.SetPassword(ctx, id, password); err != nil {
		return "", err
	}
	return id, nil
}

// ToggleLock flips the lock flag of an account and returns the new state.
func (r *Resolver) ToggleLock(ctx context.Context, accountID string) (bool, error) {
	if _, _, err := r.store.FindByAccount(ctx, accountID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return false, ErrAccountNotFound
		}
		return false, err
	}

	locked, err := r.store.Locked(ctx, accountID)
	if err != nil {
		return false, err
	}
	if locked {
		err = r.store.ClearLocked(ctx, accountID)
	} else {
		err = r.store.SetLocked(ctx, accountID)
	}
	if err != nil {
		return false, err
	}
	r.logger.Info("account lock toggled",
		zap.String("account", models.NormalizeAccountID(accountID)),
		zap.Bool("locked", !locked),
	)
	return !locked, nil
}

// Account is one row of the accounts overview.
type Account struct {
	Index       int    `json:"index"`
	RecordID    string `json:"recordId"`
	Account     string `json:"account"`
	Password    string `json:"password,omitempty"`
	Name        string `json:"name"`
	Birth       string `json:"birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Locked      bool   `json:"locked"`
}

// Accounts lists one row per record with its account side-table state.
func (r *Resolver) Accounts(ctx context.Context) ([]Account, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(records))
	for i, rec := range records {
		id := rec.AccountID()
		pw, _, err := r.store.Password(ctx, id)
		if err != nil {
			return nil, err
		}
		locked, err := r.store.Locked(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, Account{
			Index:       i,
			RecordID:    rec.ID,
			Account:     id,
			Password:    pw,
			Name:        rec.FullName(),
			Birth:       rec.Birth,
			Nationality: rec.Nationality,
			Phone:       rec.Phone,
			Locked:      locked,
		})
	}
	return out, nil
}
