package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/format"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/gdg-garage/meibo/internal/notifier"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/gdg-garage/meibo/internal/validation"
	"go.uber.org/zap"
)

// MeHandler serves a logged-in registrant's own record.
type MeHandler struct {
	authHandler *auth.AuthHandler
	resolver    *auth.Resolver
	store       *registry.Store
	validator   *validation.Validator
	notifier    notifier.Notifier
	logger      *zap.Logger
}

func NewMeHandler(authHandler *auth.AuthHandler, resolver *auth.Resolver, store *registry.Store, validator *validation.Validator, n notifier.Notifier, logger *zap.Logger) *MeHandler {
	return &MeHandler{
		authHandler: authHandler,
		resolver:    resolver,
		store:       store,
		validator:   validator,
		notifier:    n,
		logger:      logger,
	}
}

type MeRequest struct {
	auth.AuthInput
	LangInput
}

func (h *MeHandler) HandleGetRecord(ctx context.Context, input *MeRequest) (*RecordResponse, error) {
	session, err := h.authHandler.RequireUser(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)
	if err := h.checkUnlocked(ctx, session.Subject, lang); err != nil {
		return nil, err
	}

	rec, index, err := h.store.FindByID(ctx, session.Subject)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, huma.Error404NotFound("Record not found")
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to read record", err)
	}
	return &RecordResponse{Body: item(index, rec, lang, true)}, nil
}

type UpdateMeRequest struct {
	auth.AuthInput
	LangInput
	Body models.RegistrationFields
}

// HandleUpdateRecord replaces the registrant's form fields after the full
// submit-time validation. Documents and identity are kept.
func (h *MeHandler) HandleUpdateRecord(ctx context.Context, input *UpdateMeRequest) (*RecordResponse, error) {
	session, err := h.authHandler.RequireUser(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	lang := language(ctx, h.store, input.LangInput)
	if err := h.checkUnlocked(ctx, session.Subject, lang); err != nil {
		return nil, err
	}

	f := input.Body
	format.Normalize(&f)
	f.ApplySameAddress()
	if errs := h.validator.All(f, lang); len(errs) > 0 {
		return nil, fieldErrors(errs)
	}

	rec, err := h.store.Modify(ctx, session.Subject, func(r *models.Record) error {
		r.RegistrationFields = f
		r.ModifiedBy = r.AccountID()
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, huma.Error404NotFound("Record not found")
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to update record", err)
	}
	h.logger.Info("record updated by owner", zap.String("record_id", rec.ID))
	notify(h.notifier, h.logger, rec, true)

	_, index, err := h.store.FindByID(ctx, rec.ID)
	if err != nil {
		return nil, internalError(h.logger, "Failed to read record", err)
	}
	return &RecordResponse{Body: item(index, rec, lang, true)}, nil
}

func (h *MeHandler) checkUnlocked(ctx context.Context, recordID string, lang i18n.Lang) error {
	err := h.resolver.CheckUnlocked(ctx, recordID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrAccountLocked):
		return huma.Error403Forbidden(i18n.T(lang, i18n.MsgAuthLocked))
	case errors.Is(err, registry.ErrNotFound):
		return huma.Error404NotFound("Record not found")
	}
	return internalError(h.logger, "Failed to check account lock", err)
}
