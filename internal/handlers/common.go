package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/gdg-garage/meibo/internal/validation"
	"go.uber.org/zap"
)

// LangInput lets a request pick the message language.
type LangInput struct {
	Lang           string `query:"lang" enum:"zh,ja" doc:"Message language; defaults to the stored preference"`
	AcceptLanguage string `header:"Accept-Language"`
}

// language resolves an explicit choice, then the stored preference, then
// Accept-Language.
func language(ctx context.Context, store *registry.Store, in LangInput) i18n.Lang {
	if l, ok := i18n.Parse(in.Lang); ok {
		return l
	}
	if stored, err := store.LangPreference(ctx); err == nil {
		if l, ok := i18n.Parse(stored); ok {
			return l
		}
	}
	return i18n.Negotiate("", in.AcceptLanguage)
}

// fieldErrors turns validation failures into a 422 with one detail per
// field.
func fieldErrors(errs validation.FieldErrors) error {
	details := make([]error, 0, len(errs))
	for _, field := range errs.Fields() {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + field,
			Message:  errs[field],
		})
	}
	return huma.Error422UnprocessableEntity("validation failed", details...)
}

func fieldError(field, message string) error {
	return huma.Error422UnprocessableEntity(message, &huma.ErrorDetail{
		Location: "body." + field,
		Message:  message,
	})
}

func internalError(logger *zap.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return huma.Error500InternalServerError(msg)
}

// accountError maps resolver failures onto HTTP errors with a localized
// message.
func accountError(logger *zap.Logger, lang i18n.Lang, err error) error {
	switch {
	case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, registry.ErrNotFound):
		return huma.Error404NotFound(i18n.T(lang, i18n.MsgAuthAccountNotFound))
	case errors.Is(err, auth.ErrInvalidPasswordFormat):
		return fieldError("password", i18n.T(lang, i18n.MsgPasswordFormat))
	case errors.Is(err, auth.ErrPasswordRequired):
		return fieldError("password", i18n.T(lang, i18n.MsgPasswordRequired))
	case errors.Is(err, auth.ErrPasswordMismatch):
		return fieldError("confirm", i18n.T(lang, i18n.MsgPasswordMismatch))
	case errors.Is(err, auth.ErrPasswordAlreadySet):
		return huma.Error409Conflict(i18n.T(lang, i18n.MsgPasswordAlreadySet))
	}
	return internalError(logger, "account operation failed", err)
}

// MessageResponse is returned by operations with nothing else to report.
type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(msg string) *MessageResponse {
	res := &MessageResponse{}
	res.Body.Message = msg
	return res
}
