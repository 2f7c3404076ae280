package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/metrics"
	"github.com/gdg-garage/meibo/internal/registry"
	"go.uber.org/zap"
)

type SessionHandler struct {
	authHandler *auth.AuthHandler
	resolver    *auth.Resolver
	store       *registry.Store
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewSessionHandler(authHandler *auth.AuthHandler, resolver *auth.Resolver, store *registry.Store, m *metrics.Metrics, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		authHandler: authHandler,
		resolver:    resolver,
		store:       store,
		metrics:     m,
		logger:      logger,
	}
}

type AdminLoginRequest struct {
	LangInput
	Body struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Role     string `json:"role" enum:"full,limited,user"`
		Account  string `json:"account,omitempty"`
		RecordID string `json:"recordId,omitempty"`
	}
}

func (h *SessionHandler) HandleAdminLogin(ctx context.Context, input *AdminLoginRequest) (*LoginResponse, error) {
	lang := language(ctx, h.store, input.LangInput)

	role, err := h.resolver.AuthenticateAdmin(input.Body.User, input.Body.Password)
	if err != nil {
		h.metrics.ObserveLogin("admin", "invalid_credentials")
		return nil, huma.Error401Unauthorized(i18n.T(lang, i18n.MsgAuthInvalidCredentials))
	}

	cookie, err := h.authHandler.Cookie(input.Body.User, role)
	if err != nil {
		return nil, internalError(h.logger, "Failed to generate token", err)
	}
	h.metrics.ObserveLogin("admin", "ok")
	h.logger.Info("admin logged in", zap.String("user", input.Body.User), zap.String("role", string(role)))

	res := &LoginResponse{SetCookie: cookie}
	res.Body.Role = string(role)
	return res, nil
}

type UserLoginRequest struct {
	LangInput
	Body struct {
		Account  string `json:"account" doc:"Romaji family and given name, case and spaces ignored"`
		Password string `json:"password"`
	}
}

var loginFailures = []struct {
	err    error
	result string
	msg    string
	status int
}{
	{auth.ErrAccountNotFound, "account_not_found", i18n.MsgAuthAccountNotFound, http.StatusUnauthorized},
	{auth.ErrNoPasswordSet, "no_password", i18n.MsgAuthNoPasswordSet, http.StatusUnauthorized},
	{auth.ErrWrongPassword, "wrong_password", i18n.MsgAuthWrongPassword, http.StatusUnauthorized},
	{auth.ErrAccountLocked, "locked", i18n.MsgAuthLocked, http.StatusForbidden},
}

// HandleUserLogin logs a registrant in. Each failure has its own message.
func (h *SessionHandler) HandleUserLogin(ctx context.Context, input *UserLoginRequest) (*LoginResponse, error) {
	lang := language(ctx, h.store, input.LangInput)

	rec, _, err := h.resolver.AuthenticateUser(ctx, input.Body.Account, input.Body.Password)
	for _, f := range loginFailures {
		if errors.Is(err, f.err) {
			h.metrics.ObserveLogin("user", f.result)
			return nil, huma.NewError(f.status, i18n.T(lang, f.msg))
		}
	}
	if err != nil {
		return nil, internalError(h.logger, "Failed to log in", err)
	}

	account := rec.AccountID()
	if err := h.store.StageEditAccount(ctx, account); err != nil {
		h.logger.Warn("edit account not staged", zap.Error(err))
	}
	cookie, err := h.authHandler.Cookie(rec.ID, auth.RoleUser)
	if err != nil {
		return nil, internalError(h.logger, "Failed to generate token", err)
	}
	h.metrics.ObserveLogin("user", "ok")

	res := &LoginResponse{SetCookie: cookie}
	res.Body.Role = string(auth.RoleUser)
	res.Body.Account = account
	res.Body.RecordID = rec.ID
	return res, nil
}

type LogoutResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *SessionHandler) HandleLogout(ctx context.Context, input *struct{}) (*LogoutResponse, error) {
	res := &LogoutResponse{SetCookie: auth.ClearCookie()}
	res.Body.Message = "Logged out"
	return res, nil
}
