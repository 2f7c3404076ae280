package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/meibo/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour
)

type Role string

const (
	RoleFull    Role = "full"
	RoleLimited Role = "limited"
	RoleUser    Role = "user"
)

// IsAdmin reports whether the role belongs to one of the admin identities.
func (r Role) IsAdmin() bool {
	return r == RoleFull || r == RoleLimited
}

var ErrUnauthenticated = errors.New("no valid session")

// Session is what a signed cookie carries. Subject is the admin user name
// or, for users, the record id.
type Session struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

type AuthHandler struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg, now: time.Now}
}

// AuthInput is embedded by operations that need a session.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

func (h *AuthHandler) GenerateToken(subject string, role Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"exp":  h.now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Cookie wraps a fresh token for subject in the session cookie.
func (h *AuthHandler) Cookie(subject string, role Role) (http.Cookie, error) {
	token, err := h.GenerateToken(subject, role)
	if err != nil {
		return http.Cookie{}, err
	}
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  h.now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie expires the session cookie.
func ClearCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	}
}

// ParseToken validates a signed token and returns its session.
func (h *AuthHandler) ParseToken(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid {
		return Session{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	exp, err := claims.GetExpirationTime()
	if sub == "" || role == "" || err != nil || exp == nil {
		return Session{}, ErrUnauthenticated
	}
	return Session{Subject: sub, Role: Role(role), ExpiresAt: exp.Time}, nil
}

// Authorize reads the session out of a raw Cookie header.
func (h *AuthHandler) Authorize(cookieHeader string) (Session, error) {
	if cookieHeader == "" {
		return Session{}, ErrUnauthenticated
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return h.ParseToken(c.Value)
		}
	}
	return Session{}, ErrUnauthenticated
}

// session prefers what SessionMiddleware attached and falls back to the
// Cookie header for callers outside the router.
func (h *AuthHandler) session(ctx context.Context, input AuthInput) (Session, error) {
	if s, ok := SessionFromContext(ctx); ok {
		return s, nil
	}
	return h.Authorize(input.Cookie)
}

// RequireAdmin returns the session when it belongs to an admin. With full
// set only the full admin passes.
func (h *AuthHandler) RequireAdmin(ctx context.Context, input AuthInput, full bool) (Session, error) {
	s, err := h.session(ctx, input)
	if err != nil {
		return Session{}, huma.Error401Unauthorized("Unauthorized")
	}
	if !s.Role.IsAdmin() || (full && s.Role != RoleFull) {
		return Session{}, huma.Error403Forbidden("Forbidden")
	}
	return s, nil
}

// RequireUser returns the session of a logged-in registrant.
func (h *AuthHandler) RequireUser(ctx context.Context, input AuthInput) (Session, error) {
	s, err := h.session(ctx, input)
	if err != nil {
		return Session{}, huma.Error401Unauthorized("Unauthorized")
	}
	if s.Role != RoleUser {
		return Session{}, huma.Error403Forbidden("Forbidden")
	}
	return s, nil
}
