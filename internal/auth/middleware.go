package auth

import (
	"context"
	"net/http"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}

// SessionMiddleware attaches a valid session to the request context and
// slides it: a token past half its lifetime is reissued. Requests without a
// session pass through untouched; operations decide what they require.
func (h *AuthHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := h.ParseToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if session.ExpiresAt.Sub(h.now()) < TokenDuration/2 {
			if fresh, err := h.Cookie(session.Subject, session.Role); err == nil {
				http.SetCookie(w, &fresh)
			}
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
