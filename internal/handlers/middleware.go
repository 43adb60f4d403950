package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/inkwell-blog/appserver/internal/services"
	"github.com/inkwell-blog/appserver/types"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "blog_session"

type contextKey string

const contextIdentityKey contextKey = "identity"

// LoadIdentity resolves the session cookie into an explicit Identity and
// stores it in the request context. Requests without a valid session carry
// the anonymous identity; request handling never depends on ambient
// current-user state.
func LoadIdentity(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := types.Anonymous()

			if cookie, err := r.Cookie(SessionCookie); err == nil {
				resolved, err := auth.Identify(r.Context(), cookie.Value)
				if err != nil {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				identity = resolved
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the caller identity stored by LoadIdentity,
// or the anonymous identity when none is present.
func IdentityFromContext(ctx context.Context) types.Identity {
	if identity, ok := ctx.Value(contextIdentityKey).(types.Identity); ok {
		return identity
	}
	return types.Anonymous()
}

// RequireUser redirects anonymous callers to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()).IsAnonymous() {
			redirectWithFlash(w, r, "/login", "You need to login or register to comment.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects every caller but the admin with a 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
