package http

import (
	"context"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/slogx"
)

const (
	accessCookie  = "access"
	refreshCookie = "refresh"
)

func setSessionCookies(w http.ResponseWriter, pair service.TokenPair, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// SessionMiddleware authenticates the firm session from cookies. A valid
// access token passes straight through; an expired one is transparently
// re-minted from the refresh cookie, rotating the session. Anything else
// gets a 401.
func SessionMiddleware(sessions *service.SessionService, secure bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(accessCookie); err == nil {
				if userID, err := sessions.VerifyAccess(cookie.Value); err == nil {
					next.ServeHTTP(w, withUserID(r, userID))
					return
				}
			}

			// Access token missing or stale; try the refresh cookie.
			cookie, err := r.Cookie(refreshCookie)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			pair, err := sessions.Refresh(r.Context(), cookie.Value)
			if err != nil {
				clearSessionCookies(w, secure)
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, err := sessions.VerifyAccess(pair.AccessToken)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			slogx.FromContext(r.Context()).Debug("session refreshed inline")
			setSessionCookies(w, pair, secure)
			next.ServeHTTP(w, withUserID(r, userID))
		})
	}
}

func withUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), httpx.CtxKeyUserID, userID))
}

// userID extracts the authenticated user set by SessionMiddleware.
func userID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(httpx.CtxKeyUserID).(string)
	return id, ok && id != ""
}
