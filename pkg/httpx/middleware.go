package httpx

import (
	"net"
	"net/http"
	"strings"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// CtxKey is the type for context values set by middleware.
type CtxKey string

// CtxKeyUserID carries the authenticated user's ID, set by the session
// middleware after verifying the access token.
const CtxKeyUserID CtxKey = "user_id"

// Chain applies middlewares to h so that the first middleware listed is the
// outermost, matching the order they appear at the call site.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// ClientIP returns the originating client address, honoring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
