package http

import (
	"context"
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/internal/expediente/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) *service.SessionService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	return &service.SessionService{
		Store:      st,
		Issuer:     "despacholink",
		SigningKey: priv,
		VerifyKey:  pub,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	}
}

func TestSessionMiddleware(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t)

	user, err := sessions.Register(ctx, "firm@example.com", "correct-horse")
	require.NoError(t, err)
	_, pair, err := sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)

	var seenUserID string
	handler := SessionMiddleware(sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = userID(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid access cookie passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: accessCookie, Value: pair.AccessToken})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, user.ID, seenUserID)
	})

	t.Run("no cookies is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh cookie re-mints the session inline", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookie, Value: pair.RefreshToken})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, user.ID, seenUserID)

		// Rotation issued fresh cookies on the response.
		cookies := rec.Result().Cookies()
		byName := map[string]string{}
		for _, c := range cookies {
			byName[c.Name] = c.Value
		}
		require.NotEmpty(t, byName[accessCookie])
		require.NotEmpty(t, byName[refreshCookie])
		require.NotEqual(t, pair.RefreshToken, byName[refreshCookie])

		// The presented refresh token was consumed by the rotation.
		req2 := httptest.NewRequest(http.MethodGet, "/", nil)
		req2.AddCookie(&http.Cookie{Name: refreshCookie, Value: pair.RefreshToken})
		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec2, req2)
		require.Equal(t, http.StatusUnauthorized, rec2.Code)
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: accessCookie, Value: "garbage"})
		req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "garbage"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
