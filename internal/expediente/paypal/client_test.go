package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		tokenCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("POST /v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				Amount map[string]string `json:"amount"`
			} `json:"purchase_units"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "CAPTURE", body.Intent)
		require.Equal(t, "MXN", body.PurchaseUnits[0].Amount["currency_code"])

		_ = json.NewEncoder(w).Encode(Order{ID: "ORDER-1", Status: "CREATED"})
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		status := "COMPLETED"
		if r.PathValue("id") == "ORDER-DECLINED" {
			status = "DECLINED"
		}
		_ = json.NewEncoder(w).Encode(Order{ID: r.PathValue("id"), Status: status})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func TestCreateAndCaptureOrder(t *testing.T) {
	ctx := context.Background()
	srv, tokenCalls := newTestServer(t)
	client := New(srv.URL, "client-id", "client-secret")

	order, err := client.CreateOrder(ctx, "", "")
	require.NoError(t, err)
	require.Equal(t, "ORDER-1", order.ID)

	captured, err := client.CaptureOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", captured.Status)

	// Both calls rode the same cached token.
	require.Equal(t, 1, *tokenCalls)
}

func TestCaptureOrderRejectsIncomplete(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestServer(t)
	client := New(srv.URL, "client-id", "client-secret")

	_, err := client.CaptureOrder(ctx, "ORDER-DECLINED")
	require.ErrorIs(t, err, ErrOrderNotCompleted)

	_, err = client.CaptureOrder(ctx, "")
	require.Error(t, err)
}
