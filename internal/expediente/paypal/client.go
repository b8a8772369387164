// Package paypal is a minimal PayPal Orders v2 client covering exactly what
// the checkout flow needs: create an order and capture it. OAuth tokens are
// fetched with the client-credentials grant and cached until shortly before
// expiry.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	// DefaultAmount is the onboarding service fee in MXN.
	DefaultAmount   = "7999.00"
	DefaultCurrency = "MXN"
)

var ErrOrderNotCompleted = errors.New("paypal order was not completed")

type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTP         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTP:         &http.Client{Timeout: 15 * time.Second},
	}
}

// Order is the subset of the Orders v2 representation the flow consumes.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder opens a CAPTURE-intent order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, amount, currency string) (Order, error) {
	if amount == "" {
		amount = DefaultAmount
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": map[string]string{
				"currency_code": currency,
				"value":         amount,
			}},
		},
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// CaptureOrder captures a previously approved order. The order must come
// back COMPLETED for the payment to count.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (Order, error) {
	if orderID == "" {
		return Order{}, errors.New("order id is required")
	}

	var order Order
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &order); err != nil {
		return Order{}, err
	}
	if order.Status != "COMPLETED" {
		return order, ErrOrderNotCompleted
	}
	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("paypal returned %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// token returns a cached access token, refreshing it when within a minute
// of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token endpoint returned %d", resp.StatusCode)
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return "", err
	}
	if grant.AccessToken == "" {
		return "", errors.New("paypal token endpoint returned no access token")
	}

	c.accessToken = grant.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
