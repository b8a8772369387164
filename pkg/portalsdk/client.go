// Package portalsdk is a typed client for the DespachoLink API. It carries
// the DTO types shared by the server handlers and drives both the firm-side
// dashboard surface (cookie session) and the client-side portal surface
// (magic-link token).
package portalsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded into the uniform error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one DespachoLink deployment. The embedded cookie jar holds
// the firm session cookies after SignIn, so every subsequent dashboard call
// is authenticated the same way a browser would be.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, email, password string) (UserResponse, error) {
	var out UserResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", RegisterRequest{Email: email, Password: password}, &out)
	return out, err
}

// SignIn authenticates and stores the session cookies on the client's jar.
func (c *Client) SignIn(ctx context.Context, email, password, totpCode string) (UserResponse, error) {
	var out UserResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", SignInRequest{Email: email, Password: password, TOTPCode: totpCode}, &out)
	return out, err
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (UserResponse, error) {
	var out UserResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

// --- MFA ---

func (c *Client) EnrollTOTP(ctx context.Context) (TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/mfa/totp/enroll", nil, &out)
	return out, err
}

func (c *Client) VerifyTOTP(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/mfa/totp/verify", TOTPCodeRequest{Code: code}, nil)
}

func (c *Client) DisableTOTP(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/mfa/totp/disable", TOTPCodeRequest{Code: code}, nil)
}

// --- Templates ---

func (c *Client) CreateContractTemplate(ctx context.Context, name, fileName string, file []byte) (ContractTemplateResponse, error) {
	var out ContractTemplateResponse
	err := c.doMultipart(ctx, "/api/templates/contracts",
		map[string]string{"name": name},
		"file", fileName, file, &out)
	return out, err
}

func (c *Client) ListContractTemplates(ctx context.Context) ([]ContractTemplateResponse, error) {
	var out []ContractTemplateResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/templates/contracts", nil, &out)
	return out, err
}

func (c *Client) DeleteContractTemplate(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/templates/contracts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateQuestionnaire(ctx context.Context, name string, questions []string) (QuestionnaireResponse, error) {
	var out QuestionnaireResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/templates/questionnaires", QuestionnaireCreateRequest{Name: name, Questions: questions}, &out)
	return out, err
}

func (c *Client) ListQuestionnaires(ctx context.Context) ([]QuestionnaireResponse, error) {
	var out []QuestionnaireResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/templates/questionnaires", nil, &out)
	return out, err
}

func (c *Client) GetQuestionnaire(ctx context.Context, id string) (QuestionnaireResponse, error) {
	var out QuestionnaireResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/templates/questionnaires/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) DeleteQuestionnaire(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/templates/questionnaires/"+url.PathEscape(id), nil, nil)
}

// --- Profile ---

func (c *Client) GetProfile(ctx context.Context) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/profile", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, firmName, calendarLink string) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/profile", ProfileUpdateRequest{FirmName: firmName, CalendarLink: calendarLink}, &out)
	return out, err
}

func (c *Client) UploadLogo(ctx context.Context, fileName string, file []byte) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.doMultipart(ctx, "/api/profile/logo", nil, "file", fileName, file, &out)
	return out, err
}

// --- Case files ---

func (c *Client) CreateClient(ctx context.Context, req ClientCreateRequest) (ClientResponse, error) {
	var out ClientResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/clients", req, &out)
	return out, err
}

func (c *Client) ListClients(ctx context.Context) ([]ClientResponse, error) {
	var out []ClientResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/clients", nil, &out)
	return out, err
}

func (c *Client) GetExpediente(ctx context.Context, clientID string) (ExpedienteResponse, error) {
	var out ExpedienteResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/clients/"+url.PathEscape(clientID), nil, &out)
	return out, err
}

func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/clients/"+url.PathEscape(clientID), nil, nil)
}

// --- Portal ---

func (c *Client) PortalState(ctx context.Context, token string) (PortalStateResponse, error) {
	var out PortalStateResponse
	err := c.doJSON(ctx, http.MethodGet, c.portalPath(token, ""), nil, &out)
	return out, err
}

func (c *Client) SignContract(ctx context.Context, token, signatureData string) (PortalStateResponse, error) {
	var out PortalStateResponse
	err := c.doJSON(ctx, http.MethodPost, c.portalPath(token, "/sign"), SignContractRequest{SignatureData: signatureData}, &out)
	return out, err
}

func (c *Client) SubmitAnswers(ctx context.Context, token string, answers []AnswerSubmission) (PortalStateResponse, error) {
	var out PortalStateResponse
	err := c.doJSON(ctx, http.MethodPost, c.portalPath(token, "/answers"), SubmitAnswersRequest{Answers: answers}, &out)
	return out, err
}

func (c *Client) UploadDocument(ctx context.Context, token, documentType, fileName string, file []byte) (PortalStateResponse, error) {
	var out PortalStateResponse
	err := c.doMultipart(ctx, c.portalPath(token, "/documents"),
		map[string]string{"document_type": documentType},
		"file", fileName, file, &out)
	return out, err
}

func (c *Client) CompleteProcess(ctx context.Context, token string) (PortalStateResponse, error) {
	var out PortalStateResponse
	err := c.doJSON(ctx, http.MethodPost, c.portalPath(token, "/complete"), nil, &out)
	return out, err
}

func (c *Client) portalPath(token, suffix string) string {
	return "/api/portal/" + url.PathEscape(token) + suffix
}

// --- Payments ---

func (c *Client) CreateOrder(ctx context.Context, amount string) (OrderResponse, error) {
	var out OrderResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/payments/create-order", CreateOrderRequest{Amount: amount}, &out)
	return out, err
}

func (c *Client) CaptureOrder(ctx context.Context, orderID string) (OrderResponse, error) {
	var out OrderResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/payments/capture-order", CaptureOrderRequest{OrderID: orderID}, &out)
	return out, err
}

// --- Health ---

func (c *Client) Livez(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/livez", nil, nil)
}

// --- plumbing ---

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(file); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
