package http

import (
	"context"
	"crypto/ed25519"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"

	"github.com/despacholink/expediente/internal/expediente/feed"
	"github.com/despacholink/expediente/internal/expediente/paypal"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/internal/expediente/store/drivers/sqlite"
	"github.com/despacholink/expediente/pkg/blob"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	fs, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	bus := feed.NewBus()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter("test", st, logger)
	router.SessionService = &service.SessionService{
		Store:      st,
		Issuer:     "despacholink",
		SigningKey: priv,
		VerifyKey:  pub,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
	router.MFAService = &service.MFAService{Store: st, Issuer: "DespachoLink"}
	router.ClientService = &service.ClientService{Store: st, Blob: fs, Feed: bus, PortalOrigin: "https://portal.test"}
	router.TemplateSvc = &service.TemplateService{Store: st, Blob: fs}
	router.ProfileService = &service.ProfileService{Store: st, Blob: fs}
	router.PortalService = &service.PortalService{Store: st, Blob: fs, Feed: bus}
	router.Payments = paypal.New("http://127.0.0.1:0", "unused", "unused")
	router.Feed = bus
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// seedCaseFile registers a firm, uploads templates and opens a case file.
// Returns the signed-in SDK client, the case file and its magic-link token.
func seedCaseFile(t *testing.T, srv *httptest.Server) (*portalsdk.Client, portalsdk.ClientResponse) {
	t.Helper()
	ctx := context.Background()

	firm := portalsdk.NewClient(srv.URL)
	_, err := firm.Register(ctx, "firm@example.com", "correct-horse")
	require.NoError(t, err)

	contract, err := firm.CreateContractTemplate(ctx, "Servicios Legales", "contrato.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	questionnaire, err := firm.CreateQuestionnaire(ctx, "Intake", []string{"Nombre completo?", "Estado civil?"})
	require.NoError(t, err)

	caseFile, err := firm.CreateClient(ctx, portalsdk.ClientCreateRequest{
		ClientName:              "Maria Lopez",
		CaseName:                "Divorcio Lopez",
		ContractTemplateID:      contract.ID,
		QuestionnaireTemplateID: questionnaire.ID,
		RequiredDocuments:       []string{"ine", "rfc"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, caseFile.MagicLink)

	return firm, caseFile
}

// tokenFromLink strips the portal origin prefix off a magic link.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	const prefix = "https://portal.test/portal/"
	require.Contains(t, link, prefix)
	return link[len(prefix):]
}

func TestAuthSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	sdk := portalsdk.NewClient(srv.URL)

	// Protected endpoint before sign-in.
	_, err := sdk.Me(ctx)
	var apiErr *portalsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	user, err := sdk.Register(ctx, "firm@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "firm@example.com", user.Email)

	// Registration set the session cookies.
	me, err := sdk.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	require.NoError(t, sdk.SignOut(ctx))
	_, err = sdk.Me(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = sdk.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)
	_, err = sdk.Me(ctx)
	require.NoError(t, err)

	// Bad credentials.
	fresh := portalsdk.NewClient(srv.URL)
	_, err = fresh.SignIn(ctx, "firm@example.com", "wrong", "")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestOnboardingFlowOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	firm, caseFile := seedCaseFile(t, srv)
	token := tokenFromLink(t, caseFile.MagicLink)

	// The portal side needs no session.
	visitor := portalsdk.NewClient(srv.URL)

	state, err := visitor.PortalState(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "contract", state.Step)
	require.Equal(t, "Maria Lopez", state.ClientName)
	require.Len(t, state.Questions, 2)

	state, err = visitor.SignContract(ctx, token, "data:image/png;base64,firma")
	require.NoError(t, err)
	require.Equal(t, "questionnaire", state.Step)
	require.True(t, state.Signed)

	var answers []portalsdk.AnswerSubmission
	for _, q := range state.Questions {
		answers = append(answers, portalsdk.AnswerSubmission{QuestionID: q.ID, AnswerText: "respuesta"})
	}
	state, err = visitor.SubmitAnswers(ctx, token, answers)
	require.NoError(t, err)
	require.Equal(t, "documents", state.Step)

	// Completion blocked until both documents are in.
	_, err = visitor.CompleteProcess(ctx, token)
	var apiErr *portalsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	_, err = visitor.UploadDocument(ctx, token, "ine", "ine.jpg", []byte("jpeg"))
	require.NoError(t, err)
	state, err = visitor.UploadDocument(ctx, token, "rfc", "rfc.pdf", []byte("pdf"))
	require.NoError(t, err)
	require.Empty(t, state.MissingDocuments)

	state, err = visitor.CompleteProcess(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "done", state.Step)

	// The consumed link is rejected from now on.
	_, err = visitor.PortalState(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// The firm-side dossier shows the finished expediente.
	exp, err := firm.GetExpediente(ctx, caseFile.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", exp.Client.Status)
	require.NotNil(t, exp.Signature)
	require.NotEmpty(t, exp.Signature.Hash)
	require.Len(t, exp.Answers, 2)
	require.Len(t, exp.Documents, 2)
}

func TestPortalErrorMapping(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	visitor := portalsdk.NewClient(srv.URL)

	var apiErr *portalsdk.APIError

	_, err := visitor.PortalState(ctx, "unknown-token")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, caseFile := seedCaseFile(t, srv)
	token := tokenFromLink(t, caseFile.MagicLink)

	_, err = visitor.SignContract(ctx, token, "")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	_, err = visitor.CompleteProcess(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestCrossTenantIsolationOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	_, caseFile := seedCaseFile(t, srv)

	intruder := portalsdk.NewClient(srv.URL)
	_, err := intruder.Register(ctx, "intrusa@example.com", "correct-horse")
	require.NoError(t, err)

	var apiErr *portalsdk.APIError
	_, err = intruder.GetExpediente(ctx, caseFile.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	err = intruder.DeleteClient(ctx, caseFile.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	list, err := intruder.ListClients(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestFeedStreamsClientEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := newTestServer(t)

	firm := portalsdk.NewClient(srv.URL)
	_, err := firm.Register(ctx, "firm@example.com", "correct-horse")
	require.NoError(t, err)

	// Dial the feed with the firm's session cookies.
	conn, _, err := websocket.Dial(ctx, srv.URL+"/api/feed", &websocket.DialOptions{
		HTTPClient: firm.HTTPClient,
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	contract, err := firm.CreateContractTemplate(ctx, "Contrato", "c.pdf", []byte("pdf"))
	require.NoError(t, err)
	questionnaire, err := firm.CreateQuestionnaire(ctx, "Intake", []string{"Pregunta?"})
	require.NoError(t, err)

	caseFile, err := firm.CreateClient(ctx, portalsdk.ClientCreateRequest{
		ClientName:              "Maria Lopez",
		CaseName:                "Divorcio",
		ContractTemplateID:      contract.ID,
		QuestionnaireTemplateID: questionnaire.ID,
		RequiredDocuments:       []string{"ine"},
	})
	require.NoError(t, err)

	var evt portalsdk.FeedEvent
	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	require.Equal(t, feed.EventClientCreated, evt.Type)
	require.Equal(t, caseFile.ID, evt.ClientID)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}
