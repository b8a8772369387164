package portal_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/despacholink/expediente/pkg/portalsdk"
)

// TestHealthEndpoints verifies the probes respond on a fresh container.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	sdk := portalsdk.NewClient(baseURL)
	require.NoError(t, sdk.Livez(t.Context()))
}

// TestFullOnboardingFlow walks the whole journey: the firm opens a case
// file, the client works through the portal, the firm reviews the finished
// expediente.
func TestFullOnboardingFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	firm := registerFirm(t, baseURL)

	_, err := firm.UpdateProfile(ctx, "Despacho Lopez y Asociados", "https://cal.example.com/lopez")
	require.NoError(t, err)

	caseFile, token := openCaseFile(t, firm, []string{"ine", "rfc"})

	// The client side carries no session, only the token.
	visitor := portalsdk.NewClient(baseURL)

	state, err := visitor.PortalState(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "contract", state.Step)
	require.Equal(t, "Maria Lopez", state.ClientName)
	require.Equal(t, "Despacho Lopez y Asociados", state.FirmName)
	require.Len(t, state.Questions, 3)
	require.False(t, state.Signed)

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
	require.Equal(t, 3, state.AnsweredQuestions)

	_, err = visitor.UploadDocument(ctx, token, "ine", "ine.jpg", []byte("jpeg bytes"))
	require.NoError(t, err)
	state, err = visitor.UploadDocument(ctx, token, "rfc", "rfc.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	require.Empty(t, state.MissingDocuments)

	state, err = visitor.CompleteProcess(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "done", state.Step)

	// The link is single use.
	_, err = visitor.PortalState(ctx, token)
	var apiErr *portalsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// Firm-side dossier.
	exp, err := firm.GetExpediente(ctx, caseFile.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", exp.Client.Status)
	require.NotNil(t, exp.Signature)
	require.NotEmpty(t, exp.Signature.Hash)
	require.Len(t, exp.Answers, 3)
	require.Len(t, exp.Documents, 2)
}

// TestCompletionGates verifies completion is refused until the contract is
// signed and every required document is in.
func TestCompletionGates(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	firm := registerFirm(t, baseURL)
	_, token := openCaseFile(t, firm, []string{"ine"})

	visitor := portalsdk.NewClient(baseURL)
	var apiErr *portalsdk.APIError

	// Unsigned contract blocks completion.
	_, err := visitor.CompleteProcess(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	_, err = visitor.SignContract(ctx, token, "data:image/png;base64,firma")
	require.NoError(t, err)

	// Missing documents still block it.
	_, err = visitor.CompleteProcess(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	_, err = visitor.UploadDocument(ctx, token, "ine", "ine.jpg", []byte("jpeg"))
	require.NoError(t, err)

	state, err := visitor.CompleteProcess(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "done", state.Step)
}

// TestUnknownAndConsumedTokens verifies the portal token lifecycle over HTTP.
func TestUnknownAndConsumedTokens(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	visitor := portalsdk.NewClient(baseURL)
	var apiErr *portalsdk.APIError

	_, err := visitor.PortalState(ctx, "no-such-token")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	firm := registerFirm(t, baseURL)
	_, token := openCaseFile(t, firm, []string{"ine"})

	_, err = visitor.SignContract(ctx, token, "data:image/png;base64,firma")
	require.NoError(t, err)
	_, err = visitor.UploadDocument(ctx, token, "ine", "ine.jpg", []byte("jpeg"))
	require.NoError(t, err)
	_, err = visitor.CompleteProcess(ctx, token)
	require.NoError(t, err)

	// Every write on the consumed link is refused.
	_, err = visitor.SignContract(ctx, token, "data:image/png;base64,otra")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = visitor.UploadDocument(ctx, token, "ine", "otra.jpg", []byte("jpeg"))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = visitor.CompleteProcess(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

// TestMFAEnrollment exercises TOTP enrolment and a second-factor sign in.
func TestMFAEnrollment(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()
	ctx := t.Context()

	firm := registerFirm(t, baseURL)

	enrollment, err := firm.EnrollTOTP(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://")

	// The staged secret is not active yet, plain sign-in still works.
	other := portalsdk.NewClient(baseURL)
	_, err = other.SignIn(ctx, firmEmail, firmPassword, "")
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, firm.VerifyTOTP(ctx, code))

	// Now the second factor is mandatory.
	locked := portalsdk.NewClient(baseURL)
	var apiErr *portalsdk.APIError
	_, err = locked.SignIn(ctx, firmEmail, firmPassword, "")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	_, err = locked.SignIn(ctx, firmEmail, firmPassword, code)
	require.NoError(t, err)
}
