package http

import (
	"errors"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// writeServiceError maps service sentinel errors onto the HTTP surface.
// Unknown errors become an opaque 500; details stay in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrLogoNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrLinkAlreadyUsed):
		httpx.WriteError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidPortalRequest),
		errors.Is(err, service.ErrInvalidClientRequest),
		errors.Is(err, service.ErrInvalidTemplateRequest),
		errors.Is(err, service.ErrInvalidSignupRequest),
		errors.Is(err, service.ErrInvalidDocumentType),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, service.ErrInvalidTOTPCode),
		errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrContractUnsigned),
		errors.Is(err, service.ErrDocumentsIncomplete),
		errors.Is(err, service.ErrEmailAlreadyRegistered),
		errors.Is(err, service.ErrMFAAlreadyEnabled),
		errors.Is(err, service.ErrMFANotEnabled):
		httpx.WriteError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMFACodeRequired),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrInvalidAccessToken):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())

	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func docTypeStrings(types []domain.DocumentType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func toUserResponse(u domain.User) portalsdk.UserResponse {
	return portalsdk.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		MFAEnabled: u.MFAEnabled != nil,
		CreatedAt:  u.CreatedAt,
	}
}

func toClientResponse(c domain.Client, magicLink string) portalsdk.ClientResponse {
	return portalsdk.ClientResponse{
		ID:                c.ID,
		ClientName:        c.ClientName,
		CaseName:          c.CaseName,
		Status:            string(c.Status),
		MagicLink:         magicLink,
		LinkUsed:          c.LinkUsed,
		RequiredDocuments: docTypeStrings(c.RequiredDocuments),
		CompletedAt:       c.CompletedAt,
		CreatedAt:         c.CreatedAt,
	}
}

func toQuestionResponses(questions []domain.Question) []portalsdk.QuestionResponse {
	out := make([]portalsdk.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, portalsdk.QuestionResponse{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			OrderIndex:   q.OrderIndex,
		})
	}
	return out
}

func toAnswerResponses(answers []domain.ClientAnswer) []portalsdk.AnswerResponse {
	out := make([]portalsdk.AnswerResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, portalsdk.AnswerResponse{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			OrderIndex:   a.OrderIndex,
			AnswerText:   a.AnswerText,
			CreatedAt:    a.CreatedAt,
		})
	}
	return out
}

func toDocumentResponses(docs []domain.ClientDocument) []portalsdk.DocumentResponse {
	out := make([]portalsdk.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, portalsdk.DocumentResponse{
			ID:           d.ID,
			DocumentType: string(d.DocumentType),
			FileName:     d.FileName,
			UploadedAt:   d.UploadedAt,
		})
	}
	return out
}

// toPortalState renders the client-facing bundle. It deliberately omits the
// magic-link token, the firm user's identity, and the signature image.
func toPortalState(b service.PortalBundle) portalsdk.PortalStateResponse {
	return portalsdk.PortalStateResponse{
		Step:              string(b.Step),
		ClientName:        b.Client.ClientName,
		CaseName:          b.Client.CaseName,
		FirmName:          b.Profile.FirmName,
		CalendarLink:      b.Profile.CalendarLink,
		ContractName:      b.ContractName,
		Signed:            b.Client.Signed(),
		Questions:         toQuestionResponses(b.Questions),
		Answers:           toAnswerResponses(b.Answers),
		Documents:         toDocumentResponses(b.Documents),
		RequiredDocuments: docTypeStrings(b.Client.RequiredDocuments),
		MissingDocuments:  docTypeStrings(b.MissingDocuments),
		AnsweredQuestions: b.AnsweredQuestions,
	}
}

func toExpedienteResponse(exp service.Expediente, magicLink string) portalsdk.ExpedienteResponse {
	resp := portalsdk.ExpedienteResponse{
		Client:            toClientResponse(exp.Client, magicLink),
		Step:              string(exp.Step),
		Answers:           toAnswerResponses(exp.Answers),
		Documents:         toDocumentResponses(exp.Documents),
		TotalQuestions:    exp.TotalQuestions,
		AnsweredQuestions: exp.AnsweredQuestions,
		MissingDocuments:  docTypeStrings(exp.MissingDocuments),
	}
	if exp.Client.Signed() {
		resp.Signature = &portalsdk.SignatureResponse{
			Timestamp: exp.Client.SignatureTimestamp,
			IP:        exp.Client.SignatureIP,
			Hash:      exp.Client.SignatureHash,
		}
	}
	return resp
}

func toProfileResponse(p domain.Profile) portalsdk.ProfileResponse {
	return portalsdk.ProfileResponse{
		FirmName:     p.FirmName,
		CalendarLink: p.CalendarLink,
		HasLogo:      p.FirmLogoKey != "",
	}
}
