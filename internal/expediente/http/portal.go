package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// PortalHandler covers the client-facing magic-link flow. No session is
// involved; the token in the path is the whole credential.
type PortalHandler struct {
	PortalService *service.PortalService
}

// HandleState handles GET /api/portal/{token}
//
//	@Summary		Resolve a magic link
//	@Description	Validates the token and returns the portal state at the derived step.
//	@Tags			Portal
//	@Produce		json
//	@Param			token	path		string							true	"Magic link token"
//	@Success		200		{object}	portalsdk.PortalStateResponse	"Portal state"
//	@Failure		403		{object}	portalsdk.ErrorResponse			"Link already used"
//	@Failure		404		{object}	portalsdk.ErrorResponse			"Unknown token"
//	@Router			/api/portal/{token} [get].
func (h *PortalHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.PortalService.ValidateToken(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toPortalState(bundle))
}

// HandleContractFile handles GET /api/portal/{token}/contract
//
//	@Summary	Download the contract to be signed
//	@Tags		Portal
//	@Produce	application/octet-stream
//	@Param		token	path	string	true	"Magic link token"
//	@Success	200		"Contract bytes"
//	@Failure	403		{object}	portalsdk.ErrorResponse	"Link already used"
//	@Failure	404		{object}	portalsdk.ErrorResponse	"Unknown token"
//	@Router		/api/portal/{token}/contract [get].
func (h *PortalHandler) HandleContractFile(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.PortalService.ContractFile(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// HandleSign handles POST /api/portal/{token}/sign
//
//	@Summary		Sign the contract
//	@Description	Records the signature with a server-side timestamp, the origin IP and the evidence hash.
//	@Tags			Portal
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Magic link token"
//	@Param			request	body		portalsdk.SignContractRequest	true	"Signature image data"
//	@Success		200		{object}	portalsdk.PortalStateResponse	"Portal state after signing"
//	@Failure		400		{object}	portalsdk.ErrorResponse			"Missing signature data"
//	@Failure		403		{object}	portalsdk.ErrorResponse			"Link already used"
//	@Router			/api/portal/{token}/sign [post].
func (h *PortalHandler) HandleSign(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.SignContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	bundle, err := h.PortalService.SignContract(r.Context(), r.PathValue("token"), req.SignatureData, httpx.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPortalState(bundle))
}

// HandleAnswers handles POST /api/portal/{token}/answers
//
//	@Summary		Submit questionnaire answers
//	@Description	Stores a batch of answers atomically. Every question must belong to the case file's questionnaire.
//	@Tags			Portal
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Magic link token"
//	@Param			request	body		portalsdk.SubmitAnswersRequest	true	"Answers"
//	@Success		200		{object}	portalsdk.PortalStateResponse	"Portal state after submission"
//	@Failure		400		{object}	portalsdk.ErrorResponse			"Empty batch or unknown question"
//	@Failure		403		{object}	portalsdk.ErrorResponse			"Link already used"
//	@Router			/api/portal/{token}/answers [post].
func (h *PortalHandler) HandleAnswers(w http.ResponseWriter, r *http.Request) {
	var req portalsdk.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{QuestionID: a.QuestionID, AnswerText: a.AnswerText})
	}

	bundle, err := h.PortalService.SubmitAnswers(r.Context(), r.PathValue("token"), answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPortalState(bundle))
}

// HandleUploadDocument handles POST /api/portal/{token}/documents
//
//	@Summary		Upload a required document
//	@Description	Multipart form: "document_type" field plus "file". Re-uploads of the same type are allowed.
//	@Tags			Portal
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			token			path		string							true	"Magic link token"
//	@Param			document_type	formData	string							true	"Required document type"
//	@Param			file			formData	file							true	"Document file"
//	@Success		200				{object}	portalsdk.PortalStateResponse	"Portal state after upload"
//	@Failure		400				{object}	portalsdk.ErrorResponse			"Unknown or unrequired document type"
//	@Failure		403				{object}	portalsdk.ErrorResponse			"Link already used"
//	@Router			/api/portal/{token}/documents [post].
func (h *PortalHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := readUpload(r, "file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "file upload is required")
		return
	}

	bundle, err := h.PortalService.UploadDocument(r.Context(), r.PathValue("token"),
		domain.DocumentType(r.FormValue("document_type")), fileName, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPortalState(bundle))
}

// HandleComplete handles POST /api/portal/{token}/complete
//
//	@Summary		Complete the onboarding
//	@Description	Finalizes the case file and consumes the magic link. Requires a signed contract and full document coverage.
//	@Tags			Portal
//	@Produce		json
//	@Param			token	path		string							true	"Magic link token"
//	@Success		200		{object}	portalsdk.PortalStateResponse	"Terminal portal state"
//	@Failure		403		{object}	portalsdk.ErrorResponse			"Link already used"
//	@Failure		409		{object}	portalsdk.ErrorResponse			"Unsigned contract or missing documents"
//	@Router			/api/portal/{token}/complete [post].
func (h *PortalHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.PortalService.CompleteProcess(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPortalState(bundle))
}
