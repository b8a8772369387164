package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// Uploads are bounded; contract PDFs and identity documents are small.
const maxUploadBytes = 10 << 20

// TemplatesHandler covers contract and questionnaire template management.
type TemplatesHandler struct {
	TemplateService *service.TemplateService
}

func toContractResponse(t domain.ContractTemplate) portalsdk.ContractTemplateResponse {
	return portalsdk.ContractTemplateResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func toQuestionnaireResponse(t domain.QuestionnaireTemplate, questions []domain.Question) portalsdk.QuestionnaireResponse {
	return portalsdk.QuestionnaireResponse{
		ID:        t.ID,
		Name:      t.Name,
		Questions: toQuestionResponses(questions),
		CreatedAt: t.CreatedAt,
	}
}

// readUpload pulls one bounded multipart file field.
func readUpload(r *http.Request, field string) (fileName string, data []byte, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// HandleCreateContract handles POST /api/templates/contracts
//
//	@Summary		Upload a contract template
//	@Description	Stores a reusable contract document. Multipart form: "name" field plus "file".
//	@Tags			Templates
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name	formData	string	true	"Template name"
//	@Param			file	formData	file	true	"Contract document"
//	@Success		201		{object}	portalsdk.ContractTemplateResponse	"Created template"
//	@Failure		400		{object}	portalsdk.ErrorResponse				"Missing name or file"
//	@Router			/api/templates/contracts [post].
func (h *TemplatesHandler) HandleCreateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	fileName, data, err := readUpload(r, "file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "file upload is required")
		return
	}

	tmpl, err := h.TemplateService.CreateContractTemplate(r.Context(), id, r.FormValue("name"), fileName, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContractResponse(tmpl))
}

// HandleListContracts handles GET /api/templates/contracts
//
//	@Summary	List contract templates
//	@Tags		Templates
//	@Produce	json
//	@Success	200	{array}	portalsdk.ContractTemplateResponse	"Templates, newest first"
//	@Router		/api/templates/contracts [get].
func (h *TemplatesHandler) HandleListContracts(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	templates, err := h.TemplateService.ListContractTemplates(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]portalsdk.ContractTemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toContractResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleContractFile handles GET /api/templates/contracts/{id}/file
//
//	@Summary	Download a contract template document
//	@Tags		Templates
//	@Produce	application/octet-stream
//	@Param		id	path	string	true	"Template ID"
//	@Success	200	"Document bytes"
//	@Failure	404	{object}	portalsdk.ErrorResponse	"Unknown template"
//	@Router		/api/templates/contracts/{id}/file [get].
func (h *TemplatesHandler) HandleContractFile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	_, data, err := h.TemplateService.ContractTemplateFile(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// HandleDeleteContract handles DELETE /api/templates/contracts/{id}
//
//	@Summary	Delete a contract template
//	@Tags		Templates
//	@Param		id	path	string	true	"Template ID"
//	@Success	204	"Deleted"
//	@Failure	404	{object}	portalsdk.ErrorResponse	"Unknown template"
//	@Router		/api/templates/contracts/{id} [delete].
func (h *TemplatesHandler) HandleDeleteContract(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.TemplateService.DeleteContractTemplate(r.Context(), id, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateQuestionnaire handles POST /api/templates/questionnaires
//
//	@Summary		Create a questionnaire template
//	@Description	Creates a questionnaire with its ordered questions in one call.
//	@Tags			Templates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.QuestionnaireCreateRequest	true	"Name and questions"
//	@Success		201		{object}	portalsdk.QuestionnaireResponse			"Created questionnaire"
//	@Failure		400		{object}	portalsdk.ErrorResponse					"Missing name or questions"
//	@Router			/api/templates/questionnaires [post].
func (h *TemplatesHandler) HandleCreateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req portalsdk.QuestionnaireCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tmpl, questions, err := h.TemplateService.CreateQuestionnaireTemplate(r.Context(), id, req.Name, req.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toQuestionnaireResponse(tmpl, questions))
}

// HandleListQuestionnaires handles GET /api/templates/questionnaires
//
//	@Summary	List questionnaire templates
//	@Tags		Templates
//	@Produce	json
//	@Success	200	{array}	portalsdk.QuestionnaireResponse	"Templates, newest first"
//	@Router		/api/templates/questionnaires [get].
func (h *TemplatesHandler) HandleListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	templates, err := h.TemplateService.ListQuestionnaireTemplates(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]portalsdk.QuestionnaireResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toQuestionnaireResponse(t, nil))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGetQuestionnaire handles GET /api/templates/questionnaires/{id}
//
//	@Summary	Get a questionnaire with its questions
//	@Tags		Templates
//	@Produce	json
//	@Param		id	path		string							true	"Template ID"
//	@Success	200	{object}	portalsdk.QuestionnaireResponse	"Questionnaire"
//	@Failure	404	{object}	portalsdk.ErrorResponse			"Unknown template"
//	@Router		/api/templates/questionnaires/{id} [get].
func (h *TemplatesHandler) HandleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tmpl, questions, err := h.TemplateService.GetQuestionnaireTemplate(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toQuestionnaireResponse(tmpl, questions))
}

// HandleDeleteQuestionnaire handles DELETE /api/templates/questionnaires/{id}
//
//	@Summary	Delete a questionnaire template
//	@Tags		Templates
//	@Param		id	path	string	true	"Template ID"
//	@Success	204	"Deleted"
//	@Failure	404	{object}	portalsdk.ErrorResponse	"Unknown template"
//	@Router		/api/templates/questionnaires/{id} [delete].
func (h *TemplatesHandler) HandleDeleteQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.TemplateService.DeleteQuestionnaireTemplate(r.Context(), id, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
