package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// ClientsHandler covers firm-side case file management.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleCreate handles POST /api/clients
//
//	@Summary		Open a case file
//	@Description	Creates a case file and mints its single-use magic link. The link is returned for delivery to the client.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.ClientCreateRequest	true	"Case file fields"
//	@Success		201		{object}	portalsdk.ClientResponse		"Created case file with magic link"
//	@Failure		400		{object}	portalsdk.ErrorResponse			"Invalid fields or document types"
//	@Failure		404		{object}	portalsdk.ErrorResponse			"Unknown template"
//	@Router			/api/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req portalsdk.ClientCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	required := make([]domain.DocumentType, 0, len(req.RequiredDocuments))
	for _, t := range req.RequiredDocuments {
		required = append(required, domain.DocumentType(t))
	}

	client, link, err := h.ClientService.CreateClient(r.Context(), id, service.CreateClientInput{
		ClientName:              req.ClientName,
		CaseName:                req.CaseName,
		ContractTemplateID:      req.ContractTemplateID,
		QuestionnaireTemplateID: req.QuestionnaireTemplateID,
		RequiredDocuments:       required,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toClientResponse(client, link))
}

// HandleList handles GET /api/clients
//
//	@Summary	List case files
//	@Tags		Clients
//	@Produce	json
//	@Success	200	{array}	portalsdk.ClientResponse	"Case files, newest first"
//	@Router		/api/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	clients, err := h.ClientService.ListClients(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]portalsdk.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c, h.ClientService.MagicLink(c.MagicLinkToken)))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleExpediente handles GET /api/clients/{id}
//
//	@Summary		Get a case file dossier
//	@Description	Returns the full expediente: signature evidence, ordered answers and uploads.
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		string							true	"Client ID"
//	@Success		200	{object}	portalsdk.ExpedienteResponse	"Dossier"
//	@Failure		404	{object}	portalsdk.ErrorResponse			"Unknown case file"
//	@Router			/api/clients/{id} [get].
func (h *ClientsHandler) HandleExpediente(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	exp, err := h.ClientService.GetExpediente(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	link := h.ClientService.MagicLink(exp.Client.MagicLinkToken)
	httpx.WriteJSON(w, http.StatusOK, toExpedienteResponse(exp, link))
}

// HandleDelete handles DELETE /api/clients/{id}
//
//	@Summary		Delete a case file
//	@Description	Removes the case file, its answers, documents and uploaded blobs.
//	@Tags			Clients
//	@Param			id	path	string	true	"Client ID"
//	@Success		204	"Deleted"
//	@Failure		404	{object}	portalsdk.ErrorResponse	"Unknown case file"
//	@Router			/api/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.ClientService.DeleteClient(r.Context(), id, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDocumentFile handles GET /api/clients/{id}/documents/{docID}
//
//	@Summary	Download an uploaded document
//	@Tags		Clients
//	@Produce	application/octet-stream
//	@Param		id		path	string	true	"Client ID"
//	@Param		docID	path	string	true	"Document ID"
//	@Success	200		"Document bytes"
//	@Failure	404		{object}	portalsdk.ErrorResponse	"Unknown case file or document"
//	@Router		/api/clients/{id}/documents/{docID} [get].
func (h *ClientsHandler) HandleDocumentFile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	doc, data, err := h.ClientService.DocumentFile(r.Context(), id, r.PathValue("id"), r.PathValue("docID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	_, _ = w.Write(data)
}
