package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// ProfileHandler covers the firm's branding profile and logo.
type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// HandleGet handles GET /api/profile
//
//	@Summary	Get the firm profile
//	@Tags		Profile
//	@Produce	json
//	@Success	200	{object}	portalsdk.ProfileResponse	"Profile"
//	@Failure	401	{object}	portalsdk.ErrorResponse		"Not signed in"
//	@Router		/api/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleUpdate handles PUT /api/profile
//
//	@Summary	Update the firm profile
//	@Tags		Profile
//	@Accept		json
//	@Produce	json
//	@Param		request	body		portalsdk.ProfileUpdateRequest	true	"Firm name and calendar link"
//	@Success	200		{object}	portalsdk.ProfileResponse		"Updated profile"
//	@Router		/api/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req portalsdk.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := h.ProfileService.UpdateProfile(r.Context(), id, req.FirmName, req.CalendarLink)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleUploadLogo handles POST /api/profile/logo
//
//	@Summary	Upload the firm logo
//	@Tags		Profile
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file						true	"Logo image"
//	@Success	200		{object}	portalsdk.ProfileResponse	"Updated profile"
//	@Failure	400		{object}	portalsdk.ErrorResponse		"Missing file"
//	@Router		/api/profile/logo [post].
func (h *ProfileHandler) HandleUploadLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	_, data, err := readUpload(r, "file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "file upload is required")
		return
	}

	profile, err := h.ProfileService.UploadLogo(r.Context(), id, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleLogo handles GET /api/profile/logo
//
//	@Summary	Download the firm logo
//	@Tags		Profile
//	@Produce	application/octet-stream
//	@Success	200	"Logo bytes"
//	@Failure	404	{object}	portalsdk.ErrorResponse	"No logo uploaded"
//	@Router		/api/profile/logo [get].
func (h *ProfileHandler) HandleLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	data, err := h.ProfileService.LogoFile(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
