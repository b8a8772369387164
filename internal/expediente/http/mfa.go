package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
)

// MFAHandler covers TOTP enrollment for firm accounts.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /api/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Stages a TOTP secret and returns the provisioning URL. MFA stays off until verified.
//	@Tags			MFA
//	@Produce		json
//	@Success		200	{object}	portalsdk.TOTPEnrollResponse	"Secret and provisioning URL"
//	@Failure		401	{object}	portalsdk.ErrorResponse			"Not signed in"
//	@Failure		409	{object}	portalsdk.ErrorResponse			"MFA already enabled"
//	@Router			/api/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, portalsdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		URL:     enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /api/mfa/totp/verify
//
//	@Summary		Verify TOTP and enable MFA
//	@Description	Checks the first code against the staged secret and turns MFA on.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Param			request	body	portalsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204		"MFA enabled"
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Invalid code or not enrolled"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"Not signed in"
//	@Router			/api/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req portalsdk.TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.MFAService.VerifyTOTP(r.Context(), id, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles POST /api/mfa/totp/disable
//
//	@Summary		Disable MFA
//	@Description	Removes TOTP after a final code check.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Param			request	body	portalsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204		"MFA disabled"
//	@Failure		400		{object}	portalsdk.ErrorResponse	"Invalid code"
//	@Failure		409		{object}	portalsdk.ErrorResponse	"MFA not enabled"
//	@Router			/api/mfa/totp/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req portalsdk.TOTPCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.MFAService.DisableTOTP(r.Context(), id, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
