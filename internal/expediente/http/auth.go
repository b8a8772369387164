package http

import (
	"encoding/json"
	"net/http"

	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/portalsdk"
	"github.com/despacholink/expediente/pkg/slogx"
)

// AuthHandler covers registration and the cookie session lifecycle.
type AuthHandler struct {
	SessionService *service.SessionService
	CookieSecure   bool
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Register a firm account
//	@Description	Creates a firm user and an empty branding profile, then signs the new user in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.RegisterRequest	true	"Email and password"
//	@Success		201		{object}	portalsdk.UserResponse		"Created account"
//	@Failure		400		{object}	portalsdk.ErrorResponse		"Invalid email or weak password"
//	@Failure		409		{object}	portalsdk.ErrorResponse		"Email already registered"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.SessionService.Register(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Sign the fresh account in so the dashboard loads without a second step.
	_, pair, err := h.SessionService.SignIn(ctx, req.Email, req.Password, "")
	if err != nil {
		log.Error("post-registration sign-in failed", "user_id", user.ID, "err", err)
		writeServiceError(w, err)
		return
	}

	setSessionCookies(w, pair, h.CookieSecure)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleSignIn handles POST /api/auth/signin
//
//	@Summary		Sign in
//	@Description	Verifies credentials (and a TOTP code when MFA is enabled) and sets the session cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	portalsdk.UserResponse	"Signed-in account"
//	@Failure		401		{object}	portalsdk.ErrorResponse	"Bad credentials or missing TOTP code"
//	@Router			/api/auth/signin [post].
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalsdk.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, pair, err := h.SessionService.SignIn(ctx, req.Email, req.Password, req.TOTPCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookies(w, pair, h.CookieSecure)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleSignOut handles POST /api/auth/signout
//
//	@Summary		Sign out
//	@Description	Revokes the refresh session and clears the cookies. Safe to repeat.
//	@Tags			Auth
//	@Produce		json
//	@Success		204	"Signed out"
//	@Router			/api/auth/signout [post].
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if cookie, err := r.Cookie(refreshCookie); err == nil {
		if err := h.SessionService.SignOut(ctx, cookie.Value); err != nil {
			log.Warn("sign-out failed to revoke session", "err", err)
		}
	}

	clearSessionCookies(w, h.CookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /api/auth/me
//
//	@Summary		Current account
//	@Description	Returns the authenticated firm account.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	portalsdk.UserResponse	"Account"
//	@Failure		401	{object}	portalsdk.ErrorResponse	"Not signed in"
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.SessionService.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
