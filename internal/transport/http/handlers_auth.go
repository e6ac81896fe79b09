package httptransport

import (
	"encoding/json"
	"net/http"

	"parlor/internal/auth/models"
	"parlor/internal/oauth/completion"
	"parlor/internal/websession"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/httputil"
	"parlor/pkg/requestcontext"
)

// Transient cookies set by the identity provider redirect. Read, never written.
const (
	CookieOAuthStatus       = "oauth_status"
	CookieOAuthProviderInfo = "oauth_provider_info"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User models.User `json:"user"`
}

type sessionResponse struct {
	Status models.Status `json:"status"`
	models.AuthSession
}

type signupPrefillResponse struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

func readSignals(r *http.Request) completion.Signals {
	var signals completion.Signals
	if c, err := r.Cookie(CookieOAuthStatus); err == nil {
		signals.RawStatus = c.Value
	}
	if c, err := r.Cookie(CookieOAuthProviderInfo); err == nil {
		signals.RawProviderInfo = c.Value
	}
	return signals
}

// handleOAuthCallback completes a provider sign-in and redirects to the outcome's
// page. A run abandoned because the page went away answers without navigating.
func (h *Handler) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result := sessionFrom(ctx).CompleteOAuth(ctx, readSignals(r))

	if result.Outcome == completion.OutcomeAbandoned {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, result.Destination, http.StatusFound)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := sessionFrom(ctx).Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "login failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := sessionFrom(ctx).Logout(ctx); err != nil {
		h.writeError(w, r, "logout failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := sessionFrom(r.Context()).Auth()
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Status: snap.Status(), AuthSession: snap})
}

// handleSignupPrefill returns what the signup form can be pre-filled with.
func (h *Handler) handleSignupPrefill(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	snap := session.Auth()
	if snap.PendingIdentity == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidState, "no pending sign-up"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, signupPrefillResponse{
		Email:    session.SignupEmail(),
		Provider: snap.PendingIdentity.Provider,
	})
}

func (h *Handler) handleSignupComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var form websession.SignupForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := sessionFrom(ctx).CompleteSignup(ctx, form)
	if err != nil {
		h.writeError(w, r, "sign-up failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, userResponse{User: user})
}
