package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/solvehub/server/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GET /api/v1/auth/google/login
// HandleGoogleLogin redirects to Google's consent screen. The OAuth state
// carries a random nonce plus which flow ("login" or "register") the client
// started from, so the callback can pick the right error redirect.
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("redirect")
	if flow != "register" {
		flow = "login"
	}

	state, err := encodeOAuthState(flow)
	if err != nil {
		internalError(w, "oauth state", err)
		return
	}

	http.Redirect(w, r, oauthCfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/v1/auth/google/callback
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := decodeOAuthState(r.FormValue("state"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	token, err := oauthCfg.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		internalError(w, "oauth exchange", err)
		return
	}

	client := oauthCfg.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		internalError(w, "google userinfo", err)
		return
	}
	defer resp.Body.Close()

	var googleUser struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	data, err := io.ReadAll(resp.Body)
	if err == nil {
		err = json.Unmarshal(data, &googleUser)
	}
	if err != nil || googleUser.Email == "" {
		internalError(w, "parse userinfo", err)
		return
	}

	sess, err := posts.EnsureExternalAccount(r.Context(), googleUser.Name, googleUser.Email)
	if err != nil {
		internalError(w, "ensure account", err)
		return
	}

	if err := issueSessionCookie(w, sess); err != nil {
		internalError(w, "sign token", err)
		return
	}

	redirectURL := envs.FrontendURL + "/?status=success_login"
	if oauthState.Flow == "register" {
		redirectURL = envs.FrontendURL + "/?status=success_register"
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
