package jira

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jiraassist/dashboard/internal/rest"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type jiraAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type BasicCredentialsDTO struct {
	Username string `json:"username"`
	ApiToken string `json:"apiToken"`
}

// OAuthLogin godoc
// @Summary Initiate Jira OAuth login
// @Tags Jira
// @Produce json
// @Param finalUrl query string false "URL to redirect to after authentication"
// @Success 200 {object} object{redirectUrl=string} "OAuth redirect URL"
// @Router /api/integrations/jira/auth/login [get]
// @Security XUserId
func (g *Auth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	currentUser, err := g.userService.GetCurrentUser(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		http.Error(w, "unable to retrieve current user", http.StatusInternalServerError)
		return
	}
	userId := currentUser.Id

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	_, err = g.db.Exec(r.Context(),
		`INSERT INTO jira_auth (user_id, auth_type, nonce) VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE SET auth_type = EXCLUDED.auth_type, nonce = EXCLUDED.nonce,
			access_token = NULL, refresh_token = NULL, expiry = NULL, username = NULL, api_token = NULL`,
		userId, AuthTypeOAuth, stateNonce)
	if err != nil {
		log.Errorf("failed to store Jira auth nonce for user %d: %v", userId, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to handle Jira authentication", "")
		return
	}

	log.Tracef("Redirecting to Jira auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce,
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("audience", "api.atlassian.com"), oauth2.SetAuthURLParam("prompt", "consent"))

	rest.WriteJSON(w, http.StatusOK, jiraAuthRedirect{RedirectUrl: u})
}

// OAuthCallback godoc
// @Summary Jira OAuth callback
// @Tags Jira
// @Param code query string true "Authorization code"
// @Param state query string true "State parameter"
// @Success 302 "Redirect to finalUrl with success=true/false"
// @Router /api/integrations/jira/auth/callback [get]
func (g *Auth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	finalUrl, nonce, found := strings.Cut(state, "|")
	if !found || nonce == "" {
		rest.WriteError(w, http.StatusBadRequest, "Invalid OAuth state", "")
		return
	}

	failed := finalUrl + "?success=false"

	var userId int
	err := g.db.QueryRow(r.Context(), "SELECT user_id FROM jira_auth WHERE nonce = $1 AND auth_type = $2", nonce, AuthTypeOAuth).
		Scan(&userId)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Warnf("Jira OAuth callback with unknown nonce: %s", nonce)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	} else if err != nil {
		log.Errorf("unable to look up Jira auth nonce: %v", err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	token, err := g.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	site, err := g.accessibleSite(r.Context(), token)
	if err != nil {
		log.Errorf("unable to resolve Jira site of user %d: %v", userId, err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}

	var expiryTimestamp *int64
	if !token.Expiry.IsZero() {
		timestamp := token.Expiry.Unix()
		expiryTimestamp = &timestamp
	}

	tag, err := g.db.Exec(r.Context(),
		`UPDATE jira_auth SET access_token = $1, refresh_token = $2, expiry = $3, cloud_id = $4, site_url = $5, nonce = NULL
			WHERE nonce = $6`,
		token.AccessToken, token.RefreshToken, expiryTimestamp, site.Id, site.Url, nonce)
	if err != nil {
		log.Errorf("unable to store Jira auth token for nonce: %v", err)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	if tag.RowsAffected() == 0 {
		// the nonce was used by a concurrent callback
		log.Warnf("Jira auth nonce already consumed: %s", nonce)
		http.Redirect(w, r, failed, http.StatusFound)
		return
	}
	log.Debugf("Stored Jira auth token of user %d for site %s", userId, site.Url)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

type accessibleResource struct {
	Id   string `json:"id"`
	Url  string `json:"url"`
	Name string `json:"name"`
}

// accessibleSite returns the Jira site the token was granted for, preferring the configured one
// when the user picked several.
func (g *Auth) accessibleSite(ctx context.Context, token *oauth2.Token) (accessibleResource, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(g.apiUrl, "/")+"/oauth/token/accessible-resources", nil)
	if err != nil {
		return accessibleResource{}, err
	}
	var resources []accessibleResource
	if err := do(g.oauthConfig.Client(ctx, token), req, &resources); err != nil {
		return accessibleResource{}, err
	}
	if len(resources) == 0 {
		return accessibleResource{}, errors.New("token grants access to no Jira site")
	}
	for _, resource := range resources {
		if g.defaultUrl != "" && strings.TrimRight(resource.Url, "/") == strings.TrimRight(g.defaultUrl, "/") {
			return resource, nil
		}
	}
	return resources[0], nil
}

// StoreBasicCredentials godoc
// @Summary Connect Jira with username and API token
// @Tags Jira
// @Accept json
// @Param credentials body BasicCredentialsDTO true "Credentials"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/integrations/jira/auth/basic [put]
// @Security XUserId
func (g *Auth) StoreBasicCredentials(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}

	var dto BasicCredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if strings.TrimSpace(dto.Username) == "" || strings.TrimSpace(dto.ApiToken) == "" {
		rest.WriteError(w, http.StatusBadRequest, "Username and API token are required", "")
		return
	}

	_, err = g.db.Exec(r.Context(),
		`INSERT INTO jira_auth (user_id, auth_type, username, api_token) VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE SET auth_type = EXCLUDED.auth_type, username = EXCLUDED.username,
			api_token = EXCLUDED.api_token, nonce = NULL, access_token = NULL, refresh_token = NULL, expiry = NULL`,
		userId, AuthTypeBasic, strings.TrimSpace(dto.Username), strings.TrimSpace(dto.ApiToken))
	if err != nil {
		log.Errorf("failed to store Jira credentials for user %d: %v", userId, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IsAuthenticated godoc
// @Summary Check Jira authentication status
// @Tags Jira
// @Success 200 {string} string "true"
// @Failure 404 "Not authenticated"
// @Router /api/integrations/jira/auth [get]
// @Security XUserId
func (g *Auth) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}
	creds, err := g.getCredentials(r.Context(), userId)
	if err != nil {
		log.Error(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if creds == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("true"))
}

// Disconnect godoc
// @Summary Remove stored Jira credentials
// @Tags Jira
// @Success 204 "No Content"
// @Router /api/integrations/jira/auth [delete]
// @Security XUserId
func (g *Auth) Disconnect(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}
	_, err = g.db.Exec(r.Context(), "DELETE FROM jira_auth WHERE user_id = $1", userId)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Errorf("failed to delete auth data: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
