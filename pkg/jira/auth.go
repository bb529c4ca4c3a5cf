package jira

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type AuthType string

const (
	AuthTypeOAuth AuthType = "oauth"
	AuthTypeBasic AuthType = "basic"
)

var endpoint = oauth2.Endpoint{
	AuthURL:   "https://auth.atlassian.com/authorize",
	TokenURL:  "https://auth.atlassian.com/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

var scopes = []string{"read:jira-work", "read:jira-user", "offline_access"}

// atlassianApiUrl serves OAuth (3LO) API calls; Jira sites reject those tokens.
const atlassianApiUrl = "https://api.atlassian.com"

// Auth keeps the Jira credentials of every dashboard user. A user is connected either through
// OAuth (Jira Cloud) or with a username and API token.
type Auth struct {
	db          *pgxpool.Pool
	userService user.Service
	oauthConfig *oauth2.Config
	defaultUrl  string
	apiUrl      string
}

func NewAuth(db *pgxpool.Pool, userService user.Service, cfg config.Application) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Jira.ClientId,
		ClientSecret: cfg.Jira.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/jira/auth/callback",
		Scopes:       scopes,
	}

	return &Auth{
		db:          db,
		userService: userService,
		oauthConfig: oauthConfig,
		defaultUrl:  cfg.Jira.Url,
		apiUrl:      atlassianApiUrl,
	}
}

type credentials struct {
	authType AuthType
	token    *oauth2.Token
	cloudId  string
	siteUrl  string
	username string
	apiToken string
}

func (g *Auth) getCredentials(ctx context.Context, userId int) (*credentials, error) {
	var authType string
	var accessToken, refreshToken, cloudId, siteUrl, username, apiToken sql.NullString
	var expiryTimestamp sql.NullInt64
	err := g.db.QueryRow(ctx,
		`SELECT auth_type, access_token, refresh_token, expiry, cloud_id, site_url, username, api_token
			FROM jira_auth WHERE user_id = $1`, userId).
		Scan(&authType, &accessToken, &refreshToken, &expiryTimestamp, &cloudId, &siteUrl, &username, &apiToken)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to retrieve Jira credentials: %w", err)
	}

	creds := &credentials{
		authType: AuthType(authType),
		cloudId:  cloudId.String,
		siteUrl:  siteUrl.String,
		username: username.String,
		apiToken: apiToken.String,
	}
	if creds.authType == AuthTypeOAuth {
		if !accessToken.Valid || creds.cloudId == "" {
			// login started but callback never completed
			return nil, nil
		}
		creds.token = &oauth2.Token{AccessToken: accessToken.String, RefreshToken: refreshToken.String}
		if expiryTimestamp.Valid {
			creds.token.Expiry = time.Unix(expiryTimestamp.Int64, 0)
		}
	}
	return creds, nil
}

func (g *Auth) storeToken(ctx context.Context, userId int, token *oauth2.Token) error {
	var expiryTimestamp *int64
	if !token.Expiry.IsZero() {
		timestamp := token.Expiry.Unix()
		expiryTimestamp = &timestamp
	}
	_, err := g.db.Exec(ctx,
		"UPDATE jira_auth SET access_token = $1, refresh_token = $2, expiry = $3 WHERE user_id = $4 AND auth_type = $5",
		token.AccessToken, token.RefreshToken, expiryTimestamp, userId, AuthTypeOAuth)
	if err != nil {
		err := fmt.Errorf("unable to store refreshed Jira token: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// getClient returns the http client of the current user with the urls of its Jira instance.
func (g *Auth) getClient(ctx context.Context) (connection, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return connection{}, fmt.Errorf("failed to get current user: %w", err)
	}
	siteUrl := currentUser.Settings.JiraUrl
	if siteUrl == "" {
		siteUrl = g.defaultUrl
	}

	creds, err := g.getCredentials(ctx, currentUser.Id)
	if err != nil {
		log.Error(err)
		return connection{}, err
	}
	if creds == nil {
		log.Debug("user is unauthenticated, authentication is required")
		return connection{siteUrl: siteUrl}, ErrUnauthenticated
	}

	switch creds.authType {
	case AuthTypeBasic:
		return connection{client: newBasicHttpClient(creds.username, creds.apiToken), apiUrl: siteUrl, siteUrl: siteUrl}, nil
	default:
		if creds.siteUrl != "" {
			siteUrl = creds.siteUrl
		}
		save := func(token *oauth2.Token) error {
			return g.storeToken(ctx, currentUser.Id, token)
		}
		source := oauth2.ReuseTokenSource(creds.token, &persistingTokenSource{
			base:   g.oauthConfig.TokenSource(ctx, creds.token),
			save:   save,
			stored: creds.token.AccessToken,
		})
		return connection{
			client:  oauth2.NewClient(ctx, source),
			apiUrl:  strings.TrimRight(g.apiUrl, "/") + "/ex/jira/" + url.PathEscape(creds.cloudId),
			siteUrl: siteUrl,
		}, nil
	}
}

// persistingTokenSource writes every token it has not seen before back to the store, since
// Atlassian rotates the refresh token on each refresh.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	save   func(*oauth2.Token) error
	mu     sync.Mutex
	stored string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.stored {
		if err := s.save(token); err != nil {
			return nil, err
		}
		s.stored = token.AccessToken
	}
	return token, nil
}

// StaticCredentials authenticates every request with one username and API token.
type StaticCredentials struct {
	Url      string
	Username string
	ApiToken string
}

func (s StaticCredentials) getClient(_ context.Context) (connection, error) {
	if s.Username == "" || s.ApiToken == "" {
		return connection{siteUrl: s.Url}, ErrUnauthenticated
	}
	return connection{client: newBasicHttpClient(s.Username, s.ApiToken), apiUrl: s.Url, siteUrl: s.Url}, nil
}

type basicAuthTransport struct {
	username string
	apiToken string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authorized := req.Clone(req.Context())
	authorized.SetBasicAuth(t.username, t.apiToken)
	return t.base.RoundTrip(authorized)
}

func newBasicHttpClient(username, apiToken string) *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &basicAuthTransport{
			username: username,
			apiToken: apiToken,
			base:     http.DefaultTransport,
		},
	}
}
