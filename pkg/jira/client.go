package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

const defaultPageSize = 100

var ErrUnauthenticated = errors.New("user is not authenticated with Jira")

type Client interface {
	// SearchTickets runs a JQL search and returns every matching issue with the requested fields.
	SearchTickets(ctx context.Context, jql string, fields []string) ([]Issue, error) // POST /rest/api/2/search
	// BaseUrl returns the Jira instance url used for the current user, for browse links.
	BaseUrl(ctx context.Context) (string, error)
}

// connection is an authenticated client with the urls of one Jira instance. apiUrl is where
// REST calls go, siteUrl is the instance users browse.
type connection struct {
	client  *http.Client
	apiUrl  string
	siteUrl string
}

// clientProvider hands out the connection for a request.
type clientProvider interface {
	getClient(ctx context.Context) (connection, error)
}

type ClientImpl struct {
	provider clientProvider
	pageSize int
}

func NewClient(auth *Auth, pageSize int) *ClientImpl {
	return newClient(auth, pageSize)
}

// NewBasicClient builds a client that always uses the given credentials, for use outside of an
// HTTP session.
func NewBasicClient(baseUrl, username, apiToken string, pageSize int) *ClientImpl {
	return newClient(StaticCredentials{
		Url:      baseUrl,
		Username: username,
		ApiToken: apiToken,
	}, pageSize)
}

func newClient(provider clientProvider, pageSize int) *ClientImpl {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ClientImpl{provider: provider, pageSize: pageSize}
}

type searchRequest struct {
	Jql        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

func (c *ClientImpl) BaseUrl(ctx context.Context) (string, error) {
	conn, err := c.provider.getClient(ctx)
	return conn.siteUrl, err
}

// SearchTickets pages through the search endpoint until all issues are read. Search results
// embed at most 20 worklogs per issue, so truncated worklog lists are completed from the
// issue worklog endpoint.
func (c *ClientImpl) SearchTickets(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	conn, err := c.provider.getClient(ctx)
	if err != nil {
		return nil, err
	}
	client, baseUrl := conn.client, conn.apiUrl
	log.Debugf("Searching Jira tickets: %s", jql)

	issues := make([]Issue, 0, c.pageSize)
	startAt := 0
	for {
		page, err := c.searchPage(ctx, client, baseUrl, searchRequest{
			Jql:        jql,
			StartAt:    startAt,
			MaxResults: c.pageSize,
			Fields:     fields,
		})
		if err != nil {
			return nil, err
		}
		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	for i := range issues {
		worklog := issues[i].Fields.Worklog
		if worklog == nil || worklog.Total <= len(worklog.Worklogs) {
			continue
		}
		all, err := c.getWorklogs(ctx, client, baseUrl, issues[i].Key)
		if err != nil {
			return nil, err
		}
		issues[i].Fields.Worklog = &WorklogPage{StartAt: 0, MaxResults: len(all), Total: len(all), Worklogs: all}
	}

	log.Debugf("Jira search returned %d issues", len(issues))
	return issues, nil
}

func (c *ClientImpl) searchPage(ctx context.Context, client *http.Client, baseUrl string, request searchRequest) (searchResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return searchResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", apiUrl(baseUrl, "/search"), bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return searchResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var response searchResponse
	if err := do(client, req, &response); err != nil {
		return searchResponse{}, err
	}
	return response, nil
}

func (c *ClientImpl) getWorklogs(ctx context.Context, client *http.Client, baseUrl string, issueKey string) ([]Worklog, error) {
	var worklogs []Worklog
	startAt := 0
	for {
		query := url.Values{}
		query.Set("startAt", fmt.Sprintf("%d", startAt))
		query.Set("maxResults", fmt.Sprintf("%d", c.pageSize))
		endpoint := apiUrl(baseUrl, "/issue/"+url.PathEscape(issueKey)+"/worklog") + "?" + query.Encode()

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			log.Errorf("Failed to create request: %v", err)
			return nil, err
		}
		var page WorklogPage
		if err := do(client, req, &page); err != nil {
			return nil, err
		}
		worklogs = append(worklogs, page.Worklogs...)
		startAt += len(page.Worklogs)
		if len(page.Worklogs) == 0 || startAt >= page.Total {
			return worklogs, nil
		}
	}
}

func do(client *http.Client, req *http.Request, target any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("Jira API returned non-OK status: %d %s", resp.StatusCode, strings.TrimSpace(string(details)))
		log.Error(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	return nil
}

func apiUrl(baseUrl string, path string) string {
	return strings.TrimRight(baseUrl, "/") + "/rest/api/2" + path
}
