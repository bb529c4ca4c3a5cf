package jira

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu         sync.RWMutex
	issues     []Issue
	searchErr  error
	searchFunc func(ctx context.Context, jql string, fields []string) ([]Issue, error)
	baseUrl    string
	queries    []string
}

func NewClientStub(baseUrl string) *ClientStub {
	return &ClientStub{baseUrl: baseUrl}
}

func (c *ClientStub) SearchTickets(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	c.mu.Lock()
	c.queries = append(c.queries, jql)
	searchFunc := c.searchFunc
	searchErr := c.searchErr
	issues := make([]Issue, len(c.issues))
	copy(issues, c.issues)
	c.mu.Unlock()

	if searchFunc != nil {
		return searchFunc(ctx, jql, fields)
	}
	if searchErr != nil {
		return nil, searchErr
	}
	return issues, nil
}

func (c *ClientStub) BaseUrl(_ context.Context) (string, error) {
	return c.baseUrl, nil
}

func (c *ClientStub) SetIssues(issues []Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = issues
}

func (c *ClientStub) SetSearchError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchErr = err
}

// SetSearchFunc replaces the canned response with a function, e.g. to block until a test
// releases the call.
func (c *ClientStub) SetSearchFunc(fn func(ctx context.Context, jql string, fields []string) ([]Issue, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchFunc = fn
}

func (c *ClientStub) LastQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.queries) == 0 {
		return ""
	}
	return c.queries[len(c.queries)-1]
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = nil
	c.searchErr = nil
	c.searchFunc = nil
	c.queries = nil
}
