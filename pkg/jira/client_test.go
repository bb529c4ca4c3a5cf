package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worklogOf(id string, author string, started string, seconds int) map[string]any {
	return map[string]any{
		"id":               id,
		"author":           map[string]any{"name": author, "displayName": author},
		"started":          started,
		"timeSpentSeconds": seconds,
	}
}

func TestClientImpl_SearchTickets(t *testing.T) {
	t.Run("should send basic auth and page through results", func(t *testing.T) {
		// given
		var requests []searchRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, token, ok := r.BasicAuth()
			if !ok || username != "alice" || token != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			require.Equal(t, "/rest/api/2/search", r.URL.Path)
			var request searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			requests = append(requests, request)

			issues := []map[string]any{
				{"key": "PROJ-" + strconv.Itoa(request.StartAt+1), "fields": map[string]any{"summary": "first"}},
			}
			if request.StartAt == 0 {
				issues = append(issues, map[string]any{"key": "PROJ-2", "fields": map[string]any{"summary": "second"}})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"startAt": request.StartAt, "total": 3, "issues": issues})
		}))
		defer server.Close()
		client := NewBasicClient(server.URL, "alice", "secret", 2)

		// when
		issues, err := client.SearchTickets(context.Background(), "project = PROJ", []string{"summary", "worklog"})

		// then
		require.NoError(t, err)
		require.Len(t, issues, 3)
		assert.Equal(t, "PROJ-1", issues[0].Key)
		assert.Equal(t, "PROJ-3", issues[2].Key)
		require.Len(t, requests, 2)
		assert.Equal(t, 0, requests[0].StartAt)
		assert.Equal(t, 2, requests[1].StartAt)
		assert.Equal(t, 2, requests[1].MaxResults)
		assert.Equal(t, []string{"summary", "worklog"}, requests[0].Fields)
	})

	t.Run("should complete truncated worklogs", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/rest/api/2/search":
				_ = json.NewEncoder(w).Encode(map[string]any{"startAt": 0, "total": 1, "issues": []map[string]any{{
					"key": "PROJ-1",
					"fields": map[string]any{
						"worklog": map[string]any{"startAt": 0, "maxResults": 1, "total": 2, "worklogs": []any{
							worklogOf("1", "alice", "2024-01-01T10:00:00.000+0000", 3600),
						}},
					},
				}}})
			case "/rest/api/2/issue/PROJ-1/worklog":
				_ = json.NewEncoder(w).Encode(map[string]any{"startAt": 0, "maxResults": 100, "total": 2, "worklogs": []any{
					worklogOf("1", "alice", "2024-01-01T10:00:00.000+0000", 3600),
					worklogOf("2", "bob", "2024-01-02T09:30:00.000+0100", 1800),
				}})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()
		client := NewBasicClient(server.URL, "alice", "secret", 100)

		// when
		issues, err := client.SearchTickets(context.Background(), "key = PROJ-1", []string{"worklog"})

		// then
		require.NoError(t, err)
		require.Len(t, issues, 1)
		worklogs := issues[0].Fields.Worklogs()
		require.Len(t, worklogs, 2)
		assert.Equal(t, "bob", worklogs[1].Author.Name)
		assert.Equal(t, 1800, worklogs[1].TimeSpentSeconds)
		assert.True(t, worklogs[1].Started.Equal(time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)))
	})

	t.Run("should report unauthenticated on 401", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()
		client := NewBasicClient(server.URL, "alice", "wrong", 100)

		// when
		_, err := client.SearchTickets(context.Background(), "project = PROJ", nil)

		// then
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("should fail on server error", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()
		client := NewBasicClient(server.URL, "alice", "secret", 100)

		// when
		_, err := client.SearchTickets(context.Background(), "project = PROJ", nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("should not call Jira without credentials", func(t *testing.T) {
		// given
		client := NewBasicClient("http://jira.invalid", "", "", 100)

		// when
		_, err := client.SearchTickets(context.Background(), "project = PROJ", nil)

		// then
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestIssueFields_Custom(t *testing.T) {
	// given
	var issue Issue
	payload := `{"key":"PROJ-1","fields":{"summary":"s","customfield_1":"PROJ-7","customfield_2":{"value":"Option"},` +
		`"customfield_3":null,"customfield_4":{"key":"PROJ-9"},"customfield_5":""}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &issue))

	// then
	value, ok := issue.Fields.Custom("customfield_1")
	assert.True(t, ok)
	assert.Equal(t, "PROJ-7", value)
	value, ok = issue.Fields.Custom("customfield_2")
	assert.True(t, ok)
	assert.Equal(t, "Option", value)
	value, ok = issue.Fields.Custom("customfield_4")
	assert.True(t, ok)
	assert.Equal(t, "PROJ-9", value)
	_, ok = issue.Fields.Custom("customfield_3")
	assert.False(t, ok)
	_, ok = issue.Fields.Custom("customfield_5")
	assert.False(t, ok)
	_, ok = issue.Fields.Custom("customfield_missing")
	assert.False(t, ok)
}

func TestIssueFields_WithCustomKeepsOriginal(t *testing.T) {
	// given
	original := IssueFields{Summary: "s"}

	// when
	updated := original.WithCustom("customfield_1", "PROJ-2")

	// then
	value, ok := updated.Custom("customfield_1")
	assert.True(t, ok)
	assert.Equal(t, "PROJ-2", value)
	_, ok = original.Custom("customfield_1")
	assert.False(t, ok)
}

func TestTicketUrl(t *testing.T) {
	assert.Equal(t, "https://jira.example.com/browse/PROJ-1", TicketUrl("https://jira.example.com/", "PROJ-1"))
	assert.Equal(t, "", TicketUrl("https://jira.example.com", ""))
	assert.Equal(t, "PROJ", ProjectPrefix("PROJ-12"))
}
