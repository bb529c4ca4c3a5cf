package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	t.Run("should widen the date window by one day", func(t *testing.T) {
		// when
		query := BuildQuery([]string{"alice", "bob"}, date(2024, 1, 1), date(2024, 1, 2), "", "")

		// then
		assert.Equal(t, "worklogAuthor in ('alice','bob') and worklogDate >= '2023-12-31' and worklogDate < '2024-01-03'", query.JQL)
		assert.Equal(t, []string{"summary", "worklog", "issuetype", "parent", "project"}, query.Fields)
	})

	t.Run("should append trimmed filter", func(t *testing.T) {
		query := BuildQuery([]string{"alice"}, date(2024, 1, 1), date(2024, 1, 1), "  project = PROJ ", "")

		assert.Equal(t, "worklogAuthor in ('alice') and worklogDate >= '2023-12-31' and worklogDate < '2024-01-02' AND (project = PROJ)", query.JQL)
	})

	t.Run("should ignore blank filter", func(t *testing.T) {
		query := BuildQuery([]string{"alice"}, date(2024, 1, 1), date(2024, 1, 1), "   ", "")

		assert.NotContains(t, query.JQL, "AND (")
	})

	t.Run("should escape quotes in user names", func(t *testing.T) {
		query := BuildQuery([]string{"o'brien"}, date(2024, 1, 1), date(2024, 1, 1), "", "")

		assert.Contains(t, query.JQL, `worklogAuthor in ('o\'brien')`)
	})

	t.Run("should fetch the epic field when configured", func(t *testing.T) {
		query := BuildQuery([]string{"alice"}, date(2024, 1, 1), date(2024, 1, 1), "", "customfield_10011")

		assert.Equal(t, []string{"summary", "worklog", "issuetype", "parent", "project", "customfield_10011"}, query.Fields)
	})
}
