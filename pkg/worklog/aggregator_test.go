package worklog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Generate(t *testing.T) {
	t.Run("should attribute a worklog inside the range", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1", jiraWorklog("alice", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 3600)),
		})
		aggregator := NewAggregator(client, Options{Location: time.UTC})

		// when
		reports, err := aggregator.Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 2))

		// then
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "alice", reports[0].UserName)
		assert.Equal(t, 3600, reports[0].TotalSeconds)
		require.Len(t, reports[0].LogEntries, 1)
		entry := reports[0].LogEntries[0]
		assert.Equal(t, "PROJ-1", entry.TicketKey)
		assert.Equal(t, "https://jira.example.com/browse/PROJ-1", entry.TicketUrl)
		assert.Equal(t, "Task", entry.IssueType)
		assert.Equal(t, "PROJ", entry.ProjectKey)
		assert.Equal(t, 3600, entry.TotalSeconds)
		assert.Equal(t, "worklogAuthor in ('alice') and worklogDate >= '2023-12-31' and worklogDate < '2024-01-03'", client.LastQuery())
	})

	t.Run("should exclude worklogs outside the range but inside the query window", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1",
				jiraWorklog("alice", time.Date(2023, 12, 30, 10, 0, 0, 0, time.UTC), 3600),
				jiraWorklog("alice", time.Date(2024, 1, 3, 0, 30, 0, 0, time.UTC), 1800),
			),
		})
		aggregator := NewAggregator(client, Options{Location: time.UTC})

		// when
		reports, err := aggregator.Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 2))

		// then
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Empty(t, reports[0].LogEntries)
		assert.Equal(t, 0, reports[0].TotalSeconds)
	})

	t.Run("should decide the day in the configured zone", func(t *testing.T) {
		// given
		warsaw, err := time.LoadLocation("Europe/Warsaw")
		require.NoError(t, err)
		client := jira.NewClientStub(testJiraUrl)
		// 23:30 UTC on Dec 31 is already Jan 1 in Warsaw
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1", jiraWorklog("alice", time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC), 600)),
		})

		// when
		utcReports, err := NewAggregator(client, Options{Location: time.UTC}).Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 1))
		require.NoError(t, err)
		warsawReports, err := NewAggregator(client, Options{Location: warsaw}).Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 1))
		require.NoError(t, err)

		// then
		assert.Empty(t, utcReports[0].LogEntries)
		require.Len(t, warsawReports[0].LogEntries, 1)
		assert.Equal(t, "20240101", warsawReports[0].LogEntries[0].DateKey())
	})

	t.Run("should drop and count worklogs of unknown authors", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1",
				jiraWorklog("ALICE", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 1200),
				jiraWorklog("mallory", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 7200),
				jiraWorklog("mallory", time.Date(2023, 12, 30, 9, 0, 0, 0, time.UTC), 7200),
			),
		})
		aggregator := NewAggregator(client, Options{Location: time.UTC})

		// when
		result, err := aggregator.Fetch(context.Background(), []string{"Alice"}, date(2024, 1, 1), date(2024, 1, 1))

		// then
		require.NoError(t, err)
		require.Len(t, result.Reports, 1)
		assert.Equal(t, 1200, result.Reports[0].TotalSeconds)
		assert.Equal(t, 1, result.DroppedEntries)
	})

	t.Run("should return one report per distinct user in order", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1",
				jiraWorklog("bob", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 600),
				jiraWorklog("alice", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 300),
			),
			jiraIssue("PROJ-2", jiraWorklog("bob", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 900)),
		})
		aggregator := NewAggregator(client, Options{Location: time.UTC})

		// when
		reports, err := aggregator.Generate(context.Background(), []string{"Bob", "carol", "bob", "alice"}, date(2024, 1, 1), date(2024, 1, 2))

		// then
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, "bob", reports[0].UserName)
		assert.Equal(t, "carol", reports[1].UserName)
		assert.Equal(t, "alice", reports[2].UserName)
		assert.Equal(t, 1500, reports[0].TotalSeconds)
		assert.Empty(t, reports[1].LogEntries)
		for _, report := range reports {
			assert.Equal(t, sumSeconds(report.LogEntries), report.TotalSeconds)
		}
	})

	t.Run("should link epics only for keys of the same project", func(t *testing.T) {
		// given
		started := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		linked := jiraIssue("PROJ-1", jiraWorklog("alice", started, 60))
		linked.Fields = linked.Fields.WithCustom("customfield_1", "PROJ-100")
		freeText := jiraIssue("PROJ-2", jiraWorklog("alice", started, 60))
		freeText.Fields = freeText.Fields.WithCustom("customfield_1", "Platform rewrite")
		otherProject := jiraIssue("PROJ-3", jiraWorklog("alice", started, 60))
		otherProject.Fields = otherProject.Fields.WithCustom("customfield_1", "OTHER-5")
		noEpic := jiraIssue("PROJ-4", jiraWorklog("alice", started, 60))
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{linked, freeText, otherProject, noEpic})
		aggregator := NewAggregator(client, Options{Location: time.UTC, EpicNameField: "customfield_1"})

		// when
		reports, err := aggregator.Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 1))

		// then
		require.NoError(t, err)
		entries := reports[0].LogEntries
		require.Len(t, entries, 4)
		assert.Equal(t, "PROJ-100", entries[0].EpicDisplay)
		assert.Equal(t, "https://jira.example.com/browse/PROJ-100", entries[0].EpicUrl)
		assert.Equal(t, "Platform rewrite", entries[1].EpicDisplay)
		assert.Empty(t, entries[1].EpicUrl)
		assert.Equal(t, "OTHER-5", entries[2].EpicDisplay)
		assert.Empty(t, entries[2].EpicUrl)
		assert.Empty(t, entries[3].EpicDisplay)
	})

	t.Run("should wrap search failures", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		timeout := errors.New("timeout")
		client.SetSearchError(timeout)
		aggregator := NewAggregator(client, Options{})

		// when
		_, err := aggregator.Generate(context.Background(), []string{"alice"}, date(2024, 1, 1), date(2024, 1, 1))

		// then
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.ErrorIs(t, err, timeout)
	})

	t.Run("should refuse an empty user list without searching", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		aggregator := NewAggregator(client, Options{})

		// when
		_, err := aggregator.Generate(context.Background(), []string{" "}, date(2024, 1, 1), date(2024, 1, 1))

		// then
		assert.ErrorIs(t, err, ErrMissingRoster)
		assert.Empty(t, client.LastQuery())
	})

	t.Run("should return empty reports for an inverted range without searching", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1", jiraWorklog("alice", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 3600)),
		})
		aggregator := NewAggregator(client, Options{Location: time.UTC})

		// when
		reports, err := aggregator.Generate(context.Background(), []string{"alice"}, date(2024, 1, 2), date(2024, 1, 1))

		// then
		require.NoError(t, err)
		assert.Equal(t, []UserDayReport{{UserName: "alice", LogEntries: []Entry{}}}, reports)
		assert.Empty(t, client.LastQuery())
	})
}
