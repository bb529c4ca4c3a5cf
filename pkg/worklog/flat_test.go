package worklog

import (
	"context"
	"testing"
	"time"

	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketUrl(key string) string {
	return jira.TicketUrl(testJiraUrl, key)
}

func entry(key string, loggedAt time.Time, seconds int) Entry {
	return Entry{TicketKey: key, TicketUrl: ticketUrl(key), LoggedAt: loggedAt, TotalSeconds: seconds}
}

func TestToFlatRows(t *testing.T) {
	t.Run("should produce one row per entry for the single user example", func(t *testing.T) {
		// given
		client := jira.NewClientStub(testJiraUrl)
		client.SetIssues([]jira.Issue{
			jiraIssue("PROJ-1", jiraWorklog("alice", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 3600)),
		})
		groups := []roster.Group{{Name: "Eng", Users: []roster.Member{{Name: "alice", DisplayName: "Alice A"}}}}
		reports, err := NewAggregator(client, Options{}).Generate(context.Background(), roster.Names(roster.Users(groups)), date(2024, 1, 1), date(2024, 1, 2))
		require.NoError(t, err)

		// when
		rows, err := ToFlatRows(groups, reports, ticketUrl)

		// then
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Eng", rows[0].GroupName)
		assert.Equal(t, "Alice A", rows[0].UserDisplay)
		assert.Equal(t, "PROJ-1", rows[0].TicketKey)
		assert.Equal(t, 3600, rows[0].TimeSpent)
	})

	t.Run("should keep group, user and fetch order", func(t *testing.T) {
		// given
		day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		groups := []roster.Group{
			{Name: "B team", Users: []roster.Member{{Name: "Carol", DisplayName: "Carol C"}, {Name: "alice", DisplayName: "Alice A"}}},
			{Name: "A team", Users: []roster.Member{{Name: "bob", DisplayName: "Bob B"}}},
		}
		reports := []UserDayReport{
			{UserName: "alice", LogEntries: []Entry{entry("PROJ-2", day.Add(time.Hour), 60), entry("PROJ-1", day, 30)}},
			{UserName: "bob", LogEntries: []Entry{entry("PROJ-3", day, 10)}},
			{UserName: "carol", LogEntries: []Entry{}},
		}

		// when
		rows, err := ToFlatRows(groups, reports, ticketUrl)

		// then
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"PROJ-2", "PROJ-1", "PROJ-3"}, []string{rows[0].TicketKey, rows[1].TicketKey, rows[2].TicketKey})
		assert.Equal(t, "B team", rows[0].GroupName)
		assert.Equal(t, "Bob B", rows[2].UserDisplay)
	})

	t.Run("should link the parent ticket", func(t *testing.T) {
		// given
		withParent := entry("PROJ-2", date(2024, 1, 1), 60)
		withParent.ParentKey = "PROJ-1"
		groups := []roster.Group{{Name: "Eng", Users: []roster.Member{{Name: "alice", DisplayName: "Alice"}}}}

		// when
		rows, err := ToFlatRows(groups, []UserDayReport{{UserName: "alice", LogEntries: []Entry{withParent}}}, ticketUrl)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://jira.example.com/browse/PROJ-1", rows[0].ParentUrl)
	})

	t.Run("should fail for a roster user without report", func(t *testing.T) {
		// given
		groups := []roster.Group{{Name: "Eng", Users: []roster.Member{{Name: "alice"}, {Name: "dave"}}}}

		// when
		_, err := ToFlatRows(groups, []UserDayReport{{UserName: "alice"}}, ticketUrl)

		// then
		assert.ErrorIs(t, err, ErrUnmatchedRosterLookup)
		assert.Contains(t, err.Error(), "dave")
	})

	t.Run("should return empty rows for empty roster", func(t *testing.T) {
		rows, err := ToFlatRows(nil, nil, ticketUrl)

		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NotNil(t, rows)
	})
}
