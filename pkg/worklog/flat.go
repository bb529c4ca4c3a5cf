package worklog

import (
	"fmt"
	"strings"

	"github.com/jiraassist/dashboard/pkg/roster"
	log "github.com/sirupsen/logrus"
)

// ToFlatRows lists every entry with its group and user, in group, user and fetch order.
// ticketUrl builds the parent links. Every roster user must have a report.
func ToFlatRows(groups []roster.Group, reports []UserDayReport, ticketUrl func(key string) string) ([]FlatRow, error) {
	rows, err := UnionErr(groups, func(group roster.Group) ([]FlatRow, error) {
		return UnionErr(group.Users, func(member roster.Member) ([]FlatRow, error) {
			report, ok := findReport(reports, member.LookupKey())
			if !ok {
				err := fmt.Errorf("%w: %s in group %s", ErrUnmatchedRosterLookup, member.Name, group.Name)
				log.Error(err)
				return nil, err
			}
			rows := make([]FlatRow, 0, len(report.LogEntries))
			for _, entry := range report.LogEntries {
				rows = append(rows, toFlatRow(group.Name, member.DisplayName, entry, ticketUrl))
			}
			return rows, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []FlatRow{}
	}
	return rows, nil
}

func findReport(reports []UserDayReport, userName string) (UserDayReport, bool) {
	for _, report := range reports {
		if strings.ToLower(report.UserName) == userName {
			return report, true
		}
	}
	return UserDayReport{}, false
}

func toFlatRow(groupName string, userDisplay string, entry Entry, ticketUrl func(string) string) FlatRow {
	row := FlatRow{
		GroupName:   groupName,
		UserDisplay: userDisplay,
		ParentKey:   entry.ParentKey,
		EpicDisplay: entry.EpicDisplay,
		EpicUrl:     entry.EpicUrl,
		TicketKey:   entry.TicketKey,
		TicketUrl:   entry.TicketUrl,
		IssueType:   entry.IssueType,
		Summary:     entry.Summary,
		ProjectKey:  entry.ProjectKey,
		ProjectName: entry.ProjectName,
		LoggedAt:    entry.LoggedAt,
		TimeSpent:   entry.TotalSeconds,
		Comment:     entry.Comment,
	}
	if entry.ParentKey != "" && ticketUrl != nil {
		row.ParentUrl = ticketUrl(entry.ParentKey)
	}
	return row
}
