package worklog

import (
	"strings"
	"time"

	"github.com/jiraassist/dashboard/pkg/roster"
)

type TicketLog struct {
	LoggedAt     time.Time `json:"loggedAt"`
	TotalSeconds int       `json:"totalSeconds"`
	Comment      string    `json:"comment,omitempty"`
}

// TicketRow is the time one user logged on one ticket, split by day.
type TicketRow struct {
	TicketKey    string                 `json:"ticketKey"`
	TicketUrl    string                 `json:"ticketUrl"`
	Summary      string                 `json:"summary"`
	ParentKey    string                 `json:"parentKey,omitempty"`
	TotalSeconds int                    `json:"totalSeconds"`
	Days         map[string][]TicketLog `json:"days"`
}

type DayTotal struct {
	DateKey      string `json:"dateKey"`
	TotalSeconds int    `json:"totalSeconds"`
	OverLimit    bool   `json:"overLimit"`
}

// TicketBreakdown groups the entries of a report by ticket, tickets in first logged order.
// With BreakupComment every worklog of a day stays a separate log carrying its comment,
// otherwise the worklogs of a day are merged into one log.
func TicketBreakdown(report UserDayReport, breakupMode string) []TicketRow {
	tickets := GroupBy(report.LogEntries, func(e Entry) string { return e.TicketKey })
	rows := make([]TicketRow, 0, len(tickets))
	for _, ticket := range tickets {
		first := ticket.Values[0]
		row := TicketRow{
			TicketKey:    ticket.Key,
			TicketUrl:    first.TicketUrl,
			Summary:      first.Summary,
			ParentKey:    first.ParentKey,
			TotalSeconds: sumSeconds(ticket.Values),
			Days:         make(map[string][]TicketLog),
		}
		for _, day := range GroupBy(ticket.Values, Entry.DateKey) {
			if breakupMode != BreakupComment {
				row.Days[day.Key] = []TicketLog{{LoggedAt: day.Values[0].LoggedAt, TotalSeconds: sumSeconds(day.Values)}}
				continue
			}
			logs := make([]TicketLog, 0, len(day.Values))
			for _, e := range day.Values {
				logs = append(logs, TicketLog{LoggedAt: e.LoggedAt, TotalSeconds: e.TotalSeconds, Comment: e.Comment})
			}
			row.Days[day.Key] = logs
		}
		rows = append(rows, row)
	}
	return rows
}

// UserDayTotal sums the seconds a user logged on a day; an empty dateKey means the whole range.
func UserDayTotal(report UserDayReport, dateKey string) int {
	if dateKey == "" {
		return report.TotalSeconds
	}
	total := 0
	for _, e := range report.LogEntries {
		if e.DateKey() == dateKey {
			total += e.TotalSeconds
		}
	}
	return total
}

// GroupTotal sums the seconds of all users of a group on a day. An empty groupName covers
// every report, an empty dateKey the whole range.
func GroupTotal(reports []UserDayReport, groups []roster.Group, groupName string, dateKey string) int {
	var members map[string]struct{}
	if groupName != "" {
		members = make(map[string]struct{})
		for _, group := range groups {
			if group.Name != groupName {
				continue
			}
			for _, member := range group.Users {
				members[member.LookupKey()] = struct{}{}
			}
		}
	}

	total := 0
	for _, report := range reports {
		if members != nil {
			if _, ok := members[strings.ToLower(report.UserName)]; !ok {
				continue
			}
		}
		total += UserDayTotal(report, dateKey)
	}
	return total
}

// DayTotals returns the daily totals of a user for every day of the range, flagging days over
// maxSecondsPerDay.
func DayTotals(report UserDayReport, days []DateCell, maxSecondsPerDay int) []DayTotal {
	totals := make([]DayTotal, 0, len(days))
	for _, day := range days {
		seconds := UserDayTotal(report, day.DateKey)
		totals = append(totals, DayTotal{
			DateKey:      day.DateKey,
			TotalSeconds: seconds,
			OverLimit:    maxSecondsPerDay > 0 && seconds > maxSecondsPerDay,
		})
	}
	return totals
}
