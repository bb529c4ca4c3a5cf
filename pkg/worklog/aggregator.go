package worklog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jiraassist/dashboard/pkg/jira"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	// Location decides which calendar day a worklog belongs to.
	Location *time.Location
	// Filter is an additional JQL condition, e.g. "project = PROJ".
	Filter string
	// EpicNameField is the custom field id read as epic, empty to skip epics.
	EpicNameField string
}

type Aggregator struct {
	client  jira.Client
	options Options
}

func NewAggregator(client jira.Client, options Options) *Aggregator {
	if options.Location == nil {
		options.Location = time.UTC
	}
	return &Aggregator{client: client, options: options}
}

type Result struct {
	Reports []UserDayReport
	// DroppedEntries counts worklogs inside the range written by authors outside the user list.
	DroppedEntries int
}

// Generate returns one report per distinct user, in the order the users were given.
func (a *Aggregator) Generate(ctx context.Context, users []string, from, to time.Time) ([]UserDayReport, error) {
	result, err := a.Fetch(ctx, users, from, to)
	if err != nil {
		return nil, err
	}
	return result.Reports, nil
}

func (a *Aggregator) Fetch(ctx context.Context, users []string, from, to time.Time) (Result, error) {
	userNames := distinctLower(users)
	if len(userNames) == 0 {
		return Result{}, ErrMissingRoster
	}

	reports := make([]UserDayReport, len(userNames))
	byUser := make(map[string]int, len(userNames))
	for i, name := range userNames {
		reports[i] = UserDayReport{UserName: name, LogEntries: []Entry{}}
		byUser[name] = i
	}

	start := calendarDay(from, a.options.Location)
	end := calendarDay(to, a.options.Location)
	if start.After(end) {
		return Result{Reports: reports}, nil
	}
	query := BuildQuery(userNames, start, end, a.options.Filter, a.options.EpicNameField)

	issues, err := a.client.SearchTickets(ctx, query.JQL, query.Fields)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	baseUrl, err := a.client.BaseUrl(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	dropped := 0
	for _, issue := range issues {
		for _, worklog := range issue.Fields.Worklogs() {
			started := worklog.Started.In(a.options.Location)
			day := calendarDay(started, a.options.Location)
			if day.Before(start) || day.After(end) {
				continue
			}
			i, ok := byUser[strings.ToLower(worklog.Author.Name)]
			if !ok {
				dropped++
				continue
			}
			reports[i].LogEntries = append(reports[i].LogEntries, a.newEntry(baseUrl, issue, worklog, started))
		}
	}

	for i := range reports {
		reports[i].TotalSeconds = sumSeconds(reports[i].LogEntries)
	}
	if dropped > 0 {
		log.Debugf("Dropped %d worklogs of authors outside the user list", dropped)
	}
	log.Debugf("Aggregated worklogs of %d issues for %d users", len(issues), len(reports))
	return Result{Reports: reports, DroppedEntries: dropped}, nil
}

func (a *Aggregator) newEntry(baseUrl string, issue jira.Issue, worklog jira.Worklog, started time.Time) Entry {
	fields := issue.Fields
	entry := Entry{
		TicketKey:    issue.Key,
		TicketUrl:    jira.TicketUrl(baseUrl, issue.Key),
		Summary:      fields.Summary,
		LoggedAt:     started,
		Comment:      worklog.Comment,
		TotalSeconds: worklog.TimeSpentSeconds,
	}
	if fields.IssueType != nil {
		entry.IssueType = fields.IssueType.Name
	}
	if fields.Parent != nil {
		entry.ParentKey = fields.Parent.Key
	}
	if fields.Project != nil {
		entry.ProjectName = fields.Project.Name
		entry.ProjectKey = fields.Project.Key
	}
	if a.options.EpicNameField != "" {
		if epic, ok := fields.Custom(a.options.EpicNameField); ok {
			entry.EpicDisplay = epic
			// free text epic names get no link
			if strings.HasPrefix(epic, jira.ProjectPrefix(issue.Key)+"-") {
				entry.EpicUrl = jira.TicketUrl(baseUrl, epic)
			}
		}
	}
	return entry
}

func distinctLower(users []string) []string {
	seen := make(map[string]struct{}, len(users))
	result := make([]string, 0, len(users))
	for _, u := range users {
		name := strings.ToLower(strings.TrimSpace(u))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

func sumSeconds(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.TotalSeconds
	}
	return total
}
