package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/jiraassist/dashboard/internal/utils"
	"github.com/jiraassist/dashboard/pkg/holiday"
	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Generator runs the report pipeline for the user in the context.
type Generator interface {
	Generate(ctx context.Context, groups []roster.Group, from, to time.Time) (Report, error)
	// Flatten builds the flat rows of reports generated earlier.
	Flatten(ctx context.Context, groups []roster.Group, reports []UserDayReport) ([]FlatRow, error)
}

type ReportGenerator struct {
	client           jira.Client
	holidays         holiday.Service
	settings         SettingsRepository
	defaultEpicField string
	clock            utils.Clock
}

func NewReportGenerator(client jira.Client, holidays holiday.Service, settings SettingsRepository, defaultEpicField string, clock utils.Clock) *ReportGenerator {
	return &ReportGenerator{
		client:           client,
		holidays:         holidays,
		settings:         settings,
		defaultEpicField: defaultEpicField,
		clock:            clock,
	}
}

func (g *ReportGenerator) Generate(ctx context.Context, groups []roster.Group, from, to time.Time) (Report, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	users := roster.Users(groups)
	if len(users) == 0 {
		return Report{}, ErrMissingRoster
	}
	settings, err := g.settings.GetSettings(ctx, currentUser.Id)
	if err != nil {
		return Report{}, err
	}

	loc := settings.Location(currentUser.Settings.Timezone)
	start, end := calendarDay(from, loc), calendarDay(to, loc)
	var holidays holiday.Calendar = holiday.None{}
	if g.holidays != nil && !start.After(end) {
		holidays = g.holidays.CalendarFor(ctx, currentUser, start, end)
	}
	dates := ExpandDateRange(start, end, loc, holidays)

	epicField := currentUser.Settings.EpicNameField
	if epicField == "" {
		epicField = g.defaultEpicField
	}
	aggregator := NewAggregator(g.client, Options{Location: loc, Filter: settings.JQL, EpicNameField: epicField})
	result, err := aggregator.Fetch(ctx, roster.Names(users), start, end)
	if err != nil {
		return Report{}, err
	}

	flat, err := g.Flatten(ctx, groups, result.Reports)
	if err != nil {
		return Report{}, err
	}
	log.Debugf("Generated worklog report %s - %s with %d rows", dates.firstKey(), dates.lastKey(), len(flat))

	return Report{
		Snapshot: Snapshot{
			DateCells:      dates.Days,
			MonthBuckets:   dates.Months,
			UserDayReports: result.Reports,
			GeneratedAt:    g.clock.Now().UTC(),
			Zone:           loc.String(),
		},
		Groups:         groups,
		FlatRows:       flat,
		DroppedEntries: result.DroppedEntries,
	}, nil
}

func (g *ReportGenerator) Flatten(ctx context.Context, groups []roster.Group, reports []UserDayReport) ([]FlatRow, error) {
	baseUrl, err := g.client.BaseUrl(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	return ToFlatRows(groups, reports, func(key string) string { return jira.TicketUrl(baseUrl, key) })
}

func (r DateRange) firstKey() string {
	if len(r.Days) == 0 {
		return ""
	}
	return r.Days[0].DateKey
}

func (r DateRange) lastKey() string {
	if len(r.Days) == 0 {
		return ""
	}
	return r.Days[len(r.Days)-1].DateKey
}
