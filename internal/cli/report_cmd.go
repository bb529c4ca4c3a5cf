package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jiraassist/dashboard/internal/app"
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/jiraassist/dashboard/internal/utils"
	"github.com/jiraassist/dashboard/pkg/jira"
	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/user"
	"github.com/jiraassist/dashboard/pkg/worklog"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	users    []string
	from     string
	to       string
	jql      string
	group    string
	timezone string
	clock    bool
	csv      bool
}

func newReportCmd(loadConfig func() (config.Application, error)) *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the day wise worklog report of the given users",
		Example: "  jiradash report --users alice,bob --from 2024-01-01 --to 2024-01-31\n" +
			"  jiradash report --users alice --from 2024-01-01 --to 2024-01-07 --jql 'project = PROJ' > worklogs.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := jira.NewBasicClient(cfg.Jira.Url, cfg.Jira.Username, cfg.Jira.ApiToken, cfg.Jira.PageSize)
			settings := opts.settings()
			generator := worklog.NewReportGenerator(
				client,
				app.NewHolidayService(cfg.Google),
				worklog.FixedSettings{Settings: settings},
				cfg.Jira.EpicNameField,
				&utils.SystemClock{},
			)

			out := cmd.OutOrStdout()
			asCsv := opts.csv || !isTerminal(out)
			return runReport(cmd.Context(), generator, reportUser(cfg, opts), opts, out, asCsv)
		},
	}

	cmd.Flags().StringSliceVar(&opts.users, "users", nil, "Comma separated Jira user names")
	cmd.Flags().StringVar(&opts.from, "from", "", "First day of the report, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last day of the report, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.jql, "jql", "", "Additional JQL filter")
	cmd.Flags().StringVar(&opts.group, "group", "Users", "Group name the users are reported under")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA time zone of the report days, UTC when empty")
	cmd.Flags().BoolVar(&opts.clock, "clock", false, "Print durations as h:mm instead of decimal hours")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Print the flat worklog rows as CSV even on a terminal")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runReport(ctx context.Context, generator worklog.Generator, reportUser user.User, opts reportOptions, out io.Writer, asCsv bool) error {
	from, err := time.Parse(time.DateOnly, opts.from)
	if err != nil {
		return fmt.Errorf("invalid --from %q, expected YYYY-MM-DD", opts.from)
	}
	to, err := time.Parse(time.DateOnly, opts.to)
	if err != nil {
		return fmt.Errorf("invalid --to %q, expected YYYY-MM-DD", opts.to)
	}

	ctx = user.WithUser(ctx, reportUser)
	report, err := generator.Generate(ctx, []roster.Group{opts.rosterGroup()}, from, to)
	if err != nil {
		return err
	}

	settings := opts.settings()
	if asCsv {
		rendered, err := worklog.NewCsvRenderer().RenderFlatRows(report.FlatRows, settings.ClockFormat())
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err
	}
	return writeTable(out, report, settings.ClockFormat(), reportUser.Settings.MaxSecondsPerDay())
}

func (o reportOptions) settings() worklog.Settings {
	settings := worklog.Settings{JQL: o.jql, TimeZone: worklog.TimeZoneUser}
	if o.clock {
		settings.LogFormat = worklog.LogFormatClock
	}
	return settings
}

func (o reportOptions) rosterGroup() roster.Group {
	group := roster.Group{Name: o.group, Users: []roster.Member{}}
	for _, name := range o.users {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		group.Users = append(group.Users, roster.Member{Name: name, DisplayName: name})
	}
	return group
}

// reportUser stands in for the session user the server resolves from the request.
func reportUser(cfg config.Application, opts reportOptions) user.User {
	return user.User{
		Username:    cfg.Jira.Username,
		DisplayName: cfg.Jira.Username,
		Settings: user.Settings{
			Timezone:          opts.timezone,
			MaxHoursPerDay:    cfg.Report.MaxHours,
			EpicNameField:     cfg.Jira.EpicNameField,
			JiraUrl:           cfg.Jira.Url,
			HolidayCalendarId: cfg.Google.HolidayCalendarId,
		},
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
