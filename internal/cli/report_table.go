package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jiraassist/dashboard/pkg/roster"
	"github.com/jiraassist/dashboard/pkg/worklog"
)

// writeTable prints one row per user with the time logged on each day. Days over the
// daily maximum are marked with "!", holidays with "*" in the header.
func writeTable(out io.Writer, report worklog.Report, clock bool, maxSecsPerDay int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"User"}
	for _, day := range report.DateCells {
		label := day.DisplayLabel
		if day.IsHoliday {
			label += "*"
		}
		header = append(header, label)
	}
	header = append(header, "Total")
	writeRow(w, header)

	names := make(map[string]string)
	for _, u := range roster.Users(report.Groups) {
		names[u.LookupKey()] = u.DisplayName
	}

	for _, userReport := range report.UserDayReports {
		name, ok := names[userReport.UserName]
		if !ok {
			name = userReport.UserName
		}
		row := []string{name}
		for _, day := range worklog.DayTotals(userReport, report.DateCells, maxSecsPerDay) {
			row = append(row, cell(day.TotalSeconds, day.OverLimit, clock))
		}
		row = append(row, worklog.FormatSeconds(userReport.TotalSeconds, clock))
		writeRow(w, row)
	}

	total := []string{"Total"}
	for _, day := range report.DateCells {
		total = append(total, cell(worklog.GroupTotal(report.UserDayReports, report.Groups, "", day.DateKey), false, clock))
	}
	total = append(total, worklog.FormatSeconds(worklog.GroupTotal(report.UserDayReports, report.Groups, "", ""), clock))
	writeRow(w, total)

	if err := w.Flush(); err != nil {
		return err
	}
	if report.DroppedEntries > 0 {
		_, err := fmt.Fprintf(out, "%d worklogs of users outside the list were skipped\n", report.DroppedEntries)
		return err
	}
	return nil
}

func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
}

func cell(seconds int, overLimit bool, clock bool) string {
	if seconds == 0 {
		return "-"
	}
	value := worklog.FormatSeconds(seconds, clock)
	if overLimit {
		value += "!"
	}
	return value
}
