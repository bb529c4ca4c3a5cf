package worklog

import (
	"time"

	"github.com/jiraassist/dashboard/pkg/holiday"
)

// calendarDay returns midnight in loc of the calendar date written in t. Only the year, month
// and day of t are used, so a date parsed in any zone keeps its day.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ExpandDateRange lists every calendar day from from to to inclusive, in loc, together with
// the months they fall in. The range is empty when from is after to.
func ExpandDateRange(from, to time.Time, loc *time.Location, holidays holiday.Calendar) DateRange {
	if holidays == nil {
		holidays = holiday.None{}
	}
	start := calendarDay(from, loc)
	end := calendarDay(to, loc)

	days := make([]DateCell, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, DateCell{
			DateKey:      day.Format(dateKeyLayout),
			DisplayLabel: day.Format(dayLabelLayout),
			Date:         day,
			IsHoliday:    holidays.IsHoliday(day),
		})
	}

	months := make([]MonthBucket, 0)
	for _, group := range GroupBy(days, func(d DateCell) string { return d.Date.Format(monthLabelLayout) }) {
		months = append(months, MonthBucket{MonthLabel: group.Key, DayCount: len(group.Values)})
	}
	return DateRange{Days: days, Months: months}
}
