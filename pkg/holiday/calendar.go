package holiday

import (
	"slices"
	"time"
)

const dateKeyLayout = "20060102"

// Calendar tells whether a calendar day is a non-working day. Only the date part of the
// given time, in its own location, is considered.
type Calendar interface {
	IsHoliday(day time.Time) bool
}

// WeekendCalendar marks every day outside the working week.
type WeekendCalendar struct {
	workingDays []time.Weekday
}

func NewWeekendCalendar(workingDays []time.Weekday) WeekendCalendar {
	return WeekendCalendar{workingDays: workingDays}
}

func (c WeekendCalendar) IsHoliday(day time.Time) bool {
	return !slices.Contains(c.workingDays, day.Weekday())
}

// Dates is a fixed set of holidays keyed by day.
type Dates map[string]string

func (d Dates) Add(day time.Time, name string) {
	d[day.Format(dateKeyLayout)] = name
}

func (d Dates) IsHoliday(day time.Time) bool {
	_, ok := d[day.Format(dateKeyLayout)]
	return ok
}

// Name returns the holiday name of a day, empty when the day is not a holiday.
func (d Dates) Name(day time.Time) string {
	return d[day.Format(dateKeyLayout)]
}

// Combined reports a holiday when any of its calendars does.
type Combined []Calendar

func (c Combined) IsHoliday(day time.Time) bool {
	for _, calendar := range c {
		if calendar != nil && calendar.IsHoliday(day) {
			return true
		}
	}
	return false
}

// None is a calendar without holidays.
type None struct{}

func (None) IsHoliday(time.Time) bool {
	return false
}
