package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDataInvalid = errors.New("invalid user data")
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	Timezone string
	// MaxHoursPerDay marks days over this many logged hours in the grouped report.
	MaxHoursPerDay int
	// EpicNameField is the Jira custom field id holding the epic name, e.g. customfield_10011.
	EpicNameField     string
	JiraUrl           string
	WorkingDays       []time.Weekday
	HolidayCalendarId string
}

var defaultWorkingDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// MaxSecondsPerDay returns the configured daily maximum in seconds, 8 hours when unset.
func (s Settings) MaxSecondsPerDay() int {
	hours := s.MaxHoursPerDay
	if hours <= 0 {
		hours = 8
	}
	return hours * 60 * 60
}

func (s Settings) WorkingDaysOrDefault() []time.Weekday {
	if len(s.WorkingDays) == 0 {
		return defaultWorkingDays
	}
	return s.WorkingDays
}
