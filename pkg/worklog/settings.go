package worklog

import (
	"errors"
	"fmt"
	"time"

	"github.com/jiraassist/dashboard/internal/utils"
)

var ErrInvalidSettings = errors.New("invalid worklog settings")

const (
	LogFormatDecimal = ""
	LogFormatClock   = "1"

	TimeZoneUser = "1"
	TimeZoneUTC  = "2"

	BreakupNone    = ""
	BreakupComment = "1"
)

// Settings are the per user options of the worklog gadget.
type Settings struct {
	JQL         string
	LogFormat   string
	BreakupMode string
	TimeZone    string
}

func DefaultSettings() Settings {
	return Settings{TimeZone: TimeZoneUser}
}

func (s Settings) ClockFormat() bool {
	return s.LogFormat == LogFormatClock
}

// Location returns UTC or the zone of the user, depending on TimeZone.
func (s Settings) Location(userTimezone string) *time.Location {
	if s.TimeZone == TimeZoneUTC {
		return time.UTC
	}
	return utils.LoadLocation(userTimezone)
}

func (s Settings) validate() error {
	switch s.LogFormat {
	case LogFormatDecimal, LogFormatClock:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, s.LogFormat)
	}
	switch s.TimeZone {
	case TimeZoneUser, TimeZoneUTC:
	default:
		return fmt.Errorf("%w: unknown time zone option %q", ErrInvalidSettings, s.TimeZone)
	}
	switch s.BreakupMode {
	case BreakupNone, BreakupComment:
	default:
		return fmt.Errorf("%w: unknown breakup mode %q", ErrInvalidSettings, s.BreakupMode)
	}
	return nil
}
