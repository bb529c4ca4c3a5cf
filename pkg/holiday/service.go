package holiday

import (
	"context"
	"time"

	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// CalendarFor returns the non-working days of a user for the given range.
	CalendarFor(ctx context.Context, u user.User, from time.Time, to time.Time) Calendar
}

type ServiceImpl struct {
	provider          Provider
	defaultCalendarId string
}

// NewService creates the holiday service. provider may be nil, then only weekends are marked.
func NewService(provider Provider, defaultCalendarId string) *ServiceImpl {
	return &ServiceImpl{provider: provider, defaultCalendarId: defaultCalendarId}
}

func (s *ServiceImpl) CalendarFor(ctx context.Context, u user.User, from time.Time, to time.Time) Calendar {
	weekends := NewWeekendCalendar(u.Settings.WorkingDaysOrDefault())

	calendarId := u.Settings.HolidayCalendarId
	if calendarId == "" {
		calendarId = s.defaultCalendarId
	}
	if s.provider == nil || calendarId == "" {
		return weekends
	}

	holidays, err := s.provider.Holidays(ctx, calendarId, from, to)
	if err != nil {
		log.Warnf("public holidays unavailable, marking weekends only: %v", err)
		return weekends
	}
	return Combined{weekends, holidays}
}
