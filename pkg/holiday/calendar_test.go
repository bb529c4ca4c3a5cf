package holiday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jiraassist/dashboard/pkg/user"
	"github.com/stretchr/testify/assert"
)

var workWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekendCalendar(t *testing.T) {
	calendar := NewWeekendCalendar(workWeek)

	assert.False(t, calendar.IsHoliday(day(2024, 1, 5)))
	assert.True(t, calendar.IsHoliday(day(2024, 1, 6)))
	assert.True(t, calendar.IsHoliday(day(2024, 1, 7)))
}

func TestCombined(t *testing.T) {
	// given
	dates := Dates{}
	dates.Add(day(2024, 1, 1), "New Year's Day")
	calendar := Combined{NewWeekendCalendar(workWeek), dates}

	// then
	assert.True(t, calendar.IsHoliday(day(2024, 1, 1)))
	assert.True(t, calendar.IsHoliday(day(2024, 1, 6)))
	assert.False(t, calendar.IsHoliday(day(2024, 1, 2)))
	assert.Equal(t, "New Year's Day", dates.Name(day(2024, 1, 1)))
	assert.False(t, Combined{}.IsHoliday(day(2024, 1, 1)))
}

type providerStub struct {
	dates Dates
	err   error
	calls []string
}

func (p *providerStub) Holidays(_ context.Context, calendarId string, _ time.Time, _ time.Time) (Dates, error) {
	p.calls = append(p.calls, calendarId)
	return p.dates, p.err
}

func TestServiceImpl_CalendarFor(t *testing.T) {
	from, to := day(2024, 1, 1), day(2024, 1, 7)

	t.Run("should use only weekends without calendar id", func(t *testing.T) {
		// given
		provider := &providerStub{}
		service := NewService(provider, "")

		// when
		calendar := service.CalendarFor(context.Background(), user.User{}, from, to)

		// then
		assert.Empty(t, provider.calls)
		assert.False(t, calendar.IsHoliday(day(2024, 1, 1)))
		assert.True(t, calendar.IsHoliday(day(2024, 1, 6)))
	})

	t.Run("should prefer user calendar over default", func(t *testing.T) {
		// given
		dates := Dates{}
		dates.Add(day(2024, 1, 1), "New Year's Day")
		provider := &providerStub{dates: dates}
		service := NewService(provider, "default-calendar")
		u := user.User{Settings: user.Settings{HolidayCalendarId: "user-calendar"}}

		// when
		calendar := service.CalendarFor(context.Background(), u, from, to)

		// then
		assert.Equal(t, []string{"user-calendar"}, provider.calls)
		assert.True(t, calendar.IsHoliday(day(2024, 1, 1)))
	})

	t.Run("should fall back to weekends when provider fails", func(t *testing.T) {
		// given
		provider := &providerStub{err: errors.New("quota exceeded")}
		service := NewService(provider, "default-calendar")

		// when
		calendar := service.CalendarFor(context.Background(), user.User{}, from, to)

		// then
		assert.False(t, calendar.IsHoliday(day(2024, 1, 1)))
		assert.True(t, calendar.IsHoliday(day(2024, 1, 7)))
	})

	t.Run("should respect custom working days", func(t *testing.T) {
		// given
		service := NewService(nil, "")
		u := user.User{Settings: user.Settings{WorkingDays: []time.Weekday{time.Sunday, time.Monday}}}

		// when
		calendar := service.CalendarFor(context.Background(), u, from, to)

		// then
		assert.False(t, calendar.IsHoliday(day(2024, 1, 7)))
		assert.True(t, calendar.IsHoliday(day(2024, 1, 2)))
	})
}
