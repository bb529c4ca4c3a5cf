package worklog

import (
	"testing"
	"time"

	"github.com/jiraassist/dashboard/pkg/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDateRange(t *testing.T) {
	t.Run("should list every day once in ascending order", func(t *testing.T) {
		// when
		dateRange := ExpandDateRange(date(2024, 1, 30), date(2024, 2, 2), time.UTC, nil)

		// then
		require.Len(t, dateRange.Days, 4)
		keys := make([]string, 0, len(dateRange.Days))
		for _, d := range dateRange.Days {
			keys = append(keys, d.DateKey)
		}
		assert.Equal(t, []string{"20240130", "20240131", "20240201", "20240202"}, keys)
		assert.Equal(t, "Tue, 30", dateRange.Days[0].DisplayLabel)
		assert.Equal(t, []MonthBucket{{MonthLabel: "Jan, 2024", DayCount: 2}, {MonthLabel: "Feb, 2024", DayCount: 2}}, dateRange.Months)
	})

	t.Run("should return a single day for equal bounds", func(t *testing.T) {
		dateRange := ExpandDateRange(date(2024, 3, 5), date(2024, 3, 5), time.UTC, nil)

		require.Len(t, dateRange.Days, 1)
		assert.Equal(t, "20240305", dateRange.Days[0].DateKey)
	})

	t.Run("should return nothing when from is after to", func(t *testing.T) {
		dateRange := ExpandDateRange(date(2024, 1, 2), date(2024, 1, 1), time.UTC, nil)

		assert.Empty(t, dateRange.Days)
		assert.Empty(t, dateRange.Months)
	})

	t.Run("should count days across a DST change", func(t *testing.T) {
		// given
		warsaw, err := time.LoadLocation("Europe/Warsaw")
		require.NoError(t, err)

		// when
		dateRange := ExpandDateRange(date(2024, 3, 30), date(2024, 4, 1), warsaw, nil)

		// then
		require.Len(t, dateRange.Days, 3)
		assert.Equal(t, "20240331", dateRange.Days[1].DateKey)
		assert.Equal(t, warsaw, dateRange.Days[1].Date.Location())
	})

	t.Run("should mark holidays from the calendar", func(t *testing.T) {
		// given
		workWeek := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
		newYear := holiday.Dates{}
		newYear.Add(date(2024, 1, 1), "New Year's Day")
		calendar := holiday.Combined{holiday.NewWeekendCalendar(workWeek), newYear}

		// when
		dateRange := ExpandDateRange(date(2024, 1, 1), date(2024, 1, 7), time.UTC, calendar)

		// then
		holidays := make([]string, 0)
		for _, d := range dateRange.Days {
			if d.IsHoliday {
				holidays = append(holidays, d.DateKey)
			}
		}
		assert.Equal(t, []string{"20240101", "20240106", "20240107"}, holidays)
	})
}
