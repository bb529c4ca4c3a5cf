package holiday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleProvider_Holidays(t *testing.T) {
	t.Run("should read all-day events as holidays", func(t *testing.T) {
		// given
		var apiKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey = r.URL.Query().Get("key")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"summary": "New Year's Day", "start": map[string]any{"date": "2024-01-01"}, "end": map[string]any{"date": "2024-01-02"}},
					{"summary": "Festival", "start": map[string]any{"date": "2024-01-04"}, "end": map[string]any{"date": "2024-01-06"}},
					{"summary": "Meeting", "start": map[string]any{"dateTime": "2024-01-03T10:00:00Z"}},
				},
			})
		}))
		defer server.Close()
		provider := &GoogleProvider{apiKey: "test-key", endpoint: server.URL + "/"}

		// when
		holidays, err := provider.Holidays(context.Background(), "en.usa#holiday@group.v.calendar.google.com", day(2024, 1, 1), day(2024, 1, 7))

		// then
		require.NoError(t, err)
		assert.Equal(t, "test-key", apiKey)
		assert.Len(t, holidays, 3)
		assert.True(t, holidays.IsHoliday(day(2024, 1, 1)))
		assert.True(t, holidays.IsHoliday(day(2024, 1, 4)))
		assert.True(t, holidays.IsHoliday(day(2024, 1, 5)))
		assert.False(t, holidays.IsHoliday(day(2024, 1, 3)))
		assert.False(t, holidays.IsHoliday(day(2024, 1, 6)))
	})

	t.Run("should fail when the API rejects the request", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
		}))
		defer server.Close()
		provider := &GoogleProvider{apiKey: "bad", endpoint: server.URL + "/"}

		// when
		_, err := provider.Holidays(context.Background(), "calendar", day(2024, 1, 1), day(2024, 1, 7))

		// then
		assert.Error(t, err)
	})
}
