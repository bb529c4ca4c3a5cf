package holiday

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Provider loads the holidays of a date range.
type Provider interface {
	Holidays(ctx context.Context, calendarId string, from time.Time, to time.Time) (Dates, error)
}

// GoogleProvider reads all-day events of a public Google calendar, e.g.
// en.usa#holiday@group.v.calendar.google.com, using an API key.
type GoogleProvider struct {
	apiKey   string
	endpoint string
}

func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{apiKey: apiKey}
}

func (p *GoogleProvider) prepareService(ctx context.Context) (*gcal.Service, error) {
	opts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		log.Errorf("unable to create Google Calendar client: %v", err)
		return nil, err
	}
	return service, nil
}

func (p *GoogleProvider) Holidays(ctx context.Context, calendarId string, from time.Time, to time.Time) (Dates, error) {
	service, err := p.prepareService(ctx)
	if err != nil {
		return nil, err
	}

	holidays := Dates{}
	call := service.Events.List(calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.AddDate(0, 0, 1).Format(time.RFC3339)).
		SingleEvents(true).
		MaxResults(250)
	err = call.Pages(ctx, func(events *gcal.Events) error {
		for _, event := range events.Items {
			if event.Start == nil || event.Start.Date == "" {
				// holidays are all-day events, timed entries are ignored
				continue
			}
			if err := addAllDayEvent(holidays, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("unable to retrieve holidays from Google Calendar: %w", err)
		log.Error(err)
		return nil, err
	}
	log.Debugf("Loaded %d holidays from calendar %s", len(holidays), calendarId)
	return holidays, nil
}

func addAllDayEvent(holidays Dates, event *gcal.Event) error {
	start, err := time.Parse(time.DateOnly, event.Start.Date)
	if err != nil {
		return fmt.Errorf("invalid holiday start date %q: %w", event.Start.Date, err)
	}
	end := start.AddDate(0, 0, 1)
	if event.End != nil && event.End.Date != "" {
		// end date is exclusive
		if end, err = time.Parse(time.DateOnly, event.End.Date); err != nil {
			return fmt.Errorf("invalid holiday end date %q: %w", event.End.Date, err)
		}
	}
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		holidays.Add(day, event.Summary)
	}
	return nil
}
