package google

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"fitbook/internal/refdate"
	"fitbook/internal/reservation"
)

const eventTimeZone = "Asia/Seoul"

// CalendarClient implements reservation.Calendar on Google Calendar v3.
type CalendarClient struct {
	svc        *calendar.Service
	calendarID string
}

// NewCalendarClient wraps an authenticated calendar service.
func NewCalendarClient(svc *calendar.Service, calendarID string) *CalendarClient {
	return &CalendarClient{svc: svc, calendarID: calendarID}
}

// ListEvents returns events overlapping [timeMin, timeMax], expanded to
// single events in start order. A zero timeMax leaves the range open.
func (c *CalendarClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]reservation.Event, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		TimeZone(eventTimeZone).
		Context(ctx)
	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]reservation.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := fromAPIEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

// GetEvent fetches a single event by id.
func (c *CalendarClient) GetEvent(ctx context.Context, id string) (*reservation.Event, error) {
	item, err := c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return fromAPIEvent(item)
}

// InsertEvent creates the event with the fixed reminder overrides the
// studio uses (email an hour before, popup half an hour before).
func (c *CalendarClient) InsertEvent(ctx context.Context, in reservation.EventInput) (*reservation.Event, error) {
	item, err := c.svc.Events.Insert(c.calendarID, toAPIEvent(in)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return fromAPIEvent(item)
}

// UpdateEvent replaces the event in place.
func (c *CalendarClient) UpdateEvent(ctx context.Context, id string, in reservation.EventInput) (*reservation.Event, error) {
	item, err := c.svc.Events.Update(c.calendarID, id, toAPIEvent(in)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return fromAPIEvent(item)
}

func toAPIEvent(in reservation.EventInput) *calendar.Event {
	return &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.Start.Format(time.RFC3339),
			TimeZone: eventTimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: in.End.Format(time.RFC3339),
			TimeZone: eventTimeZone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

func fromAPIEvent(item *calendar.Event) (*reservation.Event, error) {
	ev := &reservation.Event{
		ID:      item.Id,
		Summary: item.Summary,
	}

	// An all-day event carries a date instead of a dateTime.
	if item.Start != nil && item.Start.Date != "" {
		day, err := refdate.Parse(item.Start.Date)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", item.Id, err)
		}
		ev.AllDay = true
		ev.Start = day.StartOfDay()
		ev.End = day.EndOfDay()
		return ev, nil
	}

	if item.Start != nil && item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", item.Id, err)
		}
		ev.Start = start
	}
	if item.End != nil && item.End.DateTime != "" {
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return nil, fmt.Errorf("event %s end: %w", item.Id, err)
		}
		ev.End = end
	}
	return ev, nil
}
