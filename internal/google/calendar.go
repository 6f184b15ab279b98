package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
}

// NewCalendarClient creates a new Google Calendar client on top of an
// authenticated HTTP client.
func NewCalendarClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client) (*CalendarClient, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service, logger: logger}, nil
}

// FindEvents fetches events in [from, to) whose title contains term as a
// case-insensitive substring, ordered by start time ascending. An empty
// result is not an error. The provider's own keyword matching is used as a
// pre-filter only; the substring contract is enforced locally.
func (c *CalendarClient) FindEvents(ctx context.Context, calendarID, term string, from, to time.Time) ([]models.Event, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &models.ValidationError{Field: "search term", Reason: "must not be empty"}
	}

	c.logger.Debug("Fetching events", "calendarID", calendarID, "term", term, "from", from, "to", to)

	result, err := c.service.Events.List(calendarID).
		Q(term).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &models.ProviderError{Provider: "calendar", Op: "events.list", Err: err}
	}

	events := FilterByTerm(toInternalEvents(result.Items), term)
	c.logger.Info("Fetched matching events from Google Calendar", "count", len(events), "calendarID", calendarID)
	return events, nil
}

// FilterByTerm keeps events whose title contains term as a case-insensitive
// substring, sorted by start time ascending.
func FilterByTerm(events []models.Event, term string) []models.Event {
	term = strings.ToLower(term)
	var out []models.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), term) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// toInternalEvents converts Google Calendar events to the internal Event model.
func toInternalEvents(googleEvents []*calendar.Event) []models.Event {
	var internalEvents []models.Event
	for _, item := range googleEvents {
		start, ok := parseEventTime(item.Start)
		if !ok {
			continue
		}
		end, _ := parseEventTime(item.End)

		var attendees []string
		for _, a := range item.Attendees {
			attendees = append(attendees, a.Email)
		}

		event := models.Event{
			ID:          item.Id,
			Title:       item.Summary,
			Description: item.Description,
			StartTime:   start,
			EndTime:     end,
			Location:    item.Location,
			Attendees:   attendees,
			UID:         item.ICalUID,
		}
		if item.Organizer != nil {
			event.Organizer = item.Organizer.Email
		}
		if item.Creator != nil {
			event.Creator = item.Creator.Email
		}
		internalEvents = append(internalEvents, event)
	}
	return internalEvents
}

// parseEventTime handles both timed events (dateTime) and all-day events
// (date, taken as midnight).
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	if t.Date != "" {
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
