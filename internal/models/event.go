package models

import (
	"strings"
	"time"
)

// Event represents a standard calendar event.
// This is an internal representation, independent of any specific calendar provider.
type Event struct {
	ID          string    // Unique identifier for the event (from the source calendar)
	Title       string    // Summary or title of the event
	Description string    // Detailed description of the event
	StartTime   time.Time // Start time of the event
	EndTime     time.Time // End time of the event
	Location    string    // Location of the event
	Organizer   string    // Organizer's email
	Creator     string    // Creator's email
	Attendees   []string  // List of attendee emails
	UID         string    // The iCalendar UID of the event, if the provider supplies one
}

// Emails collects attendee, organizer and creator addresses, lower-cased and
// deduplicated while preserving order.
func (e *Event) Emails() []string {
	var out []string
	seen := make(map[string]bool)

	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		out = append(out, email)
	}

	for _, a := range e.Attendees {
		add(a)
	}
	add(e.Organizer)
	add(e.Creator)
	return out
}

// Company is the prospect company resolved from an event's guest list.
type Company struct {
	Name   string // Display name, "Unknown" when nothing could be resolved
	Domain string // Base domain (e.g. "acme.com"), may be empty
}

// Brief is the finished artifact of one run: the selected event plus
// everything that was produced from it.
type Brief struct {
	Event         Event
	Company       Company
	DocumentID    string // Drive file id of the copied deck
	Link          string // Web view link of the copied deck
	Summary       string // Generated briefing text, may be empty
	POCEmails     string // Comma-joined guest emails as rendered into the deck
	ResourcesText string // Markdown bullet list of selected resource links
}
