package brief

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// WriteICS exports the selected event as a .ics file in dir, so it can be
// forwarded alongside the brief. Returns the path of the written file.
func WriteICS(dir string, ev models.Event) (string, error) {
	uid := ev.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, ev.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, ev.StartTime)
	if !ev.EndTime.IsZero() {
		ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndTime)
	}
	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//pocbrief//EN")
	cal.Children = append(cal.Children, ve)

	path := filepath.Join(dir, sanitizeFilename(uid)+".ics")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create ics file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.' || r == '@':
			return r
		}
		return '-'
	}, name)
}
