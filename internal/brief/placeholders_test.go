package brief

import (
	"testing"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
)

func TestBuildPlaceholders(t *testing.T) {
	ev := models.Event{
		Title:     "POC Review – Acme",
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Attendees: []string{"a@x.com", "b@x.com"},
	}
	comp := models.Company{Name: "Acme", Domain: "acme.com"}

	got := BuildPlaceholders(ev, comp, "")

	want := map[string]string{
		TokenCompanyName: "Acme",
		TokenPOCEmails:   "a@x.com, b@x.com",
		TokenEventTitle:  "POC Review – Acme",
		TokenEventTime:   "2024-06-01 10:00",
		TokenResources:   "—",
	}
	if len(got) != len(want) {
		t.Fatalf("BuildPlaceholders() has %d tokens, want %d", len(got), len(want))
	}
	for token, value := range want {
		if got[token] != value {
			t.Errorf("token %s = %q, want %q", token, got[token], value)
		}
	}
}

func TestBuildPlaceholders_WithResources(t *testing.T) {
	ev := models.Event{Title: "POC", StartTime: time.Now()}
	got := BuildPlaceholders(ev, models.Company{Name: "Acme"}, "• *AWS*: https://example.com/aws")
	if got[TokenResources] != "• *AWS*: https://example.com/aws" {
		t.Errorf("resources token = %q", got[TokenResources])
	}
}
