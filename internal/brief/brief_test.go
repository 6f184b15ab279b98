package brief

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/company"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/summary"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEvents struct {
	events []models.Event
	err    error
}

func (f *fakeEvents) FindEvents(ctx context.Context, calendarID, term string, from, to time.Time) ([]models.Event, error) {
	return f.events, f.err
}

type fakeDecks struct {
	copies   int
	copyErr  error
	linkErr  error
	lastName string
}

func (f *fakeDecks) CopyTemplate(ctx context.Context, templateID, name string) (string, error) {
	if f.copyErr != nil {
		return "", f.copyErr
	}
	f.copies++
	f.lastName = name
	return fmt.Sprintf("doc-%d", f.copies), nil
}

func (f *fakeDecks) WebViewLink(ctx context.Context, fileID string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://docs.example.com/" + fileID, nil
}

type fakeSlides struct {
	replacements map[string]string
	err          error
}

func (f *fakeSlides) ReplaceAll(ctx context.Context, presentationID string, replacements map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.replacements = replacements
	return nil
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req summary.Request) (string, error) {
	return f.text, f.err
}

type fakeNotifier struct {
	notified int
	last     models.Brief
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, b models.Brief) error {
	if f.err != nil {
		return f.err
	}
	f.notified++
	f.last = b
	return nil
}

func acmeEvent() models.Event {
	return models.Event{
		ID:        "ev1",
		Title:     "POC Review – Acme",
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		Attendees: []string{"a@x.com", "b@x.com"},
	}
}

func testResolver() *company.Resolver {
	return company.NewResolver([]string{"kempfenterprise.com"}, nil, nil, nil)
}

func newTestRunner(events *fakeEvents, decks *fakeDecks, slides *fakeSlides, sum Summarizer, not Notifier, opts Options) *Runner {
	if opts.CalendarID == "" {
		opts.CalendarID = "primary"
	}
	if opts.TemplateID == "" {
		opts.TemplateID = "tmpl-1"
	}
	if opts.ExclusionMode == "" {
		opts.ExclusionMode = "any"
	}
	return NewRunner(testLogger(), events, decks, slides, sum, not, testResolver(), opts)
}

func TestRun_HappyPath(t *testing.T) {
	events := &fakeEvents{events: []models.Event{acmeEvent()}}
	decks := &fakeDecks{}
	slides := &fakeSlides{}
	sum := &fakeSummarizer{text: "Acme builds anvils."}
	not := &fakeNotifier{}

	r := newTestRunner(events, decks, slides, sum, not, Options{})
	res, err := r.Run(context.Background(), Params{Term: "POC", Pick: 0})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.State != StateDone {
		t.Errorf("State = %s, want %s", res.State, StateDone)
	}
	if res.Brief == nil {
		t.Fatal("Brief is nil")
	}
	if res.Brief.DocumentID != "doc-1" || res.Brief.Link != "https://docs.example.com/doc-1" {
		t.Errorf("Brief document = %q / %q", res.Brief.DocumentID, res.Brief.Link)
	}
	if res.Brief.Summary != "Acme builds anvils." {
		t.Errorf("Summary = %q", res.Brief.Summary)
	}
	if res.Brief.Company.Name != "X" || res.Brief.Company.Domain != "x.com" {
		t.Errorf("Company = %+v, want x.com", res.Brief.Company)
	}
	if not.notified != 1 {
		t.Errorf("notified %d times, want 1", not.notified)
	}
	if decks.lastName != "X - POC Brief (2024-06-01T10:00:00Z)" {
		t.Errorf("deck name = %q", decks.lastName)
	}
	if slides.replacements[TokenEventTime] != "2024-06-01 10:00" {
		t.Errorf("filled tokens = %v", slides.replacements)
	}
}

func TestRun_EachRunCopiesAFreshDeck(t *testing.T) {
	events := &fakeEvents{events: []models.Event{acmeEvent()}}
	decks := &fakeDecks{}

	r := newTestRunner(events, decks, &fakeSlides{}, nil, nil, Options{})

	first, err := r.Run(context.Background(), Params{Term: "POC"})
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	second, err := r.Run(context.Background(), Params{Term: "POC"})
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if first.Brief.DocumentID == second.Brief.DocumentID {
		t.Errorf("both runs used document %q; each run must copy a fresh deck", first.Brief.DocumentID)
	}
	if first.RunID == second.RunID {
		t.Error("run ids should be unique per run")
	}
}

func TestRun_NoMatch(t *testing.T) {
	events := &fakeEvents{events: nil}
	decks := &fakeDecks{}

	r := newTestRunner(events, decks, &fakeSlides{}, nil, nil, Options{})
	res, err := r.Run(context.Background(), Params{Term: "Zephyr"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != StateNoMatch {
		t.Errorf("State = %s, want %s", res.State, StateNoMatch)
	}
	if decks.copies != 0 {
		t.Errorf("copy attempted on no match: %d copies", decks.copies)
	}
}

func TestRun_DomainExclusionLeadsToNoMatch(t *testing.T) {
	internalOnly := acmeEvent()
	internalOnly.Attendees = []string{"me@kempfenterprise.com"}

	events := &fakeEvents{events: []models.Event{internalOnly}}
	decks := &fakeDecks{}

	r := newTestRunner(events, decks, &fakeSlides{}, nil, nil, Options{
		ExcludedDomain: "kempfenterprise.com",
	})
	res, err := r.Run(context.Background(), Params{Term: "POC"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != StateNoMatch {
		t.Errorf("State = %s, want %s", res.State, StateNoMatch)
	}
	if decks.copies != 0 {
		t.Errorf("copy attempted for excluded event")
	}
}

func TestRun_PickOutOfRange(t *testing.T) {
	events := &fakeEvents{events: []models.Event{acmeEvent()}}

	r := newTestRunner(events, &fakeDecks{}, &fakeSlides{}, nil, nil, Options{})
	res, err := r.Run(context.Background(), Params{Term: "POC", Pick: 5})

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Run() error = %v, want ValidationError", err)
	}
	if res.State != StateFailed {
		t.Errorf("State = %s, want %s", res.State, StateFailed)
	}
}

func TestRun_ProviderFailureSurfaces(t *testing.T) {
	events := &fakeEvents{err: &models.ProviderError{Provider: "calendar", Op: "events.list", Err: errors.New("boom")}}

	r := newTestRunner(events, &fakeDecks{}, &fakeSlides{}, nil, nil, Options{})
	res, err := r.Run(context.Background(), Params{Term: "POC"})

	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Run() error = %v, want ProviderError", err)
	}
	if res.State != StateFailed {
		t.Errorf("State = %s, want %s", res.State, StateFailed)
	}
}

func TestRun_SummaryFailurePolicies(t *testing.T) {
	summaryErr := &models.ProviderError{Provider: "openai", Op: "chat.completion", Err: errors.New("timeout")}

	t.Run("skip policy continues with empty summary", func(t *testing.T) {
		not := &fakeNotifier{}
		r := newTestRunner(
			&fakeEvents{events: []models.Event{acmeEvent()}},
			&fakeDecks{}, &fakeSlides{},
			&fakeSummarizer{err: summaryErr},
			not,
			Options{},
		)
		res, err := r.Run(context.Background(), Params{Term: "POC"})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if res.State != StateDone {
			t.Errorf("State = %s, want %s", res.State, StateDone)
		}
		if res.Brief.Summary != "" {
			t.Errorf("Summary = %q, want empty", res.Brief.Summary)
		}
		if not.notified != 1 {
			t.Errorf("notified %d times, want 1", not.notified)
		}
	})

	t.Run("fail policy aborts but keeps the deck", func(t *testing.T) {
		decks := &fakeDecks{}
		r := newTestRunner(
			&fakeEvents{events: []models.Event{acmeEvent()}},
			decks, &fakeSlides{},
			&fakeSummarizer{err: summaryErr},
			nil,
			Options{FailOnSummaryError: true},
		)
		res, err := r.Run(context.Background(), Params{Term: "POC"})
		if err == nil {
			t.Fatal("Run() expected error")
		}
		if res.State != StateFailed {
			t.Errorf("State = %s, want %s", res.State, StateFailed)
		}
		// The copy and fill already happened and are not rolled back.
		if decks.copies != 1 {
			t.Errorf("copies = %d, want 1", decks.copies)
		}
		if res.Brief.DocumentID == "" || res.Brief.Link == "" {
			t.Errorf("Brief should still carry the created deck: %+v", res.Brief)
		}
	})
}

func TestRun_NotifierFailureKeepsDeck(t *testing.T) {
	decks := &fakeDecks{}
	not := &fakeNotifier{err: &models.ProviderError{Provider: "slack", Op: "webhook.post", Err: errors.New("500")}}

	r := newTestRunner(
		&fakeEvents{events: []models.Event{acmeEvent()}},
		decks, &fakeSlides{},
		nil, not,
		Options{},
	)
	res, err := r.Run(context.Background(), Params{Term: "POC"})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if res.State != StateFailed {
		t.Errorf("State = %s, want %s", res.State, StateFailed)
	}
	if res.Brief.Link == "" {
		t.Error("Brief lost its deck link on notify failure")
	}
}

func TestRun_NilSummarizerAndNotifierAreSkipped(t *testing.T) {
	r := newTestRunner(
		&fakeEvents{events: []models.Event{acmeEvent()}},
		&fakeDecks{}, &fakeSlides{},
		nil, nil,
		Options{},
	)
	res, err := r.Run(context.Background(), Params{Term: "POC"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want %s", res.State, StateDone)
	}
	if res.Brief.Summary != "" {
		t.Errorf("Summary = %q, want empty", res.Brief.Summary)
	}
}

func TestFindMatches_AppliesExclusion(t *testing.T) {
	keep := acmeEvent()
	drop := acmeEvent()
	drop.ID = "ev2"
	drop.Attendees = []string{"colleague@kempfenterprise.com", "a@x.com"}

	r := newTestRunner(
		&fakeEvents{events: []models.Event{keep, drop}},
		&fakeDecks{}, &fakeSlides{},
		nil, nil,
		Options{ExcludedDomain: "kempfenterprise.com"},
	)
	got, err := r.FindMatches(context.Background(), "POC", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("FindMatches() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ev1" {
		t.Errorf("FindMatches() = %+v, want only ev1", got)
	}
}
