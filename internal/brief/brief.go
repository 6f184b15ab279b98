// Package brief orchestrates one end-to-end run: find a matching event, copy
// the template deck, fill its placeholders, generate the summary and hand the
// finished brief to the notifier. The orchestrator depends only on the
// capability interfaces below, so every collaborator can be replaced by a
// test double.
package brief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/company"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/resources"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/summary"
	"github.com/google/uuid"
)

// State is the position of a run in its lifecycle. Terminal states are
// StateNoMatch, StateDone and StateFailed.
type State string

const (
	StateIdle          State = "idle"
	StateSearching     State = "searching"
	StateNoMatch       State = "no_match"
	StateEventSelected State = "event_selected"
	StateCopying       State = "copying"
	StateFilling       State = "filling"
	StateSummarizing   State = "summarizing"
	StateNotifying     State = "notifying"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// EventSource finds calendar events matching a term within a time window.
type EventSource interface {
	FindEvents(ctx context.Context, calendarID, term string, from, to time.Time) ([]models.Event, error)
}

// DeckCopier duplicates the template deck and resolves its share link.
type DeckCopier interface {
	CopyTemplate(ctx context.Context, templateID, name string) (string, error)
	WebViewLink(ctx context.Context, fileID string) (string, error)
}

// PlaceholderFiller substitutes tokens in a copied deck in one atomic batch.
type PlaceholderFiller interface {
	ReplaceAll(ctx context.Context, presentationID string, replacements map[string]string) error
}

// Summarizer produces the briefing prose for an event/company pair.
type Summarizer interface {
	Summarize(ctx context.Context, req summary.Request) (string, error)
}

// Notifier delivers a finished brief.
type Notifier interface {
	Notify(ctx context.Context, brief models.Brief) error
}

// Options carries the run-independent settings.
type Options struct {
	CalendarID     string
	TemplateID     string
	ExcludedDomain string
	ExclusionMode  string
	// FailOnSummaryError aborts the run when the summary generator fails;
	// otherwise the run continues with an empty summary. The copied deck is
	// never rolled back either way.
	FailOnSummaryError bool
}

// Runner sequences runs. A nil summarizer or notifier simply disables that
// step; nothing else changes.
type Runner struct {
	logger     *slog.Logger
	events     EventSource
	decks      DeckCopier
	slides     PlaceholderFiller
	summarizer Summarizer
	notifier   Notifier
	resolver   *company.Resolver
	opts       Options
}

// NewRunner creates a Runner.
func NewRunner(logger *slog.Logger, events EventSource, decks DeckCopier, slides PlaceholderFiller, summarizer Summarizer, notifier Notifier, resolver *company.Resolver, opts Options) *Runner {
	return &Runner{
		logger:     logger,
		events:     events,
		decks:      decks,
		slides:     slides,
		summarizer: summarizer,
		notifier:   notifier,
		resolver:   resolver,
		opts:       opts,
	}
}

// Params are the per-run inputs.
type Params struct {
	Term      string
	From, To  time.Time
	Pick      int                  // index into the matches, after exclusion
	Resources []resources.Resource // selected resource links, may be empty
	ICSDir    string               // when set, the selected event is exported there as .ics
}

// Result reports how far a run got and what it produced.
type Result struct {
	RunID   string
	State   State
	Events  []models.Event // matches remaining after domain exclusion
	Brief   *models.Brief  // set once an event was selected
	ICSPath string         // set when the event export was written
}

// FindMatches returns the events matching term in [from, to), with the
// configured domain exclusion applied. Also used directly by the events
// command.
func (r *Runner) FindMatches(ctx context.Context, term string, from, to time.Time) ([]models.Event, error) {
	events, err := r.events.FindEvents(ctx, r.opts.CalendarID, term, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var kept []models.Event
	for _, ev := range events {
		if company.Excluded(ev.Emails(), r.opts.ExcludedDomain, r.opts.ExclusionMode) {
			r.logger.Debug("Excluding event by domain", "title", ev.Title)
			continue
		}
		kept = append(kept, ev)
	}
	return kept, nil
}

// Run executes one run. A Result is returned even on failure so the caller
// can see how far the run got; notably, a created deck survives any later
// step failing.
func (r *Runner) Run(ctx context.Context, p Params) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), State: StateIdle}
	log := r.logger.With("runID", res.RunID)

	fail := func(err error) (*Result, error) {
		res.State = StateFailed
		return res, err
	}

	res.State = StateSearching
	events, err := r.FindMatches(ctx, p.Term, p.From, p.To)
	if err != nil {
		return fail(err)
	}
	res.Events = events

	if len(events) == 0 {
		log.Info("No matching events", "term", p.Term)
		res.State = StateNoMatch
		return res, nil
	}

	if p.Pick < 0 || p.Pick >= len(events) {
		return fail(&models.ValidationError{
			Field:  "pick",
			Reason: fmt.Sprintf("index %d out of range, %d event(s) matched", p.Pick, len(events)),
		})
	}
	ev := events[p.Pick]
	res.State = StateEventSelected
	log.Info("Selected event", "title", ev.Title, "start", ev.StartTime)

	comp := r.resolver.Resolve(ev.Emails(), ev.Title, ev.Description)
	b := &models.Brief{
		Event:         ev,
		Company:       comp,
		POCEmails:     strings.Join(ev.Emails(), ", "),
		ResourcesText: resources.FormatMarkdown(p.Resources),
	}
	res.Brief = b

	if p.ICSDir != "" {
		path, err := WriteICS(p.ICSDir, ev)
		if err != nil {
			log.Warn("Could not export event as .ics", "error", err)
		} else {
			res.ICSPath = path
		}
	}

	res.State = StateCopying
	name := fmt.Sprintf("%s - POC Brief (%s)", comp.Name, ev.StartTime.Format(time.RFC3339))
	docID, err := r.decks.CopyTemplate(ctx, r.opts.TemplateID, name)
	if err != nil {
		return fail(err)
	}
	b.DocumentID = docID

	link, err := r.decks.WebViewLink(ctx, docID)
	if err != nil {
		return fail(err)
	}
	b.Link = link
	log.Info("Created deck from template", "documentID", docID)

	res.State = StateFilling
	if err := r.slides.ReplaceAll(ctx, docID, BuildPlaceholders(ev, comp, b.ResourcesText)); err != nil {
		return fail(err)
	}

	res.State = StateSummarizing
	if r.summarizer != nil {
		text, err := r.summarizer.Summarize(ctx, summary.Request{
			Company:       comp,
			POCEmails:     b.POCEmails,
			EventTitle:    ev.Title,
			EventTime:     ev.StartTime.Format("2006-01-02 15:04"),
			ResourcesText: b.ResourcesText,
		})
		if err != nil {
			if r.opts.FailOnSummaryError {
				return fail(err)
			}
			log.Warn("Summary generation failed, continuing without it", "error", err)
		} else {
			b.Summary = text
		}
	}

	if r.notifier != nil {
		res.State = StateNotifying
		if err := r.notifier.Notify(ctx, *b); err != nil {
			return fail(err)
		}
	}

	res.State = StateDone
	log.Info("Run finished", "company", comp.Name, "link", b.Link)
	return res, nil
}
