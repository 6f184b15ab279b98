package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/brief"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/company"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/config"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/google"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/resources"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/slack"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/summary"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func main() {
	// Reads .env via godotenv first; a missing file is fine.
	cfg := config.Load()

	app := &cli.App{
		Name:  "pocbrief",
		Usage: "Generate a POC briefing deck from a calendar event.",
		Commands: []*cli.Command{
			authCommand(cfg),
			eventsCommand(cfg),
			resourcesCommand(cfg),
			briefCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			slog.Error("Authentication required. Run 'pocbrief auth' and try again.", "error", err)
		} else {
			slog.Error("Application failed", "error", err)
		}
		os.Exit(1)
	}
}

func authCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Google and cache the API token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(cfg.LogLevel)
			logger.Info("Starting Google authentication flow.")

			oauthCfg, err := google.OAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.OAuthClientJSON)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(oauthCfg, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			tokenPath, err := google.TokenPath()
			if err != nil {
				return err
			}
			if err := google.SaveToken(tokenPath, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenPath)
			return nil
		},
	}
}

func eventsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List upcoming calendar events matching a search term.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "term", Value: "POC", Usage: "Substring to match against event titles (case-insensitive)."},
			&cli.IntFlag{Name: "days", Value: 14, Usage: "How many days ahead to search."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(cfg.LogLevel)

			runner, err := newRunner(c, logger, cfg, true, false)
			if err != nil {
				return err
			}

			from := time.Now()
			to := from.Add(time.Duration(c.Int("days")) * 24 * time.Hour)
			events, err := runner.FindMatches(c.Context, c.String("term"), from, to)
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Printf("No events matching %q in the next %d day(s).\n", c.String("term"), c.Int("days"))
				return nil
			}
			for i, ev := range events {
				fmt.Printf("[%d] %s  %s  (%s)\n", i, ev.StartTime.Format("2006-01-02 15:04"), ev.Title, strings.Join(ev.Emails(), ", "))
			}
			return nil
		},
	}
}

func resourcesCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "resources",
		Usage: "List the resource links available for --resource on the brief command.",
		Action: func(c *cli.Context) error {
			for i, r := range cfg.Resources {
				fmt.Printf("[%d] %s — %s\n", i, r.Label, r.URL)
			}
			return nil
		},
	}
}

func briefCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "brief",
		Usage: "Run one briefing: copy the template deck, fill placeholders, summarize and notify.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "term", Value: "POC", Usage: "Substring to match against event titles (case-insensitive)."},
			&cli.IntFlag{Name: "days", Value: 14, Usage: "How many days ahead to search."},
			&cli.IntFlag{Name: "pick", Value: 0, Usage: "Index of the matching event to brief (see the events command)."},
			&cli.IntSliceFlag{Name: "resource", Usage: "Index of a resource link to include (repeatable, see the resources command)."},
			&cli.BoolFlag{Name: "no-slack", Usage: "Skip posting the brief to Slack even when a webhook is configured."},
			&cli.BoolFlag{Name: "ics", Usage: "Also export the selected event as a .ics file in the current directory."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(cfg.LogLevel)

			if err := cfg.ValidateForBrief(); err != nil {
				return err
			}

			notify := !c.Bool("no-slack") && cfg.SlackWebhookURL != ""
			runner, err := newRunner(c, logger, cfg, false, notify)
			if err != nil {
				return err
			}

			from := time.Now()
			to := from.Add(time.Duration(c.Int("days")) * 24 * time.Hour)
			params := brief.Params{
				Term:      c.String("term"),
				From:      from,
				To:        to,
				Pick:      c.Int("pick"),
				Resources: resources.Select(cfg.Resources, c.IntSlice("resource")),
			}
			if c.Bool("ics") {
				params.ICSDir = "."
			}

			res, err := runner.Run(c.Context, params)
			if err != nil {
				return err
			}

			if res.State == brief.StateNoMatch {
				fmt.Printf("No events matching %q in the next %d day(s). Nothing to do.\n", c.String("term"), c.Int("days"))
				return nil
			}

			b := res.Brief
			fmt.Printf("Brief generated for %s.\n", b.Company.Name)
			fmt.Printf("Slides: %s\n", b.Link)
			if b.Summary != "" {
				fmt.Printf("\n%s\n", b.Summary)
			}
			if res.ICSPath != "" {
				fmt.Printf("Event exported to %s\n", res.ICSPath)
			}
			return nil
		},
	}
}

// newRunner wires the Google clients and optional summarizer/notifier into a
// brief.Runner. eventsOnly skips Drive/Slides/summary/notify setup for the
// read-only commands.
func newRunner(c *cli.Context, logger *slog.Logger, cfg *config.Config, eventsOnly, notify bool) (*brief.Runner, error) {
	oauthCfg, err := google.OAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.OAuthClientJSON)
	if err != nil {
		return nil, err
	}
	httpClient, err := google.HTTPClient(c.Context, oauthCfg)
	if err != nil {
		return nil, err
	}

	calClient, err := google.NewCalendarClient(c.Context, logger, httpClient)
	if err != nil {
		return nil, err
	}

	var (
		decks      brief.DeckCopier
		slidesC    brief.PlaceholderFiller
		summarizer brief.Summarizer
		notifier   brief.Notifier
	)

	if !eventsOnly {
		driveClient, err := google.NewDriveClient(c.Context, logger, httpClient)
		if err != nil {
			return nil, err
		}
		decks = driveClient

		slidesClient, err := google.NewSlidesClient(c.Context, logger, httpClient)
		if err != nil {
			return nil, err
		}
		slidesC = slidesClient

		if cfg.OpenAIKey != "" {
			gen, err := summary.NewGenerator(logger, cfg.OpenAIKey)
			if err != nil {
				return nil, err
			}
			summarizer = gen
		} else {
			logger.Warn("OPENAI_API_KEY not set; briefs will have no summary.")
		}

		if notify {
			slackClient, err := slack.NewClient(logger, cfg.SlackWebhookURL)
			if err != nil {
				return nil, err
			}
			notifier = slackClient
		}
	}

	resolver := company.NewResolver(cfg.InternalDomains, cfg.IgnoreDomains, cfg.DomainPriority, cfg.DomainNameMap)

	return brief.NewRunner(logger, calClient, decks, slidesC, summarizer, notifier, resolver, brief.Options{
		CalendarID:         cfg.CalendarID,
		TemplateID:         cfg.TemplateID,
		ExcludedDomain:     cfg.ExcludedDomain,
		ExclusionMode:      cfg.ExclusionMode,
		FailOnSummaryError: cfg.SummaryPolicy == config.SummaryPolicyFail,
	}), nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
