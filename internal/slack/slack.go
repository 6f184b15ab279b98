// Package slack posts finished briefs to a Slack incoming webhook using
// Block Kit blocks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
)

const timeout = 10 * time.Second

// Client posts messages to a single configured incoming webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a webhook client.
func NewClient(logger *slog.Logger, webhookURL string) (*Client, error) {
	if webhookURL == "" {
		return nil, &models.ValidationError{Field: "SLACK_WEBHOOK_URL", Reason: "must be set"}
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type textObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type buttonElement struct {
	Type  string     `json:"type"`
	Text  textObject `json:"text"`
	URL   string     `json:"url"`
	Style string     `json:"style,omitempty"`
}

type block struct {
	Type     string          `json:"type"`
	Text     *textObject     `json:"text,omitempty"`
	Fields   []textObject    `json:"fields,omitempty"`
	Elements []buttonElement `json:"elements,omitempty"`
}

// Notify posts one message for the finished brief. A delivery failure is a
// ProviderError; the deck the brief points at is unaffected either way.
func (c *Client) Notify(ctx context.Context, brief models.Brief) error {
	payload := struct {
		Blocks []block `json:"blocks"`
	}{Blocks: buildBlocks(brief)}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.ProviderError{Provider: "slack", Op: "webhook.post", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &models.ProviderError{
			Provider: "slack",
			Op:       "webhook.post",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	c.logger.Info("Posted brief to Slack", "company", brief.Company.Name)
	return nil
}

// buildBlocks lays out the message: header, event facts, summary, optional
// resource list, then the Open Slides button last.
func buildBlocks(brief models.Brief) []block {
	emails := brief.POCEmails
	if emails == "" {
		emails = "—"
	}
	summaryText := brief.Summary
	if summaryText == "" {
		summaryText = "_(no summary)_"
	}

	blocks := []block{
		{
			Type: "header",
			Text: &textObject{Type: "plain_text", Text: "POC Slides Brief — " + brief.Company.Name, Emoji: true},
		},
		{
			Type: "section",
			Fields: []textObject{
				{Type: "mrkdwn", Text: "*Event:*\n" + brief.Event.Title},
				{Type: "mrkdwn", Text: "*When:*\n" + brief.Event.StartTime.Format("2006-01-02 15:04")},
				{Type: "mrkdwn", Text: "*POC Emails:*\n" + emails},
			},
		},
		{
			Type: "section",
			Text: &textObject{Type: "mrkdwn", Text: summaryText},
		},
	}

	if brief.ResourcesText != "" {
		blocks = append(blocks, block{
			Type: "section",
			Text: &textObject{Type: "mrkdwn", Text: brief.ResourcesText},
		})
	}

	blocks = append(blocks, block{
		Type: "actions",
		Elements: []buttonElement{
			{
				Type:  "button",
				Text:  textObject{Type: "plain_text", Text: "Open Slides"},
				URL:   brief.Link,
				Style: "primary",
			},
		},
	})
	return blocks
}
