// Package summary generates the short pre-POC briefing text via the OpenAI
// chat completions API. Output is model-backed prose with no determinism
// guarantee.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a concise sales research assistant."

// Request carries the event and company context the prompt is built from.
type Request struct {
	Company       models.Company
	POCEmails     string
	EventTitle    string
	EventTime     string
	ResourcesText string
}

// Generator produces briefing text for one event/company pair.
type Generator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewGenerator creates a generator using the given API key.
func NewGenerator(logger *slog.Logger, apiKey string) (*Generator, error) {
	if apiKey == "" {
		return nil, &models.ValidationError{Field: "OPENAI_API_KEY", Reason: "must be set to generate summaries"}
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		logger: logger,
	}, nil
}

// newGeneratorWithConfig is used by tests to point the client at a fake server.
func newGeneratorWithConfig(logger *slog.Logger, cfg openai.ClientConfig) *Generator {
	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4oMini,
		logger: logger,
	}
}

// Summarize returns a short prose briefing for the request.
func (g *Generator) Summarize(ctx context.Context, req Request) (string, error) {
	g.logger.Debug("Generating summary", "company", req.Company.Name, "event", req.EventTitle)

	res, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return "", &models.ProviderError{Provider: "openai", Op: "chat.completion", Err: err}
	}
	if len(res.Choices) == 0 {
		return "", &models.ProviderError{Provider: "openai", Op: "chat.completion", Err: fmt.Errorf("response contained no choices")}
	}

	text := strings.TrimSpace(res.Choices[0].Message.Content)
	g.logger.Info("Generated summary", "company", req.Company.Name, "length", len(text))
	return text, nil
}

func buildPrompt(req Request) string {
	company := req.Company.Name
	if req.Company.Domain != "" {
		company = fmt.Sprintf("%s (%s)", req.Company.Name, req.Company.Domain)
	}
	resourcesText := req.ResourcesText
	if resourcesText == "" {
		resourcesText = "—"
	}

	return fmt.Sprintf(`Generate a short pre-POC briefing for a prospect discovery call:
- Summarize the company (industry, product focus, approximate size if known).
- Include one headline-level piece of recent news if available.
- Highlight any discovery-relevant context that would inform the sales call.
- Keep the output under 1000 words and concise for a Slack/Slides briefing.

Company: %s
POC Emails: %s
Meeting: %s on %s
Resources:
%s
`, company, req.POCEmails, req.EventTitle, req.EventTime, resourcesText)
}
