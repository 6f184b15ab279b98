package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// SlidesClient performs placeholder substitution in a copied deck.
type SlidesClient struct {
	service *slides.Service
	logger  *slog.Logger
}

// NewSlidesClient creates a new Google Slides client on top of an
// authenticated HTTP client.
func NewSlidesClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client) (*SlidesClient, error) {
	service, err := slides.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create slides service: %w", err)
	}
	return &SlidesClient{service: service, logger: logger}, nil
}

// ReplaceAll replaces every occurrence of each token with its mapped value
// across the whole presentation in a single batch request, so a partially
// substituted deck is never observable on success. Tokens absent from the
// map stay verbatim.
func (c *SlidesClient) ReplaceAll(ctx context.Context, presentationID string, replacements map[string]string) error {
	if len(replacements) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(replacements))
	for token := range replacements {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	requests := make([]*slides.Request, 0, len(tokens))
	for _, token := range tokens {
		requests = append(requests, &slides.Request{
			ReplaceAllText: &slides.ReplaceAllTextRequest{
				ContainsText: &slides.SubstringMatchCriteria{Text: token, MatchCase: true},
				ReplaceText:  replacements[token],
			},
		})
	}

	c.logger.Debug("Replacing placeholders", "presentationID", presentationID, "tokens", tokens)

	_, err := c.service.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return &models.ProviderError{Provider: "slides", Op: "presentations.batchUpdate", Err: err}
	}

	c.logger.Info("Replaced placeholders in deck", "presentationID", presentationID, "count", len(requests))
	return nil
}
