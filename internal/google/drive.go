package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveClient provides the Drive operations one run needs: copying the
// template deck and fetching the copy's web link.
type DriveClient struct {
	service *drive.Service
	logger  *slog.Logger
}

// NewDriveClient creates a new Google Drive client on top of an authenticated
// HTTP client.
func NewDriveClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client) (*DriveClient, error) {
	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveClient{service: service, logger: logger}, nil
}

// CopyTemplate copies the template file under a new name and returns the new
// file id. A failed copy is surfaced immediately and never retried, since a
// retry risks leaving duplicate decks behind.
func (c *DriveClient) CopyTemplate(ctx context.Context, templateID, name string) (string, error) {
	c.logger.Debug("Copying template", "templateID", templateID, "name", name)

	copied, err := c.service.Files.Copy(templateID, &drive.File{Name: name}).Context(ctx).Do()
	if err != nil {
		return "", &models.ProviderError{Provider: "drive", Op: "files.copy", Err: err}
	}

	c.logger.Info("Copied template deck", "fileID", copied.Id, "name", name)
	return copied.Id, nil
}

// WebViewLink returns the Drive webViewLink for a file.
func (c *DriveClient) WebViewLink(ctx context.Context, fileID string) (string, error) {
	meta, err := c.service.Files.Get(fileID).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return "", &models.ProviderError{Provider: "drive", Op: "files.get", Err: err}
	}
	return meta.WebViewLink, nil
}
