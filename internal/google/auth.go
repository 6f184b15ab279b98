package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/slides/v1"
)

const tokenDir = ".tokens"

// Scopes covers everything one run touches: reading calendar events, copying
// the template deck in Drive and replacing placeholder text in Slides.
var Scopes = []string{
	calendar.CalendarReadonlyScope,
	drive.DriveScope,
	slides.PresentationsScope,
}

// TokenPath returns where the OAuth token is cached on disk, creating the
// directory on first use.
func TokenPath() (string, error) {
	if err := os.MkdirAll(tokenDir, 0o700); err != nil {
		return "", fmt.Errorf("unable to create token directory: %w", err)
	}
	return filepath.Join(tokenDir, "google_token.json"), nil
}

// OAuthConfig returns an OAuth2 config for the desktop-app flow.
// It prioritizes the client id/secret pair over the client JSON file.
func OAuthConfig(clientID, clientSecret, clientJSONPath string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(clientJSONPath)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, &models.AuthError{Reason: fmt.Sprintf("%s not found; provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place the OAuth client JSON there", clientJSONPath)}
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb exchanges a pasted authorization code for a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// savingTokenSource persists the token back to disk whenever the underlying
// source refreshes it, so the next run does not repeat the refresh.
type savingTokenSource struct {
	path string
	src  oauth2.TokenSource
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, &models.AuthError{Reason: "token refresh failed", Err: err}
	}
	if s.last == nil || s.last.AccessToken != tok.AccessToken {
		if err := SaveToken(s.path, tok); err != nil {
			return nil, err
		}
		s.last = tok
	}
	return tok, nil
}

// HTTPClient returns an authenticated HTTP client backed by the cached token,
// refreshing and re-persisting it as needed. A missing token file is an
// AuthError so the CLI can point the user at the auth command.
func HTTPClient(ctx context.Context, config *oauth2.Config) (*http.Client, error) {
	path, err := TokenPath()
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(path)
	if err != nil {
		return nil, &models.AuthError{Reason: "no cached token; run the 'auth' command first", Err: err}
	}

	src := &savingTokenSource{
		path: path,
		src:  config.TokenSource(ctx, tok),
		last: tok,
	}
	return oauth2.NewClient(ctx, src), nil
}
