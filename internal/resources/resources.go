// Package resources manages the fixed list of connection-guide links that can
// be attached to a brief.
package resources

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Resource is one help link offered for inclusion in a brief.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Defaults is the built-in resource list, used verbatim when no override is
// configured and as padding when the override is short.
var Defaults = []Resource{
	{Label: "AWS Connection Guide", URL: "https://help.drata.com/en/articles/5048935-aws-amazon-web-services-connection"},
	{Label: "Azure Connection Guide", URL: "https://help.drata.com/en/articles/5032404-azure-connection"},
	{Label: "GCP Connection Guide", URL: "https://help.drata.com/en/articles/4663373-gcp-google-cloud-platform-connection"},
	{Label: "Intune Connection Guide", URL: "https://help.drata.com/en/articles/5604949-intune-windows-connection"},
	{Label: "EntraID/O365 Connection Guide", URL: "https://help.drata.com/en/articles/4797766-microsoft-365-connection"},
	{Label: "Okta Connection Guide", URL: "https://help.drata.com/en/articles/5608136-okta-connection-for-identity-management"},
	{Label: "Jira Connection Guide", URL: "https://help.drata.com/en/articles/4663378-jira-connection"},
}

// Load parses a JSON resource list override. A short list is padded with
// defaults and a long one trimmed, so the selection indexes stay stable. Any
// parse problem falls back to the defaults.
func Load(jsonStr string) []Resource {
	jsonStr = strings.TrimSpace(jsonStr)
	if jsonStr == "" {
		return append([]Resource(nil), Defaults...)
	}

	var parsed []Resource
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return append([]Resource(nil), Defaults...)
	}

	if len(parsed) < len(Defaults) {
		parsed = append(parsed, Defaults[:len(Defaults)-len(parsed)]...)
	}
	return parsed[:len(Defaults)]
}

// Select picks resources by index, silently skipping out-of-range entries.
func Select(all []Resource, indexes []int) []Resource {
	var out []Resource
	for _, i := range indexes {
		if i >= 0 && i < len(all) {
			out = append(out, all[i])
		}
	}
	return out
}

// FormatMarkdown renders the selection as the bullet list embedded in the
// deck and the Slack message. Empty selection renders as an empty string.
func FormatMarkdown(selected []Resource) string {
	if len(selected) == 0 {
		return ""
	}
	lines := make([]string, 0, len(selected))
	for _, r := range selected {
		lines = append(lines, fmt.Sprintf("• *%s*: %s", r.Label, r.URL))
	}
	return strings.Join(lines, "\n")
}
