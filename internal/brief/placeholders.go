package brief

import (
	"strings"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
)

// Placeholder tokens recognized in the template deck. There is no summary
// token: the deck is filled before the summary exists, so the summary travels
// with the notification and the CLI output instead.
const (
	TokenCompanyName = "{{CompanyName}}"
	TokenPOCEmails   = "{{POCEmails}}"
	TokenEventTitle  = "{{EventTitle}}"
	TokenEventTime   = "{{EventTime}}"
	TokenResources   = "{{Resources}}"
)

// BuildPlaceholders computes the replacement value for every known token.
// Tokens missing from the template are harmless; the substitution leaves
// unknown template tokens verbatim.
func BuildPlaceholders(ev models.Event, comp models.Company, resourcesText string) map[string]string {
	if resourcesText == "" {
		resourcesText = "—"
	}
	return map[string]string{
		TokenCompanyName: comp.Name,
		TokenPOCEmails:   strings.Join(ev.Emails(), ", "),
		TokenEventTitle:  ev.Title,
		TokenEventTime:   ev.StartTime.Format("2006-01-02 15:04"),
		TokenResources:   resourcesText,
	}
}
