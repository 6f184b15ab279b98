// Package company resolves the prospect company behind a calendar event from
// its guest list, with a text fallback when no external email domain is
// present.
package company

import (
	"regexp"
	"strings"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
)

// Resolver holds the domain knowledge used to turn a guest list into a
// company. All sets hold base domains in lower case.
type Resolver struct {
	Internal map[string]bool   // own-org and personal domains, never a prospect
	Ignore   map[string]bool   // utility domains (zoom.us etc.), never a prospect
	Priority []string          // preferred domains when several externals appear
	NameMap  map[string]string // explicit domain -> display name overrides
}

// NewResolver builds a resolver from raw domain lists. Entries are
// normalized to base domains.
func NewResolver(internal, ignore, priority []string, nameMap map[string]string) *Resolver {
	r := &Resolver{
		Internal: make(map[string]bool),
		Ignore:   make(map[string]bool),
		NameMap:  make(map[string]string),
	}
	for _, d := range internal {
		if b := BaseDomain(d); b != "" {
			r.Internal[b] = true
		}
	}
	for _, d := range ignore {
		if b := BaseDomain(d); b != "" {
			r.Ignore[b] = true
		}
	}
	for _, d := range priority {
		if b := BaseDomain(d); b != "" {
			r.Priority = append(r.Priority, b)
		}
	}
	for d, name := range nameMap {
		if b := BaseDomain(d); b != "" {
			r.NameMap[b] = name
		}
	}
	return r
}

// BaseDomain normalizes a domain to its last two labels, which works for most
// corporate domains ("mail.acme.com" -> "acme.com").
func BaseDomain(d string) string {
	d = strings.ReplaceAll(strings.TrimSpace(strings.ToLower(d)), "@", "")
	d = strings.TrimPrefix(d, "www.")
	parts := strings.Split(d, ".")
	if len(parts) >= 3 {
		d = strings.Join(parts[len(parts)-2:], ".")
	}
	return d
}

func prettyName(domain string) string {
	core, _, _ := strings.Cut(BaseDomain(domain), ".")
	if core == "" {
		return "Unknown"
	}
	return strings.ToUpper(core[:1]) + core[1:]
}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:with|for)\s+([A-Z][A-Za-z0-9&.\- ]{2,})`),
	regexp.MustCompile(`(?i)POC[:\-]\s*([A-Z][A-Za-z0-9&.\- ]{2,})`),
	regexp.MustCompile(`\(([A-Z][A-Za-z0-9&.\- ]{2,})\)`),
}

var genericWords = map[string]bool{
	"poc": true, "call": true, "meeting": true, "demo": true, "discovery": true,
}

// Resolve guesses the company from guest emails, falling back to the event
// title and description. It never fails; the zero answer is "Unknown".
func (r *Resolver) Resolve(emails []string, title, description string) models.Company {
	var domains []string
	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if _, domain, ok := strings.Cut(email, "@"); ok {
			domains = append(domains, BaseDomain(domain))
		}
	}

	var external []string
	for _, d := range domains {
		if d != "" && !r.Internal[d] && !r.Ignore[d] {
			external = append(external, d)
		}
	}

	// A priority domain wins outright when present.
	for _, p := range r.Priority {
		for _, d := range external {
			if d == p {
				return r.company(p)
			}
		}
	}

	// Otherwise majority vote among external domains, first-seen breaking ties.
	if len(external) > 0 {
		counts := make(map[string]int)
		best := external[0]
		for _, d := range external {
			counts[d]++
			if counts[d] > counts[best] {
				best = d
			}
		}
		return r.company(best)
	}

	// Last resort: pull a name out of the event text.
	text := title + " " + description
	for _, re := range titlePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			candidate := strings.TrimSpace(m[1])
			if candidate != "" && !genericWords[strings.ToLower(candidate)] {
				return models.Company{Name: candidate}
			}
		}
	}

	return models.Company{Name: "Unknown"}
}

func (r *Resolver) company(domain string) models.Company {
	name, ok := r.NameMap[domain]
	if !ok {
		name = prettyName(domain)
	}
	return models.Company{Name: name, Domain: domain}
}

// Excluded reports whether an event should be dropped based on its guest
// domains. Mode "any" drops the event if any email belongs to the excluded
// domain; "all" drops it only when every email does (and at least one exists).
func Excluded(emails []string, excludedDomain, mode string) bool {
	excludedDomain = strings.TrimSpace(strings.ToLower(excludedDomain))
	if excludedDomain == "" || len(emails) == 0 {
		return false
	}
	suffix := "@" + excludedDomain
	if mode == "all" {
		for _, em := range emails {
			if !strings.HasSuffix(strings.ToLower(em), suffix) {
				return false
			}
		}
		return true
	}
	for _, em := range emails {
		if strings.HasSuffix(strings.ToLower(em), suffix) {
			return true
		}
	}
	return false
}
