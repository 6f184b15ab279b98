// Package config reads the application configuration from the environment,
// once, at startup.
package config

import (
	"os"
	"strings"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
	"github.com/brandonkempf-alt/pocbriefingapp/internal/resources"
	"github.com/joho/godotenv"
)

// Summary failure policies. Skip leaves the summary empty and continues the
// run; fail aborts it (the copied deck is kept either way).
const (
	SummaryPolicySkip = "skip"
	SummaryPolicyFail = "fail"
)

const defaultInternalDomains = "kempfenterprise.com,gmail.com,outlook.com,hotmail.com,yahoo.com," +
	"icloud.com,aol.com,proton.me,protonmail.com,me.com"

const defaultIgnoreDomains = "zoom.us,meetup.com,calendar.google.com,teams.microsoft.com"

// Config holds everything read from the environment.
type Config struct {
	CalendarID      string
	TemplateID      string
	SlackWebhookURL string

	OAuthClientJSON string
	ClientID        string
	ClientSecret    string
	OpenAIKey       string

	ExcludedDomain string
	ExclusionMode  string // "any" or "all"

	InternalDomains []string
	IgnoreDomains   []string
	DomainPriority  []string
	DomainNameMap   map[string]string

	Resources     []resources.Resource
	SummaryPolicy string
	LogLevel      string
}

// Load reads the environment into a Config. A missing .env file is fine.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		CalendarID:      normalizeCalendarID(os.Getenv("GOOGLE_CALENDAR_ID")),
		TemplateID:      os.Getenv("GSLIDES_TEMPLATE_ID"),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		OAuthClientJSON: envOr("GOOGLE_OAUTH_CLIENT_JSON", "client_secret.json"),
		ClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ExcludedDomain:  strings.ToLower(strings.TrimSpace(envOr("EXCLUDED_DOMAIN", "kempfenterprise.com"))),
		ExclusionMode:   strings.ToLower(strings.TrimSpace(envOr("EXCLUSION_MODE", "any"))),
		InternalDomains: splitCSV(envOr("INTERNAL_DOMAINS", defaultInternalDomains)),
		IgnoreDomains:   splitCSV(envOr("IGNORE_DOMAINS", defaultIgnoreDomains)),
		DomainPriority:  splitCSV(os.Getenv("DOMAIN_PRIORITY")),
		DomainNameMap:   parseNameMap(os.Getenv("DOMAIN_NAME_MAP")),
		Resources:       resources.Load(os.Getenv("RESOURCES_JSON")),
		SummaryPolicy:   strings.ToLower(strings.TrimSpace(envOr("SUMMARY_POLICY", SummaryPolicySkip))),
		LogLevel:        envOr("LOG_LEVEL", "info"),
	}
	return cfg
}

// ValidateForBrief checks the settings a brief run cannot do without.
func (c *Config) ValidateForBrief() error {
	if c.TemplateID == "" {
		return &models.ValidationError{Field: "GSLIDES_TEMPLATE_ID", Reason: "must be set to generate a brief"}
	}
	if c.ExclusionMode != "any" && c.ExclusionMode != "all" {
		return &models.ValidationError{Field: "EXCLUSION_MODE", Reason: `must be "any" or "all"`}
	}
	if c.SummaryPolicy != SummaryPolicySkip && c.SummaryPolicy != SummaryPolicyFail {
		return &models.ValidationError{Field: "SUMMARY_POLICY", Reason: `must be "skip" or "fail"`}
	}
	return nil
}

// normalizeCalendarID maps the aliases "me" and "" to the primary calendar.
func normalizeCalendarID(id string) string {
	switch id {
	case "", "me", "primary":
		return "primary"
	}
	return id
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

// parseNameMap parses "fb.com:Meta,google.com:Google" pairs.
func parseNameMap(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		domain, name, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		domain = strings.ToLower(strings.TrimSpace(domain))
		name = strings.TrimSpace(name)
		if domain != "" && name != "" {
			out[domain] = name
		}
	}
	return out
}
