package config

import (
	"errors"
	"testing"

	"github.com/brandonkempf-alt/pocbriefingapp/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_ID", "")
	t.Setenv("GSLIDES_TEMPLATE_ID", "")
	t.Setenv("EXCLUSION_MODE", "")
	t.Setenv("SUMMARY_POLICY", "")

	cfg := Load()

	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q, want %q", cfg.CalendarID, "primary")
	}
	if cfg.ExclusionMode != "any" {
		t.Errorf("ExclusionMode = %q, want %q", cfg.ExclusionMode, "any")
	}
	if cfg.SummaryPolicy != SummaryPolicySkip {
		t.Errorf("SummaryPolicy = %q, want %q", cfg.SummaryPolicy, SummaryPolicySkip)
	}
	if len(cfg.InternalDomains) == 0 {
		t.Error("InternalDomains should have defaults")
	}
	if len(cfg.Resources) == 0 {
		t.Error("Resources should have defaults")
	}
}

func TestNormalizeCalendarID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "primary"},
		{"me", "primary"},
		{"primary", "primary"},
		{"team@group.calendar.google.com", "team@group.calendar.google.com"},
	}
	for _, tt := range tests {
		if got := normalizeCalendarID(tt.in); got != tt.want {
			t.Errorf("normalizeCalendarID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNameMap(t *testing.T) {
	got := parseNameMap("fb.com:Meta, google.com : Google ,broken,:noname")
	if len(got) != 2 {
		t.Fatalf("parseNameMap() = %v, want 2 entries", got)
	}
	if got["fb.com"] != "Meta" || got["google.com"] != "Google" {
		t.Errorf("parseNameMap() = %v", got)
	}
}

func TestValidateForBrief(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing template id",
			mutate:  func(c *Config) { c.TemplateID = "" },
			wantErr: true,
		},
		{
			name:    "bad exclusion mode",
			mutate:  func(c *Config) { c.ExclusionMode = "some" },
			wantErr: true,
		},
		{
			name:    "bad summary policy",
			mutate:  func(c *Config) { c.SummaryPolicy = "retry" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				TemplateID:    "tmpl-1",
				ExclusionMode: "any",
				SummaryPolicy: SummaryPolicySkip,
			}
			tt.mutate(cfg)

			err := cfg.ValidateForBrief()
			if tt.wantErr {
				var verr *models.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("ValidateForBrief() error = %v, want ValidationError", err)
				}
			} else if err != nil {
				t.Errorf("ValidateForBrief() unexpected error: %v", err)
			}
		})
	}
}
