package resources

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		jsonStr   string
		wantLen   int
		wantFirst string
	}{
		{
			name:      "empty falls back to defaults",
			jsonStr:   "",
			wantLen:   len(Defaults),
			wantFirst: Defaults[0].Label,
		},
		{
			name:      "invalid JSON falls back to defaults",
			jsonStr:   "{not json",
			wantLen:   len(Defaults),
			wantFirst: Defaults[0].Label,
		},
		{
			name:      "short list is padded with defaults",
			jsonStr:   `[{"label":"Custom","url":"https://example.com"}]`,
			wantLen:   len(Defaults),
			wantFirst: "Custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Load(tt.jsonStr)
			if len(got) != tt.wantLen {
				t.Fatalf("Load() returned %d resources, want %d", len(got), tt.wantLen)
			}
			if got[0].Label != tt.wantFirst {
				t.Errorf("first label = %q, want %q", got[0].Label, tt.wantFirst)
			}
		})
	}

	t.Run("long list is trimmed", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("[")
		for i := 0; i < len(Defaults)+3; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"label":"L","url":"https://example.com"}`)
		}
		b.WriteString("]")
		if got := Load(b.String()); len(got) != len(Defaults) {
			t.Errorf("Load() returned %d resources, want %d", len(got), len(Defaults))
		}
	})
}

func TestSelect(t *testing.T) {
	all := Load("")
	got := Select(all, []int{0, 2, 99, -1})
	if len(got) != 2 {
		t.Fatalf("Select() returned %d resources, want 2", len(got))
	}
	if got[0] != all[0] || got[1] != all[2] {
		t.Errorf("Select() picked wrong resources: %+v", got)
	}
}

func TestFormatMarkdown(t *testing.T) {
	if got := FormatMarkdown(nil); got != "" {
		t.Errorf("FormatMarkdown(nil) = %q, want empty", got)
	}

	sel := []Resource{
		{Label: "AWS", URL: "https://example.com/aws"},
		{Label: "Okta", URL: "https://example.com/okta"},
	}
	got := FormatMarkdown(sel)
	want := "• *AWS*: https://example.com/aws\n• *Okta*: https://example.com/okta"
	if got != want {
		t.Errorf("FormatMarkdown() = %q, want %q", got, want)
	}
}
