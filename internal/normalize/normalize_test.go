package normalize

import (
	"testing"

	"github.com/ppiankov/listingcheck/internal/model"
)

func TestValue_Phone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(619) 555-0100", "6195550100"},
		{"619-555-0100", "6195550100"},
		{"+1 619 555 0100", "6195550100"},
		{"tel digits +16195550100", "6195550100"},
		{"555-0100", "5550100"}, // short numbers pass through
		{"", ""},
		{"   ", ""},
		{"no digits at all", ""},
	}

	for _, tt := range tests {
		if got := Value(model.FieldPhone, tt.in); got != tt.want {
			t.Errorf("Value(phone, %q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValue_TextFields(t *testing.T) {
	kinds := []model.FieldKind{
		model.FieldEntityName,
		model.FieldAddress,
		model.FieldHours,
		model.FieldWebsiteAnchor,
	}

	tests := []struct {
		in   string
		want string
	}{
		{"  Acme   Clinic ", "ACME CLINIC"},
		{"acme clinic", "ACME CLINIC"},
		{"Mon -  Fri\n9am - 5pm", "MON - FRI 9AM - 5PM"},
		{"", ""},
		{"\t \n", ""},
	}

	for _, kind := range kinds {
		for _, tt := range tests {
			if got := Value(kind, tt.in); got != tt.want {
				t.Errorf("Value(%s, %q) = %q, want %q", kind, tt.in, got, tt.want)
			}
		}
	}
}

func TestValue_WebsiteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP://Example.com/Page/", "http://example.com/page"},
		{"example.com/page", "https://example.com/page"},
		{"https://www.acme.com/", "https://www.acme.com"},
		{"https://example.com/page//", "https://example.com/page"},
		{"https://example.com///", "https://example.com"},
		{"https://example.com/page?utm_source=news&utm_medium=email", "https://example.com/page"},
		{"https://example.com/page#team", "https://example.com/page"},
		{"  https://example.com  ", "https://example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Value(model.FieldWebsiteURL, tt.in); got != tt.want {
			t.Errorf("Value(website_url, %q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValue_UnknownKindIsIdentity(t *testing.T) {
	got := Value(model.FieldKind("category"), "  Dental &  Medical ")
	if got != "Dental &  Medical" {
		t.Errorf("unknown kind should only trim, got %q", got)
	}
}

func TestValue_Idempotent(t *testing.T) {
	kinds := append(model.AllFieldKinds(), model.FieldKind("category"))
	inputs := []string{
		"",
		"   ",
		"(619) 555-0100",
		"+1 619 555 0100",
		"  Acme   Clinic ",
		"HTTP://Example.com/Page/",
		"https://example.com/page//",
		"example.com/page",
		"%%% not a url %%%",
		"Mon-Fri 9-5",
	}

	for _, kind := range kinds {
		for _, in := range inputs {
			once := Value(kind, in)
			twice := Value(kind, once)
			if once != twice {
				t.Errorf("Value(%s, ...) not idempotent: %q -> %q -> %q", kind, in, once, twice)
			}
		}
	}
}
