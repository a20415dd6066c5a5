package domain

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"", "browser"},
		{"chrome://newtab/", "browser"},
		{"chrome://settings", "browser"},
		{"chrome-extension://abcdef/popup.html", "browser"},
		{"about:blank", "browser"},
		{"moz-extension://abcdef/popup.html", "browser"},
		{"https://www.example.com/x", "example.com"},
		{"https://example.com/x", "example.com"},
		{"https://github.com/lotas/onehandle", "github.com"},
		{"https://docs.github.com/en", "docs.github.com"},
		{"http://localhost:8080/admin", "localhost"},
		{"not a url", "unknown"},
		{"://missing-scheme", "unknown"},
		{"https://", "unknown"},
	}
	for _, tt := range tests {
		if got := Parse(tt.url); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseNeverEmpty(t *testing.T) {
	for _, url := range []string{"", "x", "https://a.b", "chrome://x", "%%%"} {
		if Parse(url) == "" {
			t.Errorf("Parse(%q) returned empty string", url)
		}
	}
}

func TestFaviconFallback(t *testing.T) {
	got := FaviconFallback("https://www.example.com/some/page")
	if !strings.Contains(got, "www.google.com/s2/favicons") {
		t.Errorf("expected S2 favicon URL, got %q", got)
	}
	if !strings.Contains(got, "domain=www.example.com") {
		t.Errorf("expected hostname in URL, got %q", got)
	}
}

func TestFaviconFallbackUnparseable(t *testing.T) {
	if got := FaviconFallback("not a url"); got != "" {
		t.Errorf("expected empty string for unparseable URL, got %q", got)
	}
	if got := FaviconFallback(""); got != "" {
		t.Errorf("expected empty string for empty URL, got %q", got)
	}
}
