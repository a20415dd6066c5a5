// Package domain derives a display domain from tab URLs.
// All processing is local; nothing here issues network requests.
package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Sentinel domains for URLs that don't have a real hostname.
const (
	SentinelBrowser = "browser"
	SentinelUnknown = "unknown"
)

// internalPrefixes are browser-internal URL schemes. Tabs on these
// pages belong to the browser itself, not to a site.
var internalPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"about:",
	"moz-extension://",
}

// Parse extracts the domain from a full URL. Internal and empty URLs
// resolve to "browser", unparseable ones to "unknown". It never fails;
// the result is always a non-empty string.
func Parse(rawURL string) string {
	if rawURL == "" {
		return SentinelBrowser
	}
	for _, p := range internalPrefixes {
		if strings.HasPrefix(rawURL, p) {
			return SentinelBrowser
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return SentinelUnknown
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FaviconFallback builds a favicon URL from Google's S2 service for
// tabs whose source reported no favicon. Only the URL is constructed;
// nothing here fetches it.
func FaviconFallback(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=32", u.Hostname())
}
