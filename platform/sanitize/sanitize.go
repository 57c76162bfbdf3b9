// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Text strips HTML tags and collapses whitespace. Use it for display names and
// other short text copied from third-party payloads.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Entities may encode further tags.
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(result, " "))
}
