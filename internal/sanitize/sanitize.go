// Package sanitize reduces untrusted form input to plain text that is safe
// to store and render back without escaping. The policy is deliberately
// blunt: no tag survives, in line with how the contact form is displayed.
package sanitize

import (
	"database/sql"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()

	// Matches complete tags and a trailing unterminated one, so inputs cut
	// off mid-tag ("<scri") do not leak markup fragments into storage.
	tagRe = regexp.MustCompile(`<[^>]*>?`)
)

// PlainText returns value trimmed, with HTML entities resolved, control
// characters dropped and every markup construct removed.
func PlainText(value string) string {
	s := strings.TrimSpace(value)
	s = html.UnescapeString(s)
	s = stripLow(s)
	s = tagRe.ReplaceAllString(s, "")
	s = strict.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// Nullable sanitizes value like PlainText and maps an empty result to the
// invalid NullString, so optional columns store NULL instead of "".
func Nullable(value string) sql.NullString {
	cleaned := PlainText(value)
	if cleaned == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: cleaned, Valid: true}
}

// stripLow removes control characters, keeping the whitespace ones that
// legitimately appear in multi-line messages.
func stripLow(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
