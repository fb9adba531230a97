// Package pageid extracts Notion page identifiers from free-form URLs.
package pageid

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when no identifier can be found in a URL.
var ErrInvalidURL = errors.New("Invalid Notion URL")

// matchers are tried in order; the first match wins.
var matchers = []*regexp.Regexp{
	// https://www.notion.so/workspace/Page-Title-<hex32>
	regexp.MustCompile(`(?i)notion\.so/(?:[^/]+/)?(?:[^-]+-)?([a-f0-9]{32})`),
	// https://team.notion.site/Page-Title-<hex32>
	regexp.MustCompile(`(?i)notion\.site/(?:[^-]+-)?([a-f0-9]{32})`),
	regexp.MustCompile(`(?i)([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`),
	regexp.MustCompile(`(?i)([a-f0-9]{32})`),
}

// Extract returns the page identifier found in raw.
// Undashed 32-character hex identifiers are returned in canonical 8-4-4-4-12
// form; already-dashed identifiers are returned verbatim.
func Extract(raw string) (string, bool) {
	for _, re := range matchers {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		id := m[1]
		if !strings.Contains(id, "-") {
			return Format(id), true
		}
		return id, true
	}
	return "", false
}

// MustExtract is like Extract but returns ErrInvalidURL on failure.
func MustExtract(raw string) (string, error) {
	id, ok := Extract(raw)
	if !ok {
		return "", ErrInvalidURL
	}
	return id, nil
}

// Format inserts dashes into a 32-character hex identifier.
// Inputs of any other length are returned unchanged.
func Format(hex string) string {
	if len(hex) != 32 {
		return hex
	}
	return hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:]
}
