// internal/app/system/normalize/normalize.go

// Package normalize cleans user-supplied values before they are persisted
// or used as lookup keys.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// descPolicy strips all markup from description fields. Descriptions are
// displayed in multiple clients, so only plain text is stored.
var descPolicy = bluemonday.StrictPolicy()

// Email lowercases and trims an email address. Emails are unique keys, so
// every lookup and every write must pass through here.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Description sanitizes free-form description text, removing any HTML and
// trimming whitespace.
func Description(s string) string {
	return strings.TrimSpace(descPolicy.Sanitize(s))
}
