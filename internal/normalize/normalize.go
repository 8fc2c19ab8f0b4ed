// Package normalize reduces free-text quote and author strings to a canonical
// comparison form, so that copies of the same quote pasted with different
// typography (smart quotes, em dashes, stray whitespace, trailing ellipses)
// collapse to a single key.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// KeySeparator joins the normalized text and author halves of a key.
// Normalization deletes '|' from content, so the separator cannot collide
// with either half.
const KeySeparator = "|||"

// quoteMarks are quotation-mark variants removed outright during
// normalization: straight quotes, curly/smart quotes, guillemets, low-9
// quotes, and backtick/acute used as quotes.
//
//nolint:gochecknoglobals // Static character set for normalization
var quoteMarks = map[rune]bool{
	'"': true, '\'': true,
	'‘': true, '’': true, // curly single
	'“': true, '”': true, // curly double
	'‚': true, '„': true, // low-9
	'«': true, '»': true, // guillemets
	'‹': true, '›': true, // single guillemets
	'`': true, '´': true,
}

// dashVariants are unified to a plain hyphen.
//
//nolint:gochecknoglobals // Static character set for normalization
var dashVariants = map[rune]bool{
	'‒': true, // figure dash
	'–': true, // en dash
	'—': true, // em dash
	'―': true, // horizontal bar
	'−': true, // minus sign
}

//nolint:gochecknoglobals // Compiled once at init
var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// A run of periods/ellipses, optionally interspersed with whitespace,
	// anchored at the end of the string.
	trailingStops = regexp.MustCompile(`[.\x{2026}][\s.\x{2026}]*$`)

	foldCaser = cases.Fold()
)

// Text normalizes a free-text quote (or author) string.
//
// The transformation is applied in a fixed order: quotation marks are
// deleted, dash variants become "-", whitespace runs collapse to one space,
// trailing sentence terminators are stripped, the result is trimmed and
// case-folded. The function is pure, total (empty in, empty out), and
// idempotent.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.Map(func(r rune) rune {
		switch {
		case quoteMarks[r]:
			return -1 // delete, don't replace with space
		case dashVariants[r]:
			return '-'
		case r == '|': // reserved for KeySeparator
			return -1
		case r == 0: // null bytes break SQLite and JSON round-trips
			return -1
		default:
			return r
		}
	}, raw)

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = trailingStops.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	return foldCaser.String(s)
}

// Key composes the dedup key for a quote: normalized text and normalized
// author joined by KeySeparator. Two quotes with equal keys are the same
// quote for liking purposes.
func Key(text, author string) string {
	return Text(text) + KeySeparator + Text(author)
}
