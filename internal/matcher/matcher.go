// internal/matcher/matcher.go
package matcher

import (
	"errors"
	"strings"

	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// Separator divides an identifier's namespace from its name, as in "pkg:id/name".
const Separator = ":"

// ErrMalformedIdentifier is reported when a complete match is attempted on an
// identifier without a namespace separator. Foreign and system elements
// routinely lack one, so callers treat it as a non-match.
var ErrMalformedIdentifier = errors.New("matcher: identifier has no namespace separator")

// localName returns the trimmed remainder after the first separator.
// Further separators stay part of the name.
func localName(raw string) (string, error) {
	_, rest, ok := strings.Cut(raw, Separator)
	if !ok {
		return "", ErrMalformedIdentifier
	}
	return strings.TrimSpace(rest), nil
}

// CompareIdentifier applies q to a raw identifier string.
func CompareIdentifier(raw string, q uitree.Query) (bool, error) {
	if q.Mode == uitree.Substring {
		return strings.Contains(raw, q.Pattern), nil
	}
	name, err := localName(raw)
	if err != nil {
		return false, err
	}
	return name == q.Pattern, nil
}

// MatchesIdentifier reports whether el's identifier satisfies q. Elements
// without an identifier and malformed identifiers never match.
func MatchesIdentifier(el uitree.Element, q uitree.Query) bool {
	raw, ok := el.Identifier()
	if !ok {
		return false
	}
	matched, err := CompareIdentifier(raw, q)
	return err == nil && matched
}

// MatchesText reports whether el's text contains pattern.
func MatchesText(el uitree.Element, pattern string) bool {
	return strings.Contains(el.Text(), pattern)
}

// MatchesTextMode applies q to el's text. Complete compares trimmed text.
func MatchesTextMode(el uitree.Element, q uitree.Query) bool {
	if q.Mode == uitree.Substring {
		return MatchesText(el, q.Pattern)
	}
	return strings.TrimSpace(el.Text()) == q.Pattern
}
