// internal/matcher/find.go
package matcher

import "github.com/xkilldash9x/uidriver/internal/uitree"

// eligible applies the caller-side filter: elements without an identifier
// (when requireID) or hidden ones (when onlyVisible) never reach the matcher
// and never count toward an index.
func eligible(el uitree.Element, requireID, onlyVisible bool) bool {
	if el == nil {
		return false
	}
	if onlyVisible && !el.Visible() {
		return false
	}
	if requireID {
		if _, ok := el.Identifier(); !ok {
			return false
		}
	}
	return true
}

// FindByIdentifier returns the index-th (0 based) element matching q in
// snapshot order. The second result is false when fewer than index+1
// elements match.
func FindByIdentifier(elements []uitree.Element, q uitree.Query, index int, onlyVisible bool) (uitree.Element, bool) {
	if index < 0 {
		return nil, false
	}
	count := 0
	for _, el := range elements {
		if !eligible(el, true, onlyVisible) || !MatchesIdentifier(el, q) {
			continue
		}
		count++
		if count == index+1 {
			return el, true
		}
	}
	return nil, false
}

// CountIdentifier returns how many eligible elements match q.
func CountIdentifier(elements []uitree.Element, q uitree.Query, onlyVisible bool) int {
	n := 0
	for _, el := range elements {
		if eligible(el, true, onlyVisible) && MatchesIdentifier(el, q) {
			n++
		}
	}
	return n
}

// FindByText returns the index-th element whose text contains pattern.
func FindByText(elements []uitree.Element, pattern string, index int, onlyVisible bool) (uitree.Element, bool) {
	if index < 0 {
		return nil, false
	}
	count := 0
	for _, el := range elements {
		if !eligible(el, false, onlyVisible) || !MatchesText(el, pattern) {
			continue
		}
		count++
		if count == index+1 {
			return el, true
		}
	}
	return nil, false
}

// FindAllByText returns every element whose text contains pattern.
func FindAllByText(elements []uitree.Element, pattern string, onlyVisible bool) []uitree.Element {
	var out []uitree.Element
	for _, el := range elements {
		if eligible(el, false, onlyVisible) && MatchesText(el, pattern) {
			out = append(out, el)
		}
	}
	return out
}

// CountText returns how many elements contain pattern in their text.
func CountText(elements []uitree.Element, pattern string, onlyVisible bool) int {
	return len(FindAllByText(elements, pattern, onlyVisible))
}

// FilterKind keeps the elements of kind k, optionally only visible ones.
func FilterKind(elements []uitree.Element, k uitree.Kind, onlyVisible bool) []uitree.Element {
	var out []uitree.Element
	for _, el := range elements {
		if eligible(el, false, onlyVisible) && el.Kind() == k {
			out = append(out, el)
		}
	}
	return out
}

// SearchDescendants walks parent's subtree depth first and returns the first
// element whose text satisfies q. The parent itself is not considered.
func SearchDescendants(parent uitree.Container, q uitree.Query) (uitree.Element, bool) {
	for _, child := range parent.Children() {
		if child == nil {
			continue
		}
		if MatchesTextMode(child, q) {
			return child, true
		}
		if c, ok := child.(uitree.Container); ok {
			if found, ok := SearchDescendants(c, q); ok {
				return found, true
			}
		}
	}
	return nil, false
}
