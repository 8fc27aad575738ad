// internal/uitree/query.go
package uitree

import "fmt"

// MatchMode selects exact or containment matching.
type MatchMode int

const (
	// Complete compares the identifier segment after the namespace separator for equality.
	Complete MatchMode = iota
	// Substring requires the raw value to contain the pattern.
	Substring
)

func (m MatchMode) String() string {
	switch m {
	case Complete:
		return "complete"
	case Substring:
		return "substring"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode accepts "complete" or "substring" (also "include").
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "complete", "exact", "":
		return Complete, nil
	case "substring", "include", "contains":
		return Substring, nil
	}
	return Complete, fmt.Errorf("uitree: unknown match mode %q", s)
}

// Query finds elements by identifier or by text.
type Query struct {
	Pattern string
	Mode    MatchMode
}

// ByID builds a complete identifier query.
func ByID(pattern string) Query { return Query{Pattern: pattern, Mode: Complete} }

// Containing builds a substring query.
func Containing(pattern string) Query { return Query{Pattern: pattern, Mode: Substring} }
