package stylesheet

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Origin ranks where a stylesheet comes from. Later origins win over
// earlier ones regardless of specificity.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
	OriginInline
)

var originNames = [...]string{"user-agent", "user", "author", "inline"}

func (o Origin) String() string {
	if o >= 0 && int(o) < len(originNames) {
		return originNames[o]
	}
	return fmt.Sprintf("origin(%d)", int(o))
}

// ParseOrigin maps a configuration name to an Origin.
func ParseOrigin(name string) (Origin, error) {
	for i, n := range originNames {
		if strings.EqualFold(name, n) {
			return Origin(i), nil
		}
	}
	return 0, fmt.Errorf("unknown origin %q (want one of %s)", name, strings.Join(originNames[:], ", "))
}

// RuleSet pairs one selector with its declarations. A rule with a selector
// group ("a, b { }") yields one RuleSet per selector sharing the
// declarations.
type RuleSet struct {
	Selector     *Selector
	Declarations []*Declaration
	Specificity  Specificity
	// Order is the position of the rule in its stylesheet.
	Order  int
	Origin Origin
	// Sheet is the index of the owning stylesheet in load order.
	Sheet int
}

func (r *RuleSet) String() string {
	parts := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		parts[i] = d.String()
	}
	return r.Selector.String() + " { " + strings.Join(parts, "; ") + " }"
}

// Stylesheet is the parsed form of one source. Parsing never fails as a
// whole: malformed parts are skipped and reported in Errors.
type Stylesheet struct {
	Name   string
	Origin Origin
	Index  int
	Rules  []*RuleSet
	Errors []error

	source string
}

// Source returns the text the stylesheet was parsed from.
func (s *Stylesheet) Source() string {
	return s.source
}

// Position converts a byte offset into a 1-based line and column.
func (s *Stylesheet) Position(offset int) (line, col int) {
	line, col, _ = parse.Position(strings.NewReader(s.source), offset)
	return line, col
}

// Declarations returns every declaration of the stylesheet once, in source
// order.
func (s *Stylesheet) Declarations() []*Declaration {
	var out []*Declaration
	seen := make(map[*Declaration]bool)
	for _, r := range s.Rules {
		for _, d := range r.Declarations {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
