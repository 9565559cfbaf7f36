package stylesheet

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	Descendant Combinator = iota // a b
	Child                        // a > b
	Adjacent                     // a + b
	Sibling                      // a ~ b
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return " > "
	case Adjacent:
		return " + "
	case Sibling:
		return " ~ "
	}
	return " "
}

// AttrOp is the comparison of an attribute selector.
type AttrOp int

const (
	AttrExists    AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrIncludes                // [a~=v]
	AttrDashMatch               // [a|=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

var attrOpText = [...]string{"", "=", "~=", "|=", "^=", "$=", "*="}

// AttrMatcher is one [name op value] test.
type AttrMatcher struct {
	Name  string
	Op    AttrOp
	Value string
}

func (a AttrMatcher) String() string {
	if a.Op == AttrExists {
		return "[" + a.Name + "]"
	}
	return fmt.Sprintf("[%s%s%q]", a.Name, attrOpText[a.Op], a.Value)
}

// Matches tests the attribute on n.
func (a AttrMatcher) Matches(n Styleable) bool {
	v, ok := n.AttributeValue(a.Name)
	if !ok {
		return false
	}
	switch a.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return v == a.Value
	case AttrIncludes:
		for _, f := range strings.Fields(v) {
			if f == a.Value {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return v == a.Value || strings.HasPrefix(v, a.Value+"-")
	case AttrPrefix:
		return a.Value != "" && strings.HasPrefix(v, a.Value)
	case AttrSuffix:
		return a.Value != "" && strings.HasSuffix(v, a.Value)
	case AttrSubstring:
		return a.Value != "" && strings.Contains(v, a.Value)
	}
	return false
}

// Compound is a sequence of simple selectors with no combinator between
// them, such as button#ok.primary:pressed.
type Compound struct {
	// Type is the element name, "*" or empty for an implied universal.
	Type    string
	ID      string
	Classes []string
	Attrs   []AttrMatcher
	// Structural pseudo-classes such as :first-child or :not().
	Pseudos []Pseudo
	// States are the state pseudo-classes, such as :pressed.
	States []string
}

func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type)
	if c.ID != "" {
		sb.WriteString("#" + c.ID)
	}
	for _, cls := range c.Classes {
		sb.WriteString("." + cls)
	}
	for _, a := range c.Attrs {
		sb.WriteString(a.String())
	}
	for _, p := range c.Pseudos {
		sb.WriteString(p.String())
	}
	for _, s := range c.States {
		sb.WriteString(":" + s)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Specificity of the compound alone.
func (c *Compound) Specificity() Specificity {
	var s Specificity
	if c.Type != "" && c.Type != "*" {
		s.Types++
	}
	if c.ID != "" {
		s.IDs++
	}
	s.Classes += len(c.Classes) + len(c.Attrs) + len(c.States)
	for _, p := range c.Pseudos {
		if p.Not != nil {
			s = s.Add(p.Not.Specificity())
			continue
		}
		s.Classes++
	}
	return s
}

// matchesStructure tests everything but the state pseudo-classes.
func (c *Compound) matchesStructure(n Styleable) bool {
	if c.Type != "" && c.Type != "*" && !strings.EqualFold(c.Type, n.ElementName()) {
		return false
	}
	if c.ID != "" && c.ID != n.StyleID() {
		return false
	}
	if len(c.Classes) > 0 {
		have := strings.Fields(n.StyleClass())
		for _, cls := range c.Classes {
			if !contains(have, cls) {
				return false
			}
		}
	}
	for _, a := range c.Attrs {
		if !a.Matches(n) {
			return false
		}
	}
	for _, p := range c.Pseudos {
		if !p.Matches(n) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Specificity is the (ids, classes, types) weight of a selector. Classes
// count attribute selectors and pseudo-classes too.
type Specificity struct {
	IDs, Classes, Types int
}

// Compare returns -1, 0 or 1 comparing s to o lexicographically.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.IDs != o.IDs:
		return sign(s.IDs - o.IDs)
	case s.Classes != o.Classes:
		return sign(s.Classes - o.Classes)
	}
	return sign(s.Types - o.Types)
}

// Add sums two specificities.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{s.IDs + o.IDs, s.Classes + o.Classes, s.Types + o.Types}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.IDs, s.Classes, s.Types)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Selector is a chain of compounds joined by combinators. The last
// compound is the subject: the node being styled.
type Selector struct {
	Compounds []*Compound
	// Combinators[i] joins Compounds[i] and Compounds[i+1].
	Combinators []Combinator
}

// Subject returns the rightmost compound.
func (s *Selector) Subject() *Compound {
	return s.Compounds[len(s.Compounds)-1]
}

// Specificity sums the specificity of every compound.
func (s *Selector) Specificity() Specificity {
	var total Specificity
	for _, c := range s.Compounds {
		total = total.Add(c.Specificity())
	}
	return total
}

func (s *Selector) String() string {
	var sb strings.Builder
	for i, c := range s.Compounds {
		if i > 0 {
			sb.WriteString(s.Combinators[i-1].String())
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
