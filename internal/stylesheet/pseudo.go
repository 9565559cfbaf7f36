package stylesheet

import (
	"fmt"
	"strconv"
	"strings"
)

// structural lists the pseudo-classes that test tree position. Any other
// pseudo-class names a state. The value tells whether it takes an argument.
var structural = map[string]bool{
	"root":             false,
	"first-child":      false,
	"last-child":       false,
	"only-child":       false,
	"first-of-type":    false,
	"last-of-type":     false,
	"only-of-type":     false,
	"empty":            false,
	"nth-child":        true,
	"nth-last-child":   true,
	"nth-of-type":      true,
	"nth-last-of-type": true,
	"not":              true,
}

// IsStructural reports whether name is a structural pseudo-class.
func IsStructural(name string) bool {
	_, ok := structural[name]
	return ok
}

// Pseudo is a structural pseudo-class.
type Pseudo struct {
	Name string
	// Nth holds the an+b formula of the nth-* pseudo-classes.
	Nth Nth
	// Not holds the argument of :not().
	Not *Compound
}

func (p Pseudo) String() string {
	switch {
	case p.Not != nil:
		return ":not(" + p.Not.String() + ")"
	case strings.HasPrefix(p.Name, "nth-"):
		return ":" + p.Name + "(" + p.Nth.String() + ")"
	}
	return ":" + p.Name
}

// Matches tests the pseudo-class against n.
func (p Pseudo) Matches(n Styleable) bool {
	switch p.Name {
	case "root":
		return n.Parent() == nil
	case "first-child":
		return n.IndexInParent() == 0
	case "last-child":
		return n.IndexInParent() == n.SiblingCount()-1
	case "only-child":
		return n.SiblingCount() == 1
	case "nth-child":
		return p.Nth.Matches(n.IndexInParent() + 1)
	case "nth-last-child":
		return p.Nth.Matches(n.SiblingCount() - n.IndexInParent())
	case "first-of-type":
		idx, _ := typeIndex(n)
		return idx == 0
	case "last-of-type":
		idx, count := typeIndex(n)
		return idx == count-1
	case "only-of-type":
		_, count := typeIndex(n)
		return count == 1
	case "nth-of-type":
		idx, _ := typeIndex(n)
		return p.Nth.Matches(idx + 1)
	case "nth-last-of-type":
		idx, count := typeIndex(n)
		return p.Nth.Matches(count - idx)
	case "empty":
		return len(n.Children()) == 0
	case "not":
		return !p.Not.matchesStructure(n)
	}
	return false
}

// typeIndex returns the position of n among siblings with the same element
// name, and the number of such siblings.
func typeIndex(n Styleable) (idx, count int) {
	name := n.ElementName()
	idx = -1
	for _, s := range siblings(n) {
		if !strings.EqualFold(s.ElementName(), name) {
			continue
		}
		if s == n {
			idx = count
		}
		count++
	}
	if idx < 0 {
		// n is not reachable through its parent's children
		return 0, 1
	}
	return idx, count
}

// Nth is the an+b formula of :nth-child() and friends.
type Nth struct {
	A, B int
}

// Matches reports whether the 1-based position pos is A*k+B for some k >= 0.
func (f Nth) Matches(pos int) bool {
	if f.A == 0 {
		return pos == f.B
	}
	diff := pos - f.B
	return diff%f.A == 0 && diff/f.A >= 0
}

func (f Nth) String() string {
	switch {
	case f.A == 0:
		return strconv.Itoa(f.B)
	case f.B == 0:
		return strconv.Itoa(f.A) + "n"
	case f.B > 0:
		return fmt.Sprintf("%dn+%d", f.A, f.B)
	}
	return fmt.Sprintf("%dn%d", f.A, f.B)
}

// ParseNth parses "odd", "even", "b", "an", "an+b" and "an-b", ignoring
// whitespace.
func ParseNth(text string) (Nth, error) {
	s := strings.ToLower(strings.Join(strings.Fields(text), ""))
	switch s {
	case "odd":
		return Nth{A: 2, B: 1}, nil
	case "even":
		return Nth{A: 2}, nil
	case "":
		return Nth{}, fmt.Errorf("empty an+b expression")
	}

	n := strings.IndexByte(s, 'n')
	if n < 0 {
		b, err := strconv.Atoi(s)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid an+b expression %q", text)
		}
		return Nth{B: b}, nil
	}

	var f Nth
	switch coef := s[:n]; coef {
	case "", "+":
		f.A = 1
	case "-":
		f.A = -1
	default:
		a, err := strconv.Atoi(coef)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid an+b expression %q", text)
		}
		f.A = a
	}
	if rest := s[n+1:]; rest != "" {
		if rest[0] != '+' && rest[0] != '-' {
			return Nth{}, fmt.Errorf("invalid an+b expression %q", text)
		}
		b, err := strconv.Atoi(rest)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid an+b expression %q", text)
		}
		f.B = b
	}
	return f, nil
}
