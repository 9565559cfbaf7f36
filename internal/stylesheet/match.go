package stylesheet

import "strings"

// MatchOptions control how state pseudo-classes are matched.
type MatchOptions struct {
	// DefaultState is used for nodes that report no default pseudo-class.
	DefaultState string
	// InheritDefaultState lets subjects without a state pseudo-class match
	// in every state, not only the default one.
	InheritDefaultState bool
}

// StateOf returns the default state of n.
func (o MatchOptions) StateOf(n Styleable) string {
	if s := n.DefaultPseudoClass(); s != "" {
		return strings.ToLower(s)
	}
	return o.DefaultState
}

// Supports reports whether n can be in state.
func (o MatchOptions) Supports(n Styleable, state string) bool {
	if state == o.StateOf(n) {
		return true
	}
	for _, s := range n.SupportedPseudoClasses() {
		if strings.EqualFold(s, state) {
			return true
		}
	}
	return false
}

// Matches reports whether the selector applies to n in the given state.
//
// A subject carrying state pseudo-classes matches only when every one of
// them equals state and n supports it. A subject without one matches the
// node's default state. Compounds left of a combinator are tested in their
// node's default state.
func (s *Selector) Matches(n Styleable, state string, opts MatchOptions) bool {
	subj := s.Subject()
	if !subj.matchesStructure(n) || !subj.matchesState(n, state, opts) {
		return false
	}
	return s.matchFrom(len(s.Compounds)-2, n, opts)
}

// MatchesStructure is Matches without the subject's state test.
func (s *Selector) MatchesStructure(n Styleable, opts MatchOptions) bool {
	if !s.Subject().matchesStructure(n) {
		return false
	}
	return s.matchFrom(len(s.Compounds)-2, n, opts)
}

func (c *Compound) matchesState(n Styleable, state string, opts MatchOptions) bool {
	if len(c.States) == 0 {
		return opts.InheritDefaultState || state == opts.StateOf(n)
	}
	for _, st := range c.States {
		if st != state || !opts.Supports(n, st) {
			return false
		}
	}
	return true
}

// matchesContext matches a compound left of a combinator.
func (c *Compound) matchesContext(n Styleable, opts MatchOptions) bool {
	if !c.matchesStructure(n) {
		return false
	}
	if len(c.States) == 0 {
		return true
	}
	def := opts.StateOf(n)
	for _, st := range c.States {
		if st != def {
			return false
		}
	}
	return true
}

// matchFrom checks Compounds[0..i] given that n matched Compounds[i+1].
func (s *Selector) matchFrom(i int, n Styleable, opts MatchOptions) bool {
	if i < 0 {
		return true
	}
	c := s.Compounds[i]
	switch s.Combinators[i] {
	case Child:
		p := n.Parent()
		return p != nil && c.matchesContext(p, opts) && s.matchFrom(i-1, p, opts)
	case Descendant:
		for p := n.Parent(); p != nil; p = p.Parent() {
			if c.matchesContext(p, opts) && s.matchFrom(i-1, p, opts) {
				return true
			}
		}
		return false
	case Adjacent:
		prev := previousSiblings(n)
		if len(prev) == 0 {
			return false
		}
		sib := prev[len(prev)-1]
		return c.matchesContext(sib, opts) && s.matchFrom(i-1, sib, opts)
	case Sibling:
		prev := previousSiblings(n)
		for j := len(prev) - 1; j >= 0; j-- {
			if c.matchesContext(prev[j], opts) && s.matchFrom(i-1, prev[j], opts) {
				return true
			}
		}
		return false
	}
	return false
}

func previousSiblings(n Styleable) []Styleable {
	if n.Parent() == nil {
		return nil
	}
	sibs := siblings(n)
	idx := n.IndexInParent()
	if idx < 0 || idx > len(sibs) {
		return nil
	}
	return sibs[:idx]
}
