package dom

import "strings"

// Kind describes a family of nodes: the states they support and the state
// they rest in.
type Kind struct {
	Name          string
	PseudoClasses []string
	Default       string
}

// KindRule assigns Kind to nodes whose spec satisfies Match.
type KindRule struct {
	Match func(s *Spec) bool
	Kind  Kind
}

// Resolver picks a node's kind from an ordered rule list. The first
// matching rule wins; Fallback is used when none does.
type Resolver struct {
	Rules    []KindRule
	Fallback Kind
}

// Resolve returns the kind for s.
func (r Resolver) Resolve(s *Spec) Kind {
	for _, rule := range r.Rules {
		if rule.Match(s) {
			return rule.Kind
		}
	}
	return r.Fallback
}

// ElementIs matches specs whose kind or element name is one of names.
func ElementIs(names ...string) func(*Spec) bool {
	return func(s *Spec) bool {
		for _, n := range names {
			if strings.EqualFold(s.Kind, n) || strings.EqualFold(s.Element, n) {
				return true
			}
		}
		return false
	}
}

// DefaultResolver knows the common control kinds. More specific rules
// come first.
func DefaultResolver() Resolver {
	return Resolver{
		Rules: []KindRule{
			{ElementIs("button", "image-button"), Kind{
				Name:          "button",
				PseudoClasses: []string{"pressed", "disabled", "focused", "selected"},
				Default:       "normal",
			}},
			{ElementIs("checkbox", "switch", "toggle"), Kind{
				Name:          "toggle",
				PseudoClasses: []string{"checked", "pressed", "disabled"},
				Default:       "normal",
			}},
			{ElementIs("text-field", "text-view", "input"), Kind{
				Name:          "text",
				PseudoClasses: []string{"focused", "disabled"},
				Default:       "normal",
			}},
			{ElementIs("list-item", "cell"), Kind{
				Name:          "item",
				PseudoClasses: []string{"selected", "pressed"},
				Default:       "normal",
			}},
			{func(s *Spec) bool { return len(s.Children) > 0 || len(s.Virtual) > 0 }, Kind{
				Name: "container",
			}},
		},
		Fallback: Kind{Name: "view"},
	}
}
