// Package dom provides a tree of styleable nodes loaded from YAML or JSON
// documents, for tooling and tests that have no host widget tree.
package dom

import (
	"strings"

	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// Spec is the document form of a node.
type Spec struct {
	Element    string            `yaml:"element" json:"element"`
	ID         string            `yaml:"id,omitempty" json:"id,omitempty"`
	Class      string            `yaml:"class,omitempty" json:"class,omitempty"`
	Style      string            `yaml:"style,omitempty" json:"style,omitempty"`
	Kind       string            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	// PseudoClasses adds states to those of the node's kind.
	PseudoClasses []string `yaml:"pseudo-classes,omitempty" json:"pseudo-classes,omitempty"`
	// DefaultPseudoClass overrides the kind's resting state.
	DefaultPseudoClass string `yaml:"default-pseudo-class,omitempty" json:"default-pseudo-class,omitempty"`
	Children           []Spec `yaml:"children,omitempty" json:"children,omitempty"`
	// Virtual children are styled like real ones but stand for parts of
	// their parent, such as a button's icon.
	Virtual []Spec `yaml:"virtual,omitempty" json:"virtual,omitempty"`
}

// Node is a Styleable backed by a Spec. Nodes are immutable once built.
type Node struct {
	spec     Spec
	kind     Kind
	states   []string
	virtual  bool
	parent   *Node
	index    int
	children []*Node
}

var (
	_ stylesheet.Styleable    = (*Node)(nil)
	_ stylesheet.InlineStyled = (*Node)(nil)
)

// Build turns spec into a node tree, resolving every node's kind once.
func Build(spec Spec, r Resolver) *Node {
	return build(spec, r, nil, 0, false)
}

func build(spec Spec, r Resolver, parent *Node, index int, virtual bool) *Node {
	n := &Node{spec: spec, parent: parent, index: index, virtual: virtual}
	n.kind = r.Resolve(&spec)
	n.states = mergeStates(n.kind.PseudoClasses, spec.PseudoClasses)
	for _, c := range spec.Children {
		n.children = append(n.children, build(c, r, n, len(n.children), false))
	}
	for _, c := range spec.Virtual {
		n.children = append(n.children, build(c, r, n, len(n.children), true))
	}
	return n
}

func mergeStates(a, b []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range append(append([]string(nil), a...), b...) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ElementName returns the element type selectors match against.
func (n *Node) ElementName() string { return n.spec.Element }

// StyleID returns the id matched by #id selectors.
func (n *Node) StyleID() string { return n.spec.ID }

// StyleClass returns the space separated class list.
func (n *Node) StyleClass() string { return n.spec.Class }

// InlineStyle returns the node's own declarations, or "".
func (n *Node) InlineStyle() string { return n.spec.Style }

// Kind returns the resolved kind.
func (n *Node) Kind() Kind { return n.kind }

// Virtual reports whether n stands for a part of its parent.
func (n *Node) Virtual() bool { return n.virtual }

// Parent returns nil at the root, never a typed nil.
func (n *Node) Parent() stylesheet.Styleable {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children returns real children followed by virtual ones.
func (n *Node) Children() []stylesheet.Styleable {
	out := make([]stylesheet.Styleable, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the children as nodes.
func (n *Node) Nodes() []*Node {
	return n.children
}

// AttributeValue looks up an attribute for [name=value] selectors.
func (n *Node) AttributeValue(name string) (string, bool) {
	v, ok := n.spec.Attributes[name]
	return v, ok
}

// SupportedPseudoClasses returns the kind's states merged with the node's own.
func (n *Node) SupportedPseudoClasses() []string {
	return n.states
}

// DefaultPseudoClass returns the node's default state, falling back to the
// kind's.
func (n *Node) DefaultPseudoClass() string {
	if n.spec.DefaultPseudoClass != "" {
		return n.spec.DefaultPseudoClass
	}
	return n.kind.Default
}

// IndexInParent returns the zero-based position among the parent's children.
func (n *Node) IndexInParent() int {
	return n.index
}

// SiblingCount returns the number of children of the parent, counting n.
// A root counts as its own only sibling.
func (n *Node) SiblingCount() int {
	if n.parent == nil {
		return 1
	}
	return len(n.parent.children)
}

// Label renders n like a selector compound: element#id.class.
func (n *Node) Label() string {
	var sb strings.Builder
	sb.WriteString(n.spec.Element)
	if n.spec.ID != "" {
		sb.WriteString("#" + n.spec.ID)
	}
	for _, c := range strings.Fields(n.spec.Class) {
		sb.WriteString("." + c)
	}
	if n.virtual {
		sb.WriteString(" (virtual)")
	}
	return sb.String()
}

// Path joins the labels from the root to n with " > ".
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.parent {
		parts = append(parts, p.Label())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// Walk visits n and its descendants in depth-first pre-order until fn
// returns false.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}
