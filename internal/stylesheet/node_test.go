package stylesheet

// node is a minimal Styleable for tests.
type node struct {
	name, id, class string
	attrs           map[string]string
	states          []string
	def             string
	parent          *node
	kids            []*node
}

func el(name, id, class string, kids ...*node) *node {
	n := &node{name: name, id: id, class: class, kids: kids, def: "normal"}
	for _, k := range kids {
		k.parent = n
	}
	return n
}

func (n *node) with(states ...string) *node {
	n.states = states
	return n
}

func (n *node) attr(k, v string) *node {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[k] = v
	return n
}

func (n *node) ElementName() string { return n.name }
func (n *node) StyleID() string     { return n.id }
func (n *node) StyleClass() string  { return n.class }

func (n *node) Parent() Styleable {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Styleable {
	out := make([]Styleable, len(n.kids))
	for i, k := range n.kids {
		out[i] = k
	}
	return out
}

func (n *node) AttributeValue(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *node) SupportedPseudoClasses() []string { return n.states }
func (n *node) DefaultPseudoClass() string       { return n.def }

func (n *node) IndexInParent() int {
	if n.parent == nil {
		return 0
	}
	for i, k := range n.parent.kids {
		if k == n {
			return i
		}
	}
	return 0
}

func (n *node) SiblingCount() int {
	if n.parent == nil {
		return 1
	}
	return len(n.parent.kids)
}
