package stylesheet

// Styleable is the contract a styled node fulfils. Implementations wrap
// host widgets or synthesized virtual children; the engine never looks
// past this interface.
type Styleable interface {
	// ElementName is the type name matched by type selectors.
	ElementName() string
	StyleID() string
	// StyleClass holds whitespace separated class names.
	StyleClass() string
	// Parent returns nil (an untyped nil interface) for roots.
	Parent() Styleable
	// Children includes virtual children.
	Children() []Styleable
	AttributeValue(name string) (string, bool)
	SupportedPseudoClasses() []string
	// DefaultPseudoClass names the state a node is in when no other state
	// applies. An empty name defers to the engine's default.
	DefaultPseudoClass() string
	IndexInParent() int
	SiblingCount() int
}

// InlineStyled is implemented by nodes that carry their own declarations,
// like an HTML style attribute. Those declarations cascade with the Inline
// origin.
type InlineStyled interface {
	InlineStyle() string
}

func siblings(n Styleable) []Styleable {
	if p := n.Parent(); p != nil {
		return p.Children()
	}
	return []Styleable{n}
}
