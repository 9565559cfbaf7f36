package dom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlTree = `
element: window
id: main
children:
  - element: button
    id: ok
    class: primary large
    style: "color: red"
    attributes:
      role: confirm
    virtual:
      - element: icon
      - element: title
  - element: label
    pseudo-classes: [highlighted]
    default-pseudo-class: idle
`

const jsonTree = `{
  // comments are allowed
  "element": "list",
  "children": [
    {"element": "list-item", "class": "row"},
    {"element": "list-item", "class": "row", "kind": "button"}, // trailing comma
  ],
}`

func TestParseYAML(t *testing.T) {
	root, err := Parse([]byte(yamlTree), FormatYAML, DefaultResolver())
	require.NoError(t, err)

	assert.Equal(t, "window", root.ElementName())
	assert.Equal(t, "container", root.Kind().Name)
	assert.Nil(t, root.Parent())
	assert.Equal(t, 1, root.SiblingCount())

	kids := root.Nodes()
	require.Len(t, kids, 2)
	ok := kids[0]
	assert.Equal(t, "button", ok.Kind().Name)
	assert.Equal(t, "normal", ok.DefaultPseudoClass())
	assert.Contains(t, ok.SupportedPseudoClasses(), "pressed")
	assert.Equal(t, "color: red", ok.InlineStyle())
	v, found := ok.AttributeValue("role")
	assert.True(t, found)
	assert.Equal(t, "confirm", v)
	assert.Same(t, root, ok.Parent())

	// virtual children follow real ones
	parts := ok.Nodes()
	require.Len(t, parts, 2)
	assert.True(t, parts[0].Virtual())
	assert.Equal(t, 1, parts[1].IndexInParent())
	assert.Equal(t, 2, parts[1].SiblingCount())
	assert.Equal(t, "window#main > button#ok.primary.large > title (virtual)", parts[1].Path())

	label := kids[1]
	assert.Equal(t, "view", label.Kind().Name)
	assert.Equal(t, "idle", label.DefaultPseudoClass())
	assert.Equal(t, []string{"highlighted"}, label.SupportedPseudoClasses())
	assert.Equal(t, 1, label.IndexInParent())
}

func TestParseJSONWithComments(t *testing.T) {
	root, err := Parse([]byte(jsonTree), FormatJSON, DefaultResolver())
	require.NoError(t, err)
	kids := root.Nodes()
	require.Len(t, kids, 2)
	assert.Equal(t, "item", kids[0].Kind().Name)
	// an explicit kind takes part in resolution
	assert.Equal(t, "button", kids[1].Kind().Name)
}

func TestResolverOrder(t *testing.T) {
	r := Resolver{
		Rules: []KindRule{
			{ElementIs("button"), Kind{Name: "first"}},
			{ElementIs("button"), Kind{Name: "second"}},
		},
		Fallback: Kind{Name: "other"},
	}
	assert.Equal(t, "first", r.Resolve(&Spec{Element: "Button"}).Name)
	assert.Equal(t, "other", r.Resolve(&Spec{Element: "label"}).Name)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("children: [{element: a}]"), FormatYAML, DefaultResolver())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing element")

	_, err = Parse([]byte(`{"element": "a", "children": [{}]}`), FormatJSON, DefaultResolver())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root.children[0]")

	_, err = Parse([]byte("element: [oops"), FormatYAML, DefaultResolver())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(jsonTree), 0o644))

	root, err := Load(path, DefaultResolver())
	require.NoError(t, err)
	assert.Equal(t, "list", root.ElementName())

	_, err = Load(filepath.Join(dir, "tree.txt"), DefaultResolver())
	assert.ErrorContains(t, err, "unsupported node file")

	_, err = Load(filepath.Join(dir, "missing.yaml"), DefaultResolver())
	assert.ErrorContains(t, err, "reading node file")
}

func TestWalk(t *testing.T) {
	root, err := Parse([]byte(yamlTree), FormatYAML, DefaultResolver())
	require.NoError(t, err)

	var labels []string
	var depths []int
	root.Walk(func(n *Node, depth int) bool {
		labels = append(labels, n.ElementName())
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"window", "button", "icon", "title", "label"}, labels)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)

	count := 0
	root.Walk(func(*Node, int) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}
