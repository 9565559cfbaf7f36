package freestyle

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yacobolo/freestyle/internal/cascade"
	"github.com/yacobolo/freestyle/internal/dom"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

const resolveTree = `
element: window
children:
  - element: button
    id: ok
`

const resolveSheet = `
button { color: #ff0000 }
button:pressed { opacity: 0.5 }
#ok { border-width: 2px }
`

func resolveFixture(t *testing.T, cfg Config) []cascade.NodeResult {
	t.Helper()
	sheet, err := ParseStylesheet("app.css", resolveSheet, 0, cfg)
	require.NoError(t, err)
	root, err := dom.Parse([]byte(resolveTree), dom.FormatYAML, dom.DefaultResolver())
	require.NoError(t, err)
	results, err := Resolve(cfg, []*stylesheet.Stylesheet{sheet}, root)
	require.NoError(t, err)
	return results
}

func TestResolveExport(t *testing.T) {
	nodes := Export(resolveFixture(t, DefaultConfig()))
	require.Len(t, nodes, 2)

	assert.Equal(t, "window", nodes[0].Path)
	require.Len(t, nodes[0].States, 1)
	assert.Equal(t, "normal", nodes[0].States[0].Name)
	assert.Empty(t, nodes[0].States[0].Properties)

	button := nodes[1]
	assert.Equal(t, "window > button#ok", button.Path)
	require.Len(t, button.States, 2)
	assert.Equal(t, "normal", button.States[0].Name)
	assert.Equal(t, map[string]string{"color": "#ff0000", "border.width": "2"}, button.States[0].Properties)
	assert.Equal(t, "pressed", button.States[1].Name)
	assert.Equal(t, map[string]string{"opacity": "0.5"}, button.States[1].Properties)
	assert.NotEqual(t, button.States[0].Hash, button.States[1].Hash)
}

func TestResolveInheritDefaultState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InheritDefaultState = true
	nodes := Export(resolveFixture(t, cfg))

	pressed := nodes[1].States[1]
	assert.Equal(t, map[string]string{"color": "#ff0000", "border.width": "2", "opacity": "0.5"}, pressed.Properties)
}

func TestWriteResolutionTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResolution(&buf, resolveFixture(t, DefaultConfig()), ResolutionTree, false))
	out := buf.String()

	assert.Contains(t, out, "window\n")
	assert.Contains(t, out, "button#ok")
	assert.Contains(t, out, ":pressed")
	assert.Contains(t, out, "border.width: 2")
	assert.Contains(t, out, "opacity: 0.5")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("border.width")), bytes.Index(buf.Bytes(), []byte("color: #ff0000")))
}

func TestWriteResolutionJSONAndYAML(t *testing.T) {
	results := resolveFixture(t, DefaultConfig())

	var buf bytes.Buffer
	require.NoError(t, WriteResolution(&buf, results, ResolutionJSON, false))
	var fromJSON []ResolvedNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, Export(results), fromJSON)

	buf.Reset()
	require.NoError(t, WriteResolution(&buf, results, ResolutionYAML, false))
	var fromYAML []ResolvedNode
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "window > button#ok", fromYAML[1].Path)
	assert.Equal(t, "0.5", fromYAML[1].States[1].Properties["opacity"])
}

func TestWriteResolutionEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResolution(&buf, nil, ResolutionTree, false))
	assert.Empty(t, buf.String())
}

func TestParseResolutionFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ResolutionFormat
	}{
		{"", ResolutionTree},
		{"tree", ResolutionTree},
		{"json", ResolutionJSON},
		{"yml", ResolutionYAML},
	}
	for _, tt := range tests {
		got, err := ParseResolutionFormat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseResolutionFormat("xml")
	require.Error(t, err)
}

func TestLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// root
		"element": "window",
		"children": [{"element": "checkbox", "id": "remember"}]
	}`), 0o644))

	root, err := LoadTree(path)
	require.NoError(t, err)
	require.Len(t, root.Nodes(), 1)
	assert.Equal(t, "toggle", root.Nodes()[0].Kind().Name)
}

func TestTransform(t *testing.T) {
	m, err := Transform("translate(10, 0) rotate(90deg)", DefaultConfig())
	require.NoError(t, err)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 10.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)

	_, err = Transform("rotate(", DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing transform")
}
