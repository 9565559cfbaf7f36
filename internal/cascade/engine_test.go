package cascade

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yacobolo/freestyle/internal/dom"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

const tree = `
element: window
children:
  - element: button
    id: ok
    class: primary
  - element: button
    id: cancel
    class: secondary
    style: "color: #00ff00; opacity: 0.25"
  - element: label
    class: primary
`

func sheet(src string, origin stylesheet.Origin, index int) *stylesheet.Stylesheet {
	return stylesheet.Parse(src, stylesheet.ParseOptions{Name: "test.css", Origin: origin, Index: index})
}

func setup(t *testing.T, opts Options, sheets ...*stylesheet.Stylesheet) (*Engine, *dom.Node) {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	e, err := New(sheets, opts)
	require.NoError(t, err)
	root, err := dom.Parse([]byte(tree), dom.FormatYAML, dom.DefaultResolver())
	require.NoError(t, err)
	return e, root
}

func author(src string) *stylesheet.Stylesheet {
	return sheet(src, stylesheet.OriginAuthor, 0)
}

func colorOf(t *testing.T, r *Result, state string) string {
	t.Helper()
	ctx := r.States[state]
	require.NotNil(t, ctx, "state %s", state)
	require.NotNil(t, ctx.TextColor, "state %s has no color", state)
	return ctx.TextColor.Hex()
}

func TestSpecificityOrdering(t *testing.T) {
	e, root := setup(t, Options{}, author(`
		#ok { color: blue }
		button.primary { color: green }
		button { color: red }
	`))
	ok := root.Nodes()[0]
	assert.Equal(t, "#0000ff", colorOf(t, e.Resolve(ok), "normal"))

	label := root.Nodes()[2]
	assert.Nil(t, e.Resolve(label).Default().TextColor)
}

func TestLaterRuleWinsTies(t *testing.T) {
	e, root := setup(t, Options{},
		sheet(`.primary { color: red } .primary { color: blue }`, stylesheet.OriginAuthor, 0),
	)
	assert.Equal(t, "#0000ff", colorOf(t, e.Resolve(root.Nodes()[0]), "normal"))

	// the later stylesheet wins over an earlier one of the same origin
	e, root = setup(t, Options{},
		sheet(`.primary { color: green }`, stylesheet.OriginAuthor, 1),
		sheet(`.primary { color: red }`, stylesheet.OriginAuthor, 0),
	)
	assert.Equal(t, "#008000", colorOf(t, e.Resolve(root.Nodes()[0]), "normal"))
}

func TestOriginOutranksSpecificity(t *testing.T) {
	e, root := setup(t, Options{},
		sheet(`window > button#ok.primary { color: red }`, stylesheet.OriginUserAgent, 0),
		sheet(`* { color: blue }`, stylesheet.OriginAuthor, 1),
	)
	assert.Equal(t, "#0000ff", colorOf(t, e.Resolve(root.Nodes()[0]), "normal"))
}

func TestImportantDeclarations(t *testing.T) {
	e, root := setup(t, Options{}, author(`
		#ok { color: red }
		button { color: blue !important }
	`))
	ok := root.Nodes()[0]
	assert.Equal(t, "#0000ff", colorOf(t, e.Resolve(ok), "normal"))

	decls := e.Declarations(ok, "normal")
	require.Len(t, decls, 2)
	assert.False(t, decls[0].Important)
	assert.True(t, decls[1].Important)
}

func TestInlineStyle(t *testing.T) {
	e, root := setup(t, Options{}, author(`
		#cancel { color: red; opacity: 1 !important }
		#ok { color: red }
	`))
	cancel := e.Resolve(root.Nodes()[1]).Default()
	assert.Equal(t, "#00ff00", cancel.TextColor.Hex())
	// !important beats an inline normal declaration
	require.NotNil(t, cancel.Opacity)
	assert.Equal(t, 1.0, *cancel.Opacity)

	ok := e.Resolve(root.Nodes()[0]).Default()
	assert.Equal(t, "#ff0000", ok.TextColor.Hex())
	assert.NotEqual(t, ok.StyleHash, cancel.StyleHash)
}

func TestPseudoClassStateIsolation(t *testing.T) {
	css := author(`
		button { color: red; background-color: white }
		button:pressed { color: blue }
		button:hover { color: green }
		#ok:disabled { opacity: 0.5 }
	`)
	e, root := setup(t, Options{}, css)
	ok := root.Nodes()[0]

	// hover is not supported by buttons
	assert.Equal(t, []string{"normal", "disabled", "pressed"}, e.States(ok))

	r := e.Resolve(ok)
	assert.Equal(t, []string{"normal", "disabled", "pressed"}, r.Order)
	assert.Equal(t, "#ff0000", colorOf(t, r, "normal"))
	assert.Equal(t, "#0000ff", colorOf(t, r, "pressed"))

	pressed := r.States["pressed"]
	assert.Nil(t, pressed.Fill)
	assert.Nil(t, pressed.Opacity)
	assert.Nil(t, r.States["normal"].Opacity)
	assert.Equal(t, 0.5, *r.States["disabled"].Opacity)

	assert.Len(t, e.Match(ok, "pressed"), 1)
	assert.Len(t, e.Match(ok, "normal"), 1)
}

func TestInheritDefaultState(t *testing.T) {
	css := author(`
		#ok { color: red; background-color: white }
		button:pressed { color: blue }
	`)
	e, root := setup(t, Options{InheritDefaultState: true}, css)
	r := e.Resolve(root.Nodes()[0])

	// state rules outrank inherited ones regardless of specificity
	assert.Equal(t, "#0000ff", colorOf(t, r, "pressed"))
	require.NotNil(t, r.States["pressed"].Fill)
	assert.Equal(t, "#ffffff", r.States["pressed"].Fill.String())
	assert.Equal(t, "#ff0000", colorOf(t, r, "normal"))
}

func TestErrorContainment(t *testing.T) {
	css := author(`button { color: ; opacity: 0.5 } #ok { color: 12px; font-size: 10 }`)
	require.Len(t, css.Errors, 1)

	e, root := setup(t, Options{}, css)
	ctx := e.Resolve(root.Nodes()[0]).Default()
	assert.Nil(t, ctx.TextColor)
	assert.Equal(t, 0.5, *ctx.Opacity)
	assert.Equal(t, 10.0, *ctx.Font.Size)
	require.Len(t, ctx.Errors, 1)
	assert.Contains(t, ctx.Errors[0].Error(), "color")
}

func TestConversionFailureKeepsLowerPriorityValue(t *testing.T) {
	e, root := setup(t, Options{}, author(`button { color: red } #ok { color: 12px }`))
	r := e.Resolve(root.Nodes()[0])
	assert.Equal(t, "#ff0000", colorOf(t, r, "normal"))
	assert.Len(t, r.Default().Errors, 1)
}

func TestTransformComposition(t *testing.T) {
	e, root := setup(t, Options{}, author(`#ok { transform: translate(10, 0) rotate(90deg) }`))
	ctx := e.Resolve(root.Nodes()[0]).Default()
	require.NotNil(t, ctx.Transform)
	x, y := ctx.Transform.Apply(1, 0)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestResolveIsIdempotent(t *testing.T) {
	e, root := setup(t, Options{}, author(`
		button { color: red; border: 1px solid black }
		button:pressed { color: blue }
		.primary { padding: 4 }
	`))
	ok := root.Nodes()[0]
	first := e.Resolve(ok)
	second := e.Resolve(ok)
	assert.Equal(t, first.Order, second.Order)
	for _, st := range first.Order {
		assert.Equal(t, first.States[st].Summary(), second.States[st].Summary())
		assert.Equal(t, first.States[st].StyleHash, second.States[st].StyleHash)
	}
	stats := e.Cache().Stats()
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(2), stats.Hits)

	// uncached resolution gives the same answer
	uncached, root2 := setup(t, Options{CacheSize: -1}, author(`
		button { color: red; border: 1px solid black }
		button:pressed { color: blue }
		.primary { padding: 4 }
	`))
	assert.Nil(t, uncached.Cache())
	third := uncached.Resolve(root2.Nodes()[0])
	for _, st := range first.Order {
		assert.Equal(t, first.States[st].Summary(), third.States[st].Summary())
	}
}

func TestResolvedContextsAreCopies(t *testing.T) {
	e, root := setup(t, Options{}, author(`button { color: red }`))
	ok := root.Nodes()[0]
	r := e.Resolve(ok)
	r.Default().Visibility = "hidden"
	r.Default().Applied["color"] = "changed"

	again := e.Resolve(ok).Default()
	assert.Empty(t, again.Visibility)
	assert.Equal(t, "red", again.Applied["color"])
}

func TestSharedDeclarationsShareCacheEntries(t *testing.T) {
	e, root := setup(t, Options{}, author(`.primary { color: red }`))
	a := e.Resolve(root.Nodes()[0]).Default()
	b := e.Resolve(root.Nodes()[2]).Default()
	assert.Equal(t, a.StyleHash, b.StyleHash)
	assert.Equal(t, uint64(1), e.Cache().Stats().Hits)
}

func TestResolveTree(t *testing.T) {
	e, root := setup(t, Options{}, author(`window > * { opacity: 0.5 }`))
	results := e.ResolveTree(root)
	require.Len(t, results, 4)
	assert.Equal(t, []int{0, 1, 1, 1}, []int{results[0].Depth, results[1].Depth, results[2].Depth, results[3].Depth})
	assert.Nil(t, results[0].Result.Default().Opacity)
	assert.Equal(t, 0.5, *results[3].Result.Default().Opacity)
}

func TestConcurrentResolve(t *testing.T) {
	e, root := setup(t, Options{CacheSize: 2}, author(`
		button { color: red }
		button:pressed { color: blue }
		.primary { opacity: 0.5 }
	`))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range root.Nodes() {
				e.Resolve(n)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "#0000ff", colorOf(t, e.Resolve(root.Nodes()[0]), "pressed"))
	assert.LessOrEqual(t, e.Cache().Len(), 2)
}
