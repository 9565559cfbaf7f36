package stylesheet

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/freestyle/internal/lexer"
	"github.com/yacobolo/freestyle/internal/parser"
)

func decl(name, value string) *Declaration {
	return NewDeclaration(name, lexer.Tokenize(value, lexer.ValueGrammar))
}

func TestDeclarationAccessors(t *testing.T) {
	c, err := decl("color", "#00ff00").Color()
	require.NoError(t, err)
	assert.Equal(t, parser.Color{R: 0, G: 255, B: 0, A: 255}, c)

	p, err := decl("fill", "linear-gradient(red, blue)").Paint()
	require.NoError(t, err)
	assert.Equal(t, parser.PaintLinearGradient, p.Kind)

	f, err := decl("opacity", "0.25").Float()
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)

	a, err := decl("rotation", "0.5turn").Angle()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, a, 1e-9)

	s, err := decl("transition-duration", "250ms").Seconds()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s, 1e-9)

	k, err := decl("font-weight", "BOLD").Keyword()
	require.NoError(t, err)
	assert.Equal(t, "bold", k)

	e, err := decl("border-style", "dashed").Enum("solid", "dashed")
	require.NoError(t, err)
	assert.Equal(t, "dashed", e)

	str, err := decl("text", `"Hello"`).StringValue()
	require.NoError(t, err)
	assert.Equal(t, "Hello", str)

	list, err := decl("font-family", `"Roboto", sans-serif`).StringList()
	require.NoError(t, err)
	assert.Equal(t, []string{"Roboto", "sans-serif"}, list)

	u, err := decl("background-image", "url(bg.png)").URL()
	require.NoError(t, err)
	assert.Equal(t, "bg.png", u)

	in, err := decl("padding", "1 2").Insets(parser.UnitContext{})
	require.NoError(t, err)
	assert.Equal(t, parser.Insets{Top: 1, Right: 2, Bottom: 1, Left: 2}, in)

	fl, err := decl("values", "1 2 3").FloatList()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, fl)

	ll, err := decl("dashes", "1dp, 2dp").LengthList(parser.UnitContext{DPI: 320})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, ll)

	m, err := decl("transform", "matrix(1,0,0,1,5,5)").Transform(parser.UnitContext{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, m.E)
	assert.Equal(t, 5.0, m.F)
}

func TestDeclarationLengthPerUnitContext(t *testing.T) {
	d := decl("width", "10dp")

	v1, err := d.Length(parser.UnitContext{DPI: 160})
	require.NoError(t, err)
	v2, err := d.Length(parser.UnitContext{DPI: 320})
	require.NoError(t, err)
	v3, err := d.Length(parser.UnitContext{})
	require.NoError(t, err)

	assert.Equal(t, 10.0, v1)
	assert.Equal(t, 20.0, v2)
	assert.Equal(t, v1, v3, "zero context normalizes to the default")
	assert.Len(t, d.memo, 2)
}

func TestDeclarationErrors(t *testing.T) {
	d := decl("color", "12px")
	_, err := d.Color()
	require.Error(t, err)
	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, parser.KindConversion, perr.Kind)
	assert.Contains(t, err.Error(), "color:")

	_, err2 := d.Color()
	assert.Same(t, err, err2, "failures are memoized too")

	_, err = decl("transform", "scale(2) bogus(1)").Transform(parser.UnitContext{})
	assert.Error(t, err)

	_, err = decl("border-style", "wavy").Enum("solid")
	assert.Error(t, err)
}

func TestMiterLimitDefault(t *testing.T) {
	v, err := NewDeclaration("stroke-miterlimit", nil).MiterLimit()
	require.NoError(t, err)
	assert.Equal(t, DefaultMiterLimit, v)

	v, err = decl("stroke-miterlimit", "8").MiterLimit()
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	_, err = decl("stroke-miterlimit", "red").MiterLimit()
	assert.Error(t, err)
}

func TestDeclarationConcurrentAccess(t *testing.T) {
	d := decl("fill", "radial-gradient(circle, red, blue)")
	var wg sync.WaitGroup
	results := make([]parser.Paint, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = d.Paint()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Same(t, results[0].Gradient, r.Gradient)
	}
}

func TestDeclarationString(t *testing.T) {
	d := decl("Color", "  red ")
	d.Important = true
	assert.Equal(t, "color", d.Name)
	assert.Equal(t, "color: red !important", d.String())
}
