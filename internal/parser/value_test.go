package parser

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/freestyle/internal/lexer"
)

func tok(s string) []lexer.Token {
	return lexer.Tokenize(s, lexer.ValueGrammar)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
		hex      string
	}{
		{"#ff0000", Color{255, 0, 0, 255}, "#ff0000"},
		{"#0f0", Color{0, 255, 0, 255}, "#00ff00"},
		{"red", Color{255, 0, 0, 255}, "#ff0000"},
		{"rgb(1, 2, 3)", Color{1, 2, 3, 255}, "#010203"},
		{"rgba(0, 0, 255, 0.5)", Color{0, 0, 255, 128}, "#0000ff80"},
		{"transparent", Color{0, 0, 0, 0}, "#00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColor(tok(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
			assert.Equal(t, tt.hex, c.Hex())
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	inputs := []string{
		"", "  ", "notacolor", "12px",
		// hex digits without '#'
		"123", "ff0000", "abcd", "12345678", "0.5", "50%",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseColor(tok(input))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, KindConversion, perr.Kind)
		})
	}
}

func TestParsePaint(t *testing.T) {
	p, err := ParsePaint(tok("none"))
	require.NoError(t, err)
	assert.Equal(t, PaintNone, p.Kind)

	p, err = ParsePaint(tok("blue"))
	require.NoError(t, err)
	assert.Equal(t, PaintColor, p.Kind)
	assert.Equal(t, "#0000ff", p.String())

	p, err = ParsePaint(tok("linear-gradient(to right, red, blue)"))
	require.NoError(t, err)
	require.Equal(t, PaintLinearGradient, p.Kind)
	assert.InDelta(t, math.Pi/2, p.Gradient.Angle, eps)
	require.Len(t, p.Gradient.Stops, 2)
	assert.Equal(t, 0.0, p.Gradient.Stops[0].Offset)
	assert.Equal(t, 1.0, p.Gradient.Stops[1].Offset)

	p, err = ParsePaint(tok("linear-gradient(45deg, red 0%, lime, blue 100%)"))
	require.NoError(t, err)
	require.Len(t, p.Gradient.Stops, 3)
	assert.InDelta(t, math.Pi/4, p.Gradient.Angle, eps)
	assert.InDelta(t, 0.5, p.Gradient.Stops[1].Offset, eps)

	p, err = ParsePaint(tok("linear-gradient(red, green 20%, blue, white)"))
	require.NoError(t, err)
	require.Len(t, p.Gradient.Stops, 4)
	assert.InDelta(t, 0.6, p.Gradient.Stops[2].Offset, eps)
	assert.InDelta(t, math.Pi, p.Gradient.Angle, eps)

	p, err = ParsePaint(tok("radial-gradient(circle, red, blue)"))
	require.NoError(t, err)
	assert.Equal(t, PaintRadialGradient, p.Kind)
	assert.Equal(t, "circle", p.Gradient.Shape)

	p, err = ParsePaint(tok("radial-gradient(red, blue)"))
	require.NoError(t, err)
	assert.Equal(t, "ellipse", p.Gradient.Shape)
	assert.Len(t, p.Gradient.Stops, 2)
}

func TestParsePaintErrors(t *testing.T) {
	for _, input := range []string{
		"linear-gradient(red)",
		"linear-gradient(to nowhere, red, blue)",
		"linear-gradient(red, blue",
		"linear-gradient(red, blue) red",
		"linear-gradient(red 5px, blue)",
		"nope",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePaint(tok(input))
			assert.Error(t, err)
		})
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input    string
		units    UnitContext
		expected float64
	}{
		{"10", UnitContext{}, 10},
		{"10px", UnitContext{}, 10},
		{"10dp", UnitContext{DPI: 240}, 15},
		{"1in", UnitContext{}, 160},
		{"12sp", UnitContext{FontScale: 1.5}, 18},
		{"72pt", UnitContext{DPI: 72}, 72},
		{"2em", UnitContext{EmSize: 10}, 20},
		{"25.4mm", UnitContext{DPI: 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseLength(tok(tt.input), tt.units)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, eps)
		})
	}

	_, err := ParseLength(tok("50%"), UnitContext{})
	assert.Error(t, err)
	_, err = ParseLength(tok("3vw"), UnitContext{})
	assert.Error(t, err)

	l, err := ParseLengthOrPercent(tok("50%"), UnitContext{})
	require.NoError(t, err)
	assert.Equal(t, Length{Value: 0.5, Percent: true}, l)
	assert.Equal(t, "50%", l.String())
}

func TestParseScalars(t *testing.T) {
	f, err := ParseFloat(tok(" 0.5 "))
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	f, err = ParseFloat(tok("50%"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	_, err = ParseFloat(tok("1 2"))
	assert.Error(t, err)

	a, err := ParseAngle(tok("90deg"))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, a, eps)

	a, err = ParseAngle(tok("90"))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, a, eps)

	s, err := ParseTime(tok("200ms"))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, s, eps)

	s, err = ParseTime(tok("3"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, s)

	_, err = ParseTime(tok("5px"))
	assert.Error(t, err)
}

func TestParseKeywords(t *testing.T) {
	kw, err := ParseKeyword(tok("Bold"))
	require.NoError(t, err)
	assert.Equal(t, "bold", kw)

	_, err = ParseKeyword(tok("12"))
	assert.Error(t, err)

	e, err := ParseEnum(tok("solid"), "solid", "dashed")
	require.NoError(t, err)
	assert.Equal(t, "solid", e)

	_, err = ParseEnum(tok("wavy"), "solid", "dashed")
	assert.Error(t, err)
}

func TestParseStrings(t *testing.T) {
	s, err := ParseString(tok(`"Helvetica Neue"`))
	require.NoError(t, err)
	assert.Equal(t, "Helvetica Neue", s)

	s, err = ParseString(tok(`Helvetica   Neue`))
	require.NoError(t, err)
	assert.Equal(t, "Helvetica Neue", s)

	list, err := ParseStringList(tok(`"A", B C`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B C"}, list)

	u, err := ParseURL(tok(`url(images/a.png)`))
	require.NoError(t, err)
	assert.Equal(t, "images/a.png", u)

	_, err = ParseURL(tok(`red`))
	assert.Error(t, err)
}

func TestParseInsets(t *testing.T) {
	tests := []struct {
		input    string
		expected Insets
	}{
		{"4", Insets{4, 4, 4, 4}},
		{"1 2", Insets{1, 2, 1, 2}},
		{"1 2 3", Insets{1, 2, 3, 2}},
		{"1px 2px 3px 4px", Insets{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in, err := ParseInsets(tok(tt.input), UnitContext{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, in)
		})
	}

	_, err := ParseInsets(tok("1 2 3 4 5"), UnitContext{})
	assert.Error(t, err)
}

func TestLists(t *testing.T) {
	f, err := ParseFloatList(tok("1, 2, 3"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, f)

	f, err = ParseFloatList(tok("1 2 3"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, f)

	_, err = ParseFloatList(tok(""))
	assert.Error(t, err)

	l, err := ParseLengthList(tok("1in 2px"), UnitContext{DPI: 100})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 2}, l)

	groups := SplitList(tok("rgb(1, 2, 3), red"))
	require.Len(t, groups, 2)
	assert.Equal(t, "rgb(1, 2, 3)", lexer.Join(groups[0]))
	assert.Equal(t, "red", lexer.Join(groups[1]))

	assert.Len(t, SplitSpaces(tok(" a  rgb(1, 2, 3) b ")), 3)
}
