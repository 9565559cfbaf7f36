package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/freestyle/internal/geom"
	"github.com/yacobolo/freestyle/internal/lexer"
)

const eps = 1e-9

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected geom.Matrix
	}{
		{"empty", "", geom.Identity()},
		{"uniform scale", "scale(2)", geom.Scale(2, 2)},
		{"scale pair", "scale(2, 3)", geom.Scale(2, 3)},
		{"scale without comma", "scale(2 3)", geom.Scale(2, 3)},
		{"scaleX", "scaleX(4)", geom.Scale(4, 1)},
		{"scaleY", "scaleY(4)", geom.Scale(1, 4)},
		{"translate one arg", "translate(5)", geom.Translate(5, 0)},
		{"translate px", "translate(5px, 6px)", geom.Translate(5, 6)},
		{"translateX", "translateX(7)", geom.Translate(7, 0)},
		{"translateY", "translateY(7)", geom.Translate(0, 7)},
		{"skewX 45deg", "skewX(45deg)", geom.Matrix{A: 1, C: 1, D: 1}},
		{"skewY bare degrees", "skewY(45)", geom.Matrix{A: 1, B: 1, D: 1}},
		{"skew one arg", "skew(45deg)", geom.Matrix{A: 1, C: 1, D: 1}},
		{"matrix", "matrix(1,0,0,1,5,5)", geom.Translate(5, 5)},
		{"rotate turn", "rotate(0.25turn)", geom.Rotate(math.Pi / 2)},
		{"rotate rad", "rotate(1rad)", geom.Rotate(1)},
		{"rotate grad", "rotate(100grad)", geom.Rotate(math.Pi / 2)},
		{"rotate pivot", "rotate(90, 1, 1)", geom.RotateAround(math.Pi/2, 1, 1)},
		{"commas between terms", "scale(2), translate(1, 1)", geom.Scale(2, 2).Multiply(geom.Translate(1, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, errs := ParseTransform(tt.input, DefaultUnits())
			assert.Empty(t, errs)
			assert.True(t, m.ApproxEqual(tt.expected, eps), "got %s, want %s", m, tt.expected)
		})
	}
}

func TestTransformCompositionOrder(t *testing.T) {
	m, errs := ParseTransform("translate(10,0) rotate(90deg)", DefaultUnits())
	require.Empty(t, errs)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 10.0, x, eps)
	assert.InDelta(t, 1.0, y, eps)
}

func TestTransformUnits(t *testing.T) {
	m, errs := ParseTransform("translate(10dp, 1in)", UnitContext{DPI: 320})
	require.Empty(t, errs)
	assert.InDelta(t, 20.0, m.E, eps)
	assert.InDelta(t, 320.0, m.F, eps)
}

func TestTransformErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected geom.Matrix
		errCount int
	}{
		{"unknown function keeps others", "perspective(3) scale(2)", geom.Scale(2, 2), 1},
		{"too many args", "scale(1, 2, 3) translate(1, 0)", geom.Translate(1, 0), 1},
		{"rotate with two args", "rotate(10, 1)", geom.Identity(), 1},
		{"matrix too short", "matrix(1, 0, 0)", geom.Identity(), 1},
		{"missing paren", "scale(2", geom.Identity(), 1},
		{"angle for scale", "scale(2deg)", geom.Identity(), 1},
		{"stray number", "5 scale(3)", geom.Scale(3, 3), 1},
		{"illegal char", "translate(1;2)", geom.Translate(1, 2), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, errs := ParseTransform(tt.input, DefaultUnits())
			assert.Len(t, errs, tt.errCount)
			assert.True(t, m.ApproxEqual(tt.expected, eps), "got %s, want %s", m, tt.expected)
		})
	}
}

func TestParseTransformTokens(t *testing.T) {
	tokens := lexer.Tokenize("translate(10, 0)  rotate(90deg)", lexer.ValueGrammar)
	m, errs := ParseTransformTokens(tokens, DefaultUnits())
	require.Empty(t, errs)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 10.0, x, eps)
	assert.InDelta(t, 1.0, y, eps)

	m, errs = ParseTransformTokens(lexer.Tokenize(" none ", lexer.ValueGrammar), DefaultUnits())
	assert.Empty(t, errs)
	assert.True(t, m.IsIdentity())
}
