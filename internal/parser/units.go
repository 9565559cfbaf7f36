package parser

import (
	"math"

	"github.com/yacobolo/freestyle/internal/lexer"
)

// Baseline values used for zero fields of a UnitContext.
const (
	DefaultDPI       = 160.0
	DefaultFontScale = 1.0
	DefaultEmSize    = 16.0
)

// UnitContext carries the display metrics used to resolve lengths to
// pixels. Zero fields fall back to the defaults above.
type UnitContext struct {
	DPI       float64
	FontScale float64
	EmSize    float64
}

// DefaultUnits returns a 160 dpi context with no font scaling and 16px em.
func DefaultUnits() UnitContext {
	return UnitContext{DPI: DefaultDPI, FontScale: DefaultFontScale, EmSize: DefaultEmSize}
}

// Normalize returns u with zero fields replaced by defaults. Normalized
// contexts are used as memo keys.
func (u UnitContext) Normalize() UnitContext {
	if u.DPI <= 0 {
		u.DPI = DefaultDPI
	}
	if u.FontScale <= 0 {
		u.FontScale = DefaultFontScale
	}
	if u.EmSize <= 0 {
		u.EmSize = DefaultEmSize
	}
	return u
}

// ToPixels converts num in unit to pixels. An empty unit is taken as
// pixels. ok is false for units that are not lengths.
func (u UnitContext) ToPixels(num float64, unit string) (px float64, ok bool) {
	u = u.Normalize()
	switch unit {
	case "", "px":
		return num, true
	case "dp", "dip":
		return num * u.DPI / 160, true
	case "sp":
		return num * u.DPI / 160 * u.FontScale, true
	case "pt":
		return num * u.DPI / 72, true
	case "pc":
		return num * u.DPI / 6, true
	case "in":
		return num * u.DPI, true
	case "mm":
		return num * u.DPI / 25.4, true
	case "cm":
		return num * u.DPI / 2.54, true
	case "em", "rem":
		return num * u.EmSize, true
	case "ex":
		return num * u.EmSize / 2, true
	}
	return 0, false
}

// TokenPixels resolves a NUMBER or LENGTH token to pixels.
func (u UnitContext) TokenPixels(tok lexer.Token) (float64, error) {
	if tok.Type != lexer.Number && tok.Type != lexer.Length {
		return 0, NewError(KindConversion, tok, "expected length, found %s %q", tok.Type, tok.Text)
	}
	px, ok := u.ToPixels(tok.Num, tok.Unit)
	if !ok {
		return 0, NewError(KindConversion, tok, "unsupported length unit %q", tok.Unit)
	}
	return px, nil
}

// TokenRadians resolves an angle token to radians. Bare numbers are degrees.
func TokenRadians(tok lexer.Token) (float64, error) {
	switch {
	case tok.Type == lexer.Number:
		return tok.Num * math.Pi / 180, nil
	case tok.Type != lexer.Angle:
		return 0, NewError(KindConversion, tok, "expected angle, found %s %q", tok.Type, tok.Text)
	}
	switch tok.Unit {
	case "deg":
		return tok.Num * math.Pi / 180, nil
	case "rad":
		return tok.Num, nil
	case "grad":
		return tok.Num * math.Pi / 200, nil
	case "turn":
		return tok.Num * 2 * math.Pi, nil
	}
	return 0, NewError(KindConversion, tok, "unsupported angle unit %q", tok.Unit)
}

// TokenSeconds resolves a time token to seconds. Bare numbers are seconds.
func TokenSeconds(tok lexer.Token) (float64, error) {
	switch {
	case tok.Type == lexer.Number:
		return tok.Num, nil
	case tok.Type == lexer.Time && tok.Unit == "ms":
		return tok.Num / 1000, nil
	case tok.Type == lexer.Time && tok.Unit == "s":
		return tok.Num, nil
	}
	return 0, NewError(KindConversion, tok, "expected time, found %s %q", tok.Type, tok.Text)
}
