package stylesheet

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yacobolo/freestyle/internal/geom"
	"github.com/yacobolo/freestyle/internal/lexer"
	"github.com/yacobolo/freestyle/internal/parser"
)

// DefaultMiterLimit applies when stroke-miterlimit has no value.
const DefaultMiterLimit = 4.0

// ID identifies a declaration across all loaded stylesheets.
type ID struct {
	Sheet int
	Rule  int
	Index int
}

func (id ID) String() string {
	return fmt.Sprintf("%d:%d:%d", id.Sheet, id.Rule, id.Index)
}

// Declaration is one "property: value" pair. Its typed accessors parse the
// value tokens on first use and memoize the result per unit context, so a
// Declaration is logically immutable and safe for concurrent readers.
type Declaration struct {
	Name      string
	Tokens    []lexer.Token
	Important bool
	// Offset is the byte offset of the property name in the stylesheet.
	Offset int
	ID     ID

	mu   sync.Mutex
	memo map[memoKey]memoEntry
}

type memoKey struct {
	kind  string
	units parser.UnitContext
}

type memoEntry struct {
	value any
	err   error
}

// NewDeclaration builds a declaration from a property name and its value
// tokens, which must come from the value grammar.
func NewDeclaration(name string, tokens []lexer.Token) *Declaration {
	return &Declaration{Name: strings.ToLower(name), Tokens: lexer.TrimWhitespace(tokens)}
}

// Value returns the value as written.
func (d *Declaration) Value() string {
	return lexer.Join(d.Tokens)
}

func (d *Declaration) String() string {
	s := d.Name + ": " + d.Value()
	if d.Important {
		s += " !important"
	}
	return s
}

func (d *Declaration) memoize(kind string, uc parser.UnitContext, parse func() (any, error)) (any, error) {
	key := memoKey{kind: kind, units: uc.Normalize()}

	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.memo[key]; ok {
		return e.value, e.err
	}
	v, err := parse()
	if err != nil {
		err = fmt.Errorf("%s: %w", d.Name, err)
	}
	if d.memo == nil {
		d.memo = make(map[memoKey]memoEntry)
	}
	d.memo[key] = memoEntry{value: v, err: err}
	return v, err
}

func typed[T any](v any, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

var unitless = parser.UnitContext{}

// Color parses the value as a color.
func (d *Declaration) Color() (parser.Color, error) {
	return typed[parser.Color](d.memoize("color", unitless, func() (any, error) {
		return parser.ParseColor(d.Tokens)
	}))
}

// Paint parses the value as a color, gradient or none.
func (d *Declaration) Paint() (parser.Paint, error) {
	return typed[parser.Paint](d.memoize("paint", unitless, func() (any, error) {
		return parser.ParsePaint(d.Tokens)
	}))
}

// Float parses the value as a number. Percentages yield fractions.
func (d *Declaration) Float() (float64, error) {
	return typed[float64](d.memoize("float", unitless, func() (any, error) {
		return parser.ParseFloat(d.Tokens)
	}))
}

// Length parses the value as a length in pixels.
func (d *Declaration) Length(uc parser.UnitContext) (float64, error) {
	return typed[float64](d.memoize("length", uc, func() (any, error) {
		return parser.ParseLength(d.Tokens, uc)
	}))
}

// LengthOrPercent parses a length or a percentage.
func (d *Declaration) LengthOrPercent(uc parser.UnitContext) (parser.Length, error) {
	return typed[parser.Length](d.memoize("length-or-percent", uc, func() (any, error) {
		return parser.ParseLengthOrPercent(d.Tokens, uc)
	}))
}

// Angle parses the value as an angle in radians.
func (d *Declaration) Angle() (float64, error) {
	return typed[float64](d.memoize("angle", unitless, func() (any, error) {
		return parser.ParseAngle(d.Tokens)
	}))
}

// Seconds parses the value as a duration in seconds.
func (d *Declaration) Seconds() (float64, error) {
	return typed[float64](d.memoize("seconds", unitless, func() (any, error) {
		return parser.ParseTime(d.Tokens)
	}))
}

// Keyword parses the value as a lower-cased identifier.
func (d *Declaration) Keyword() (string, error) {
	return typed[string](d.memoize("keyword", unitless, func() (any, error) {
		return parser.ParseKeyword(d.Tokens)
	}))
}

// Enum parses the value as one of the allowed keywords.
func (d *Declaration) Enum(allowed ...string) (string, error) {
	kw, err := d.Keyword()
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if kw == a {
			return kw, nil
		}
	}
	return "", fmt.Errorf("%s: %w", d.Name, parser.NewError(parser.KindConversion, d.firstToken(),
		"%q is not one of %s", kw, strings.Join(allowed, ", ")))
}

// StringValue parses the value as a quoted string or a run of identifiers.
func (d *Declaration) StringValue() (string, error) {
	return typed[string](d.memoize("string", unitless, func() (any, error) {
		return parser.ParseString(d.Tokens)
	}))
}

// StringList parses a comma separated list of strings.
func (d *Declaration) StringList() ([]string, error) {
	return typed[[]string](d.memoize("string-list", unitless, func() (any, error) {
		return parser.ParseStringList(d.Tokens)
	}))
}

// URL parses the value as url(...) or a quoted string.
func (d *Declaration) URL() (string, error) {
	return typed[string](d.memoize("url", unitless, func() (any, error) {
		return parser.ParseURL(d.Tokens)
	}))
}

// Insets parses one to four lengths with CSS shorthand expansion.
func (d *Declaration) Insets(uc parser.UnitContext) (parser.Insets, error) {
	return typed[parser.Insets](d.memoize("insets", uc, func() (any, error) {
		return parser.ParseInsets(d.Tokens, uc)
	}))
}

// FloatList parses a comma or space separated list of numbers.
func (d *Declaration) FloatList() ([]float64, error) {
	return typed[[]float64](d.memoize("float-list", unitless, func() (any, error) {
		return parser.ParseFloatList(d.Tokens)
	}))
}

// LengthList parses a comma or space separated list of lengths.
func (d *Declaration) LengthList(uc parser.UnitContext) ([]float64, error) {
	return typed[[]float64](d.memoize("length-list", uc, func() (any, error) {
		return parser.ParseLengthList(d.Tokens, uc)
	}))
}

// Transform parses the value as a transform list. Any failed term fails
// the whole value.
func (d *Declaration) Transform(uc parser.UnitContext) (geom.Matrix, error) {
	return typed[geom.Matrix](d.memoize("transform", uc, func() (any, error) {
		m, errs := parser.ParseTransformTokens(d.Tokens, uc)
		if len(errs) > 0 {
			return geom.Matrix{}, errors.Join(errs...)
		}
		return m, nil
	}))
}

// MiterLimit parses the value as a number, defaulting to 4 when the value
// is empty.
func (d *Declaration) MiterLimit() (float64, error) {
	if len(d.Tokens) == 0 {
		return DefaultMiterLimit, nil
	}
	return d.Float()
}

func (d *Declaration) firstToken() lexer.Token {
	if len(d.Tokens) > 0 {
		return d.Tokens[0]
	}
	return lexer.Token{Pos: d.Offset}
}
