package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/yacobolo/freestyle/internal/lexer"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Hex formats the color as #rrggbb, or #rrggbbaa when it is not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string {
	return c.Hex()
}

// PaintKind distinguishes the forms a paint value can take.
type PaintKind int

const (
	PaintNone PaintKind = iota
	PaintColor
	PaintLinearGradient
	PaintRadialGradient
)

func (k PaintKind) String() string {
	switch k {
	case PaintColor:
		return "color"
	case PaintLinearGradient:
		return "linear-gradient"
	case PaintRadialGradient:
		return "radial-gradient"
	}
	return "none"
}

// Paint is a fill: nothing, a solid color or a gradient.
type Paint struct {
	Kind     PaintKind
	Color    Color
	Gradient *Gradient
}

func (p Paint) String() string {
	switch p.Kind {
	case PaintColor:
		return p.Color.Hex()
	case PaintLinearGradient, PaintRadialGradient:
		return p.Gradient.String()
	}
	return "none"
}

// ColorStop is one stop of a gradient. Offset is a fraction in [0, 1].
type ColorStop struct {
	Color  Color
	Offset float64
}

// Gradient describes a linear or radial gradient. Angle is in radians and
// only meaningful for linear gradients; Shape holds the radial shape
// descriptor as written.
type Gradient struct {
	Kind  PaintKind
	Angle float64
	Shape string
	Stops []ColorStop
}

func (g *Gradient) String() string {
	var sb strings.Builder
	sb.WriteString(g.Kind.String())
	sb.WriteByte('(')
	if g.Kind == PaintLinearGradient {
		fmt.Fprintf(&sb, "%gdeg", round(g.Angle*180/math.Pi))
	} else {
		sb.WriteString(g.Shape)
	}
	for _, s := range g.Stops {
		fmt.Fprintf(&sb, ", %s %g%%", s.Color.Hex(), round(s.Offset*100))
	}
	sb.WriteByte(')')
	return sb.String()
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Insets are per-edge lengths in pixels.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Length is a resolved length in pixels, or a fraction of a reference
// size that the caller resolves when Percent is set.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) String() string {
	if l.Percent {
		return fmt.Sprintf("%g%%", round(l.Value*100))
	}
	return fmt.Sprintf("%gpx", round(l.Value))
}

func conversionError(tokens []lexer.Token, format string, args ...any) error {
	var tok lexer.Token
	if len(tokens) > 0 {
		tok = tokens[0]
	}
	return NewError(KindConversion, tok, format, args...)
}

func single(tokens []lexer.Token) (lexer.Token, error) {
	tokens = lexer.TrimWhitespace(tokens)
	switch len(tokens) {
	case 0:
		return lexer.Token{}, conversionError(tokens, "missing value")
	case 1:
		return tokens[0], nil
	}
	return lexer.Token{}, conversionError(tokens, "expected a single value, found %q", lexer.Join(tokens))
}

// SplitList splits tokens on top-level commas. Each group is trimmed of
// surrounding whitespace.
func SplitList(tokens []lexer.Token) [][]lexer.Token {
	return split(tokens, lexer.Comma)
}

// SplitSpaces splits tokens on top-level whitespace. Function calls stay in
// one group.
func SplitSpaces(tokens []lexer.Token) [][]lexer.Token {
	return split(lexer.TrimWhitespace(tokens), lexer.Whitespace)
}

func split(tokens []lexer.Token, sep lexer.Type) [][]lexer.Token {
	var groups [][]lexer.Token
	depth, start := 0, 0
	for i, tok := range tokens {
		switch tok.Type {
		case lexer.Function, lexer.LParen:
			depth++
		case lexer.RParen:
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				groups = append(groups, lexer.TrimWhitespace(tokens[start:i]))
				start = i + 1
			}
		}
	}
	if rest := lexer.TrimWhitespace(tokens[start:]); len(rest) > 0 || len(groups) > 0 {
		groups = append(groups, rest)
	}
	return groups
}

// ParseColor parses any CSS color: hex, rgb(a), hsl(a), hwb and named
// colors. Hex colors need their '#'.
func ParseColor(tokens []lexer.Token) (Color, error) {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 0 {
		return Color{}, conversionError(tokens, "missing color")
	}
	text := lexer.Join(tokens)
	switch first := tokens[0]; first.Type {
	case lexer.Hash, lexer.Function:
	case lexer.Ident, lexer.Keyword:
		// csscolorparser reads bare hex digits such as "abcd" as a color
		if len(tokens) == 1 && isHexDigits(first.Value) {
			return Color{}, conversionError(tokens, "invalid color %q", text)
		}
	default:
		return Color{}, conversionError(tokens, "invalid color %q", text)
	}
	c, err := csscolorparser.Parse(text)
	if err != nil {
		return Color{}, conversionError(tokens, "invalid color %q", text)
	}
	return Color{R: to255(c.R), G: to255(c.G), B: to255(c.B), A: to255(c.A)}, nil
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return s != ""
}

func to255(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ParsePaint parses "none", a color, or a linear-gradient() or
// radial-gradient() function.
func ParsePaint(tokens []lexer.Token) (Paint, error) {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 1 && tokens[0].Type == lexer.Ident && strings.EqualFold(tokens[0].Value, "none") {
		return Paint{Kind: PaintNone}, nil
	}
	if len(tokens) > 0 && tokens[0].Type == lexer.Function {
		switch tokens[0].Value {
		case "linear-gradient":
			g, err := parseGradient(PaintLinearGradient, tokens)
			if err != nil {
				return Paint{}, err
			}
			return Paint{Kind: PaintLinearGradient, Gradient: g}, nil
		case "radial-gradient":
			g, err := parseGradient(PaintRadialGradient, tokens)
			if err != nil {
				return Paint{}, err
			}
			return Paint{Kind: PaintRadialGradient, Gradient: g}, nil
		}
	}
	c, err := ParseColor(tokens)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintColor, Color: c}, nil
}

// functionArgs returns the tokens between a function token and its closing
// parenthesis, which must end the token list.
func functionArgs(tokens []lexer.Token) ([]lexer.Token, error) {
	depth := 0
	for i, tok := range tokens {
		switch tok.Type {
		case lexer.Function, lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
			if depth == 0 {
				if i != len(tokens)-1 {
					return nil, conversionError(tokens[i+1:], "unexpected %q after %s()", lexer.Join(tokens[i+1:]), tokens[0].Value)
				}
				return tokens[1:i], nil
			}
		}
	}
	return nil, conversionError(tokens, "missing ')' in %s()", tokens[0].Value)
}

var sideAngles = map[string]float64{
	"top":          0,
	"top right":    45,
	"right":        90,
	"bottom right": 135,
	"bottom":       180,
	"bottom left":  225,
	"left":         270,
	"top left":     315,
}

func parseGradient(kind PaintKind, tokens []lexer.Token) (*Gradient, error) {
	args, err := functionArgs(tokens)
	if err != nil {
		return nil, err
	}
	groups := SplitList(args)
	g := &Gradient{Kind: kind, Angle: math.Pi}
	if kind == PaintRadialGradient {
		g.Shape = "ellipse"
	}

	if len(groups) > 0 {
		if consumed, err := gradientHead(g, groups[0]); err != nil {
			return nil, err
		} else if consumed {
			groups = groups[1:]
		}
	}

	if len(groups) < 2 {
		return nil, conversionError(tokens, "%s needs at least two color stops", kind)
	}
	for _, group := range groups {
		stop, hasOffset, err := parseStop(group)
		if err != nil {
			return nil, err
		}
		if !hasOffset {
			stop.Offset = math.NaN()
		}
		g.Stops = append(g.Stops, stop)
	}
	distributeOffsets(g.Stops)
	return g, nil
}

// gradientHead handles the optional first argument: an angle or "to side"
// for linear gradients, a shape descriptor for radial ones.
func gradientHead(g *Gradient, group []lexer.Token) (bool, error) {
	if len(group) == 0 {
		return false, nil
	}
	first := group[0]
	if g.Kind == PaintLinearGradient {
		if len(group) == 1 && first.Type == lexer.Angle {
			a, err := TokenRadians(first)
			g.Angle = a
			return true, err
		}
		if first.Type == lexer.Ident && strings.EqualFold(first.Value, "to") {
			var words []string
			for _, part := range SplitSpaces(group[1:]) {
				words = append(words, strings.ToLower(lexer.Join(part)))
			}
			deg, ok := sideAngles[strings.Join(words, " ")]
			if !ok {
				// accept "right top" for "top right"
				if len(words) == 2 {
					deg, ok = sideAngles[words[1]+" "+words[0]]
				}
				if !ok {
					return false, conversionError(group, "invalid gradient direction %q", lexer.Join(group))
				}
			}
			g.Angle = deg * math.Pi / 180
			return true, nil
		}
		return false, nil
	}
	if _, _, err := parseStop(group); err == nil {
		return false, nil
	}
	g.Shape = strings.Join(strings.Fields(strings.ToLower(lexer.Join(group))), " ")
	return true, nil
}

func parseStop(group []lexer.Token) (ColorStop, bool, error) {
	parts := SplitSpaces(group)
	if len(parts) == 0 || len(parts) > 2 {
		return ColorStop{}, false, conversionError(group, "invalid color stop %q", lexer.Join(group))
	}
	c, err := ParseColor(parts[0])
	if err != nil {
		return ColorStop{}, false, err
	}
	stop := ColorStop{Color: c}
	if len(parts) == 1 {
		return stop, false, nil
	}
	tok, err := single(parts[1])
	if err != nil {
		return ColorStop{}, false, err
	}
	switch {
	case tok.Type == lexer.Percentage:
		stop.Offset = tok.Num / 100
	case tok.Type == lexer.Number && tok.Num == 0:
		stop.Offset = 0
	default:
		return ColorStop{}, false, conversionError(parts[1], "color stop offset must be a percentage, found %q", tok.Text)
	}
	return stop, true, nil
}

// distributeOffsets fills NaN offsets: the first stop defaults to 0, the
// last to 1, and runs in between are spread evenly between their known
// neighbours.
func distributeOffsets(stops []ColorStop) {
	n := len(stops)
	if math.IsNaN(stops[0].Offset) {
		stops[0].Offset = 0
	}
	if math.IsNaN(stops[n-1].Offset) {
		stops[n-1].Offset = 1
	}
	prev := 0
	for i := 1; i < n; i++ {
		if math.IsNaN(stops[i].Offset) {
			continue
		}
		if gap := i - prev; gap > 1 {
			step := (stops[i].Offset - stops[prev].Offset) / float64(gap)
			for j := prev + 1; j < i; j++ {
				stops[j].Offset = stops[prev].Offset + step*float64(j-prev)
			}
		}
		prev = i
	}
}

// ParseFloat parses a bare number. Percentages are returned as fractions.
func ParseFloat(tokens []lexer.Token) (float64, error) {
	tok, err := single(tokens)
	if err != nil {
		return 0, err
	}
	switch tok.Type {
	case lexer.Number:
		return tok.Num, nil
	case lexer.Percentage:
		return tok.Num / 100, nil
	}
	return 0, conversionError(tokens, "expected number, found %q", tok.Text)
}

// ParseLength parses a length and resolves it to pixels.
func ParseLength(tokens []lexer.Token, uc UnitContext) (float64, error) {
	tok, err := single(tokens)
	if err != nil {
		return 0, err
	}
	return uc.TokenPixels(tok)
}

// ParseLengthOrPercent parses a length in pixels or a percentage, returned
// as a fraction for the caller to resolve.
func ParseLengthOrPercent(tokens []lexer.Token, uc UnitContext) (Length, error) {
	tok, err := single(tokens)
	if err != nil {
		return Length{}, err
	}
	if tok.Type == lexer.Percentage {
		return Length{Value: tok.Num / 100, Percent: true}, nil
	}
	px, err := uc.TokenPixels(tok)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: px}, nil
}

// ParseAngle parses an angle in radians. Bare numbers are degrees.
func ParseAngle(tokens []lexer.Token) (float64, error) {
	tok, err := single(tokens)
	if err != nil {
		return 0, err
	}
	return TokenRadians(tok)
}

// ParseTime parses a duration in seconds.
func ParseTime(tokens []lexer.Token) (float64, error) {
	tok, err := single(tokens)
	if err != nil {
		return 0, err
	}
	return TokenSeconds(tok)
}

// ParseKeyword parses a single identifier, lower-cased.
func ParseKeyword(tokens []lexer.Token) (string, error) {
	tok, err := single(tokens)
	if err != nil {
		return "", err
	}
	if tok.Type != lexer.Ident && tok.Type != lexer.Keyword {
		return "", conversionError(tokens, "expected keyword, found %q", tok.Text)
	}
	return strings.ToLower(tok.Value), nil
}

// ParseEnum parses a keyword that must be one of allowed.
func ParseEnum(tokens []lexer.Token, allowed ...string) (string, error) {
	kw, err := ParseKeyword(tokens)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if kw == a {
			return kw, nil
		}
	}
	return "", conversionError(tokens, "%q is not one of %s", kw, strings.Join(allowed, ", "))
}

// ParseString parses a quoted string, or a run of identifiers joined by
// single spaces.
func ParseString(tokens []lexer.Token) (string, error) {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 0 {
		return "", conversionError(tokens, "missing string")
	}
	if len(tokens) == 1 && tokens[0].Type == lexer.String {
		return tokens[0].Value, nil
	}
	var words []string
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.Whitespace:
		case lexer.Ident, lexer.Keyword:
			words = append(words, tok.Text)
		default:
			return "", conversionError(tokens, "expected string, found %q", lexer.Join(tokens))
		}
	}
	return strings.Join(words, " "), nil
}

// ParseStringList parses a comma separated list of strings.
func ParseStringList(tokens []lexer.Token) ([]string, error) {
	var out []string
	for _, group := range SplitList(tokens) {
		s, err := ParseString(group)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, conversionError(tokens, "missing string")
	}
	return out, nil
}

// ParseURL parses url(...) or a quoted string.
func ParseURL(tokens []lexer.Token) (string, error) {
	tok, err := single(tokens)
	if err != nil {
		return "", err
	}
	if tok.Type != lexer.URL && tok.Type != lexer.String {
		return "", conversionError(tokens, "expected url, found %q", tok.Text)
	}
	return tok.Value, nil
}

// ParseInsets parses one to four lengths with the CSS shorthand expansion:
// all, vertical horizontal, top horizontal bottom, top right bottom left.
func ParseInsets(tokens []lexer.Token, uc UnitContext) (Insets, error) {
	v, err := ParseLengthList(tokens, uc)
	if err != nil {
		return Insets{}, err
	}
	switch len(v) {
	case 1:
		return Insets{v[0], v[0], v[0], v[0]}, nil
	case 2:
		return Insets{v[0], v[1], v[0], v[1]}, nil
	case 3:
		return Insets{v[0], v[1], v[2], v[1]}, nil
	case 4:
		return Insets{v[0], v[1], v[2], v[3]}, nil
	}
	return Insets{}, conversionError(tokens, "expected 1 to 4 lengths, found %d", len(v))
}

// listGroups splits on commas when the list has any, otherwise on
// whitespace.
func listGroups(tokens []lexer.Token) [][]lexer.Token {
	if groups := SplitList(tokens); len(groups) > 1 {
		return groups
	}
	return SplitSpaces(tokens)
}

// ParseFloatList parses numbers separated by commas or whitespace.
func ParseFloatList(tokens []lexer.Token) ([]float64, error) {
	groups := listGroups(tokens)
	if len(groups) == 0 {
		return nil, conversionError(tokens, "missing value")
	}
	out := make([]float64, 0, len(groups))
	for _, g := range groups {
		v, err := ParseFloat(g)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseLengthList parses lengths separated by commas or whitespace.
func ParseLengthList(tokens []lexer.Token, uc UnitContext) ([]float64, error) {
	groups := listGroups(tokens)
	if len(groups) == 0 {
		return nil, conversionError(tokens, "missing value")
	}
	out := make([]float64, 0, len(groups))
	for _, g := range groups {
		v, err := ParseLength(g, uc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
