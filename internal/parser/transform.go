package parser

import (
	"fmt"
	"strings"

	"github.com/yacobolo/freestyle/internal/geom"
	"github.com/yacobolo/freestyle/internal/lexer"
)

// ParseTransform parses a transform list such as
// "translate(10, 0) rotate(45deg)" into a single matrix. Terms are
// pre-concatenated in source order, so the rightmost term is applied to a
// point first. A term that fails contributes the identity; the returned
// errors describe every failure.
func ParseTransform(src string, uc UnitContext) (geom.Matrix, []error) {
	return parseTransform(lexer.New(src, lexer.TransformGrammar), uc)
}

// ParseTransformTokens parses an already tokenized transform list, as
// stored by a declaration. Whitespace tokens are ignored.
func ParseTransformTokens(tokens []lexer.Token, uc UnitContext) (geom.Matrix, []error) {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 1 && tokens[0].Type == lexer.Ident && strings.EqualFold(tokens[0].Value, "none") {
		return geom.Identity(), nil
	}
	src := lexer.Filter(lexer.FromTokens(tokens), lexer.NewTypeSet(lexer.Whitespace))
	return parseTransform(src, uc)
}

func parseTransform(src lexer.Source, uc UnitContext) (geom.Matrix, []error) {
	tp := &transformParser{Parser: New(src), units: uc}
	result := geom.Identity()
	for !tp.AtEOF() {
		if tp.IsType(lexer.Comma) {
			tp.Advance()
			continue
		}
		// Failed terms yield the identity, so they can be folded blindly.
		term, _ := tp.term()
		result = result.PreConcat(term)
	}
	return result, tp.Errors()
}

type transformParser struct {
	*Parser
	units UnitContext
}

var nameTypes = lexer.NewTypeSet(lexer.Keyword, lexer.Ident)

// term parses one "name(args)" group.
func (tp *transformParser) term() (geom.Matrix, error) {
	start := tp.Current()
	var name string
	switch {
	case tp.IsType(lexer.Function):
		name = tp.Advance().Value
	case tp.IsInTypeSet(nameTypes):
		name = strings.ToLower(tp.Advance().Value)
		if _, err := tp.AssertTypeAndAdvance(lexer.LParen); err != nil {
			return geom.Identity(), err
		}
	default:
		err := tp.ErrorWithMessage(fmt.Sprintf("expected transform function, found %s %q", tp.Current().Type, tp.Current().Text))
		tp.Advance()
		return geom.Identity(), err
	}

	args, err := tp.arguments()
	if err != nil {
		return geom.Identity(), err
	}

	m, err := tp.apply(start, name, args)
	if err != nil {
		tp.Record(err)
		return geom.Identity(), err
	}
	return m, nil
}

// arguments collects numeric arguments up to the closing parenthesis.
// Commas between arguments are optional.
func (tp *transformParser) arguments() ([]lexer.Token, error) {
	var args []lexer.Token
	var firstErr error
	for {
		switch {
		case tp.IsType(lexer.RParen):
			tp.Advance()
			return args, firstErr
		case tp.AtEOF():
			err := tp.ErrorWithMessage("missing ')'")
			if firstErr == nil {
				firstErr = err
			}
			return args, firstErr
		case tp.IsType(lexer.Comma):
			tp.Advance()
		case tp.IsInTypeSet(lexer.NumericTypes):
			args = append(args, tp.Advance())
		default:
			err := tp.ErrorWithMessage(fmt.Sprintf("unexpected %s %q in transform arguments", tp.Current().Type, tp.Current().Text))
			if firstErr == nil {
				firstErr = err
			}
			tp.Advance()
		}
	}
}

type argKind int

const (
	argLength argKind = iota
	argAngle
	argNumber
)

type transformFunc struct {
	kind     argKind
	min, max int
	build    func(v []float64) geom.Matrix
}

var transformFuncs = map[string]transformFunc{
	"translate": {argLength, 1, 2, func(v []float64) geom.Matrix {
		return geom.Translate(v[0], at(v, 1, 0))
	}},
	"translatex": {argLength, 1, 1, func(v []float64) geom.Matrix { return geom.Translate(v[0], 0) }},
	"translatey": {argLength, 1, 1, func(v []float64) geom.Matrix { return geom.Translate(0, v[0]) }},
	"scale": {argNumber, 1, 2, func(v []float64) geom.Matrix {
		return geom.Scale(v[0], at(v, 1, v[0]))
	}},
	"scalex": {argNumber, 1, 1, func(v []float64) geom.Matrix { return geom.Scale(v[0], 1) }},
	"scaley": {argNumber, 1, 1, func(v []float64) geom.Matrix { return geom.Scale(1, v[0]) }},
	"skew": {argAngle, 1, 2, func(v []float64) geom.Matrix {
		return geom.Skew(v[0], at(v, 1, 0))
	}},
	"skewx": {argAngle, 1, 1, func(v []float64) geom.Matrix { return geom.Skew(v[0], 0) }},
	"skewy": {argAngle, 1, 1, func(v []float64) geom.Matrix { return geom.Skew(0, v[0]) }},
	"matrix": {argNumber, 6, 6, func(v []float64) geom.Matrix {
		return geom.Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}
	}},
}

func at(v []float64, i int, def float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return def
}

func (tp *transformParser) apply(start lexer.Token, name string, args []lexer.Token) (geom.Matrix, error) {
	if name == "rotate" {
		return tp.rotate(start, args)
	}
	fn, ok := transformFuncs[name]
	if !ok {
		return geom.Identity(), NewError(KindSyntax, start, "unknown transform function %q", name)
	}
	if len(args) < fn.min || len(args) > fn.max {
		return geom.Identity(), NewError(KindSyntax, start, "%s expects %s, got %d", name, arity(fn.min, fn.max), len(args))
	}
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := tp.convert(fn.kind, arg)
		if err != nil {
			return geom.Identity(), err
		}
		values[i] = v
	}
	return fn.build(values), nil
}

// rotate handles rotate(angle) and rotate(angle, cx, cy).
func (tp *transformParser) rotate(start lexer.Token, args []lexer.Token) (geom.Matrix, error) {
	if len(args) != 1 && len(args) != 3 {
		return geom.Identity(), NewError(KindSyntax, start, "rotate expects 1 or 3 arguments, got %d", len(args))
	}
	angle, err := TokenRadians(args[0])
	if err != nil {
		return geom.Identity(), err
	}
	if len(args) == 1 {
		return geom.Rotate(angle), nil
	}
	cx, err := tp.convert(argLength, args[1])
	if err != nil {
		return geom.Identity(), err
	}
	cy, err := tp.convert(argLength, args[2])
	if err != nil {
		return geom.Identity(), err
	}
	return geom.RotateAround(angle, cx, cy), nil
}

func (tp *transformParser) convert(kind argKind, tok lexer.Token) (float64, error) {
	switch kind {
	case argAngle:
		return TokenRadians(tok)
	case argLength:
		return tp.units.TokenPixels(tok)
	}
	if tok.Type != lexer.Number {
		return 0, NewError(KindConversion, tok, "expected number, found %s %q", tok.Type, tok.Text)
	}
	return tok.Num, nil
}

func arity(lo, hi int) string {
	switch {
	case lo == hi && lo == 1:
		return "1 argument"
	case lo == hi:
		return fmt.Sprintf("%d arguments", lo)
	}
	return fmt.Sprintf("%d to %d arguments", lo, hi)
}
