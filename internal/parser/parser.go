// Package parser provides the recursive-descent parser base used by every
// grammar of the engine, plus the transform and declaration value grammars
// built on it.
package parser

import (
	"fmt"

	"github.com/yacobolo/freestyle/internal/lexer"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindSyntax is a grammar violation: wrong token type or missing argument.
	KindSyntax ErrorKind = iota
	// KindLex is an unrecognized character sequence.
	KindLex
	// KindConversion is a value that cannot be coerced to the requested type.
	KindConversion
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindConversion:
		return "conversion"
	default:
		return "syntax"
	}
}

// ParseError is a recorded parse failure. Offset is a byte offset into the
// parsed source.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Token   lexer.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at offset %d: %s", e.Kind, e.Offset, e.Message)
}

// NewError builds a ParseError positioned at tok.
func NewError(kind ErrorKind, tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.Pos,
		Token:   tok,
	}
}

// Parser holds one token of lookahead over a token source and accumulates
// errors instead of aborting.
type Parser struct {
	src    lexer.Source
	cur    lexer.Token
	errors []error
}

// New returns a parser positioned at the first token of src.
func New(src lexer.Source) *Parser {
	p := &Parser{src: src}
	p.fetch()
	return p
}

// FromTokens returns a parser over a token slice.
func FromTokens(tokens []lexer.Token) *Parser {
	return New(lexer.FromTokens(tokens))
}

// fetch loads the next non-error token. Error tokens are recorded as lex
// errors and skipped so the grammar resynchronizes on the next token.
func (p *Parser) fetch() {
	for {
		p.cur = p.src.NextToken()
		if p.cur.Type != lexer.Error {
			return
		}
		p.errors = append(p.errors, NewError(KindLex, p.cur, "%s", p.cur.Value))
	}
}

// Current returns the lookahead token.
func (p *Parser) Current() lexer.Token {
	return p.cur
}

// Advance consumes the lookahead token and returns it.
func (p *Parser) Advance() lexer.Token {
	tok := p.cur
	if tok.Type != lexer.EOF {
		p.fetch()
	}
	return tok
}

// IsType reports whether the lookahead token has type t.
func (p *Parser) IsType(t lexer.Type) bool {
	return p.cur.Type == t
}

// IsInTypeSet reports whether the lookahead token's type is in set.
func (p *Parser) IsInTypeSet(set lexer.TypeSet) bool {
	return set.Has(p.cur.Type)
}

// AtEOF reports whether all input has been consumed.
func (p *Parser) AtEOF() bool {
	return p.cur.Type == lexer.EOF
}

// AssertTypeAndAdvance consumes the lookahead token if it has type t and
// records a syntax error otherwise.
func (p *Parser) AssertTypeAndAdvance(t lexer.Type) (lexer.Token, error) {
	if p.cur.Type != t {
		return p.cur, p.ErrorWithMessage(fmt.Sprintf("expected %s, found %s", t, p.describe()))
	}
	return p.Advance(), nil
}

// AssertTypeInSet records a syntax error unless the lookahead token's type
// is in set. The token is not consumed.
func (p *Parser) AssertTypeInSet(set lexer.TypeSet) error {
	if !set.Has(p.cur.Type) {
		return p.ErrorWithMessage(fmt.Sprintf("expected one of %s, found %s", set, p.describe()))
	}
	return nil
}

// ErrorWithMessage records a syntax error at the lookahead token and
// returns it.
func (p *Parser) ErrorWithMessage(msg string) error {
	err := NewError(KindSyntax, p.cur, "%s", msg)
	p.errors = append(p.errors, err)
	return err
}

// Record appends an externally built error.
func (p *Parser) Record(err error) {
	if err != nil {
		p.errors = append(p.errors, err)
	}
}

// SkipPast consumes tokens up to and including the first token of type t,
// or up to EOF.
func (p *Parser) SkipPast(t lexer.Type) {
	for !p.AtEOF() {
		if p.Advance().Type == t {
			return
		}
	}
}

// Errors returns the accumulated errors in the order they were recorded.
func (p *Parser) Errors() []error {
	return p.errors
}

// ClearErrors drops all accumulated errors.
func (p *Parser) ClearErrors() {
	p.errors = nil
}

func (p *Parser) describe() string {
	if p.cur.Type == lexer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", p.cur.Type, p.cur.Text)
}
