// Package lexer turns source text into typed tokens for the grammars of the
// styling engine: declaration values, transform lists and stylesheets.
//
// The raw CSS tokenization is done by the tdewolff css lexer; this package
// re-classifies its output per Grammar (keywords, unit families, legal
// punctuation) and tracks source offsets. Unrecognized input never panics,
// it is emitted as an Error token and the parser layer decides what to do.
package lexer

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// Source produces tokens one at a time. After the input is exhausted it
// keeps returning EOF tokens.
type Source interface {
	NextToken() Token
}

// Lexer is a single pass tokenizer over a source string.
type Lexer struct {
	grammar *Grammar
	css     *css.Lexer
	base    int // offset added to every token position
	pos     int
	pending []Token
	done    bool
}

// New returns a lexer for src using grammar g.
func New(src string, g *Grammar) *Lexer {
	return NewAt(src, g, 0)
}

// NewAt returns a lexer whose token positions start at offset base. It is
// used when src is a slice of a larger document.
func NewAt(src string, g *Grammar, base int) *Lexer {
	return &Lexer{
		grammar: g,
		css:     css.NewLexer(parse.NewInputString(src)),
		base:    base,
	}
}

// Grammar returns the grammar the lexer classifies tokens for.
func (lx *Lexer) Grammar() *Grammar {
	return lx.grammar
}

// NextToken returns the next token of the stream.
func (lx *Lexer) NextToken() Token {
	for {
		if len(lx.pending) > 0 {
			tok := lx.pending[0]
			lx.pending = lx.pending[1:]
			return tok
		}
		if lx.done {
			return Token{Type: EOF, Pos: lx.base + lx.pos}
		}

		tt, data := lx.css.Next()
		start := lx.base + lx.pos
		lx.pos += len(data)
		text := string(data)

		switch tt {
		case css.ErrorToken:
			lx.done = true
			if err := lx.css.Err(); err != nil && !errors.Is(err, io.EOF) {
				return Token{Type: Error, Text: text, Value: err.Error(), Pos: start}
			}
			continue
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if !lx.grammar.KeepWhitespace {
				continue
			}
			return Token{Type: Whitespace, Text: text, Pos: start}
		}

		if tok, ok := lx.classify(tt, text, start); ok {
			return tok
		}
	}
}

func (lx *Lexer) classify(tt css.TokenType, text string, start int) (Token, bool) {
	g := lx.grammar
	tok := Token{Text: text, Pos: start}

	switch tt {
	case css.IdentToken, css.CustomPropertyNameToken:
		tok.Type, tok.Value = lx.identType(text), text
		if tok.Type == Keyword {
			tok.Value = strings.ToLower(text)
		}
	case css.FunctionToken:
		name := strings.TrimSuffix(text, "(")
		if !g.SplitFunctions {
			tok.Type, tok.Value = Function, strings.ToLower(name)
			break
		}
		tok.Type, tok.Text, tok.Value = lx.identType(name), name, name
		if tok.Type == Keyword {
			tok.Value = strings.ToLower(name)
		}
		lx.pending = append(lx.pending, Token{Type: LParen, Text: "(", Pos: start + len(name)})
	case css.AtKeywordToken:
		tok.Type, tok.Value = AtKeyword, strings.TrimPrefix(text, "@")
		if !g.Punctuation.Has(AtKeyword) {
			return unexpected(tok), true
		}
	case css.HashToken:
		tok.Type, tok.Value = Hash, strings.TrimPrefix(text, "#")
	case css.StringToken:
		tok.Type, tok.Value = String, Unquote(text)
	case css.URLToken:
		tok.Type, tok.Value = URL, urlTarget(text)
	case css.NumberToken, css.PercentageToken, css.DimensionToken:
		return numeric(tok), true
	case css.DelimToken:
		if !strings.Contains(g.Delims, text) {
			return unexpected(tok), true
		}
		tok.Type = Delim
	default:
		typ, ok := punctuation[tt]
		if !ok || !g.Punctuation.Has(typ) {
			return unexpected(tok), true
		}
		tok.Type = typ
	}
	return tok, true
}

func (lx *Lexer) identType(name string) Type {
	if lx.grammar.IsKeyword(name) {
		return Keyword
	}
	return Ident
}

var punctuation = map[css.TokenType]Type{
	css.LeftParenthesisToken:  LParen,
	css.RightParenthesisToken: RParen,
	css.LeftBraceToken:        LBrace,
	css.RightBraceToken:       RBrace,
	css.LeftBracketToken:      LBracket,
	css.RightBracketToken:     RBracket,
	css.CommaToken:            Comma,
	css.ColonToken:            Colon,
	css.SemicolonToken:        Semicolon,
	css.IncludeMatchToken:     IncludeMatch,
	css.DashMatchToken:        DashMatch,
	css.PrefixMatchToken:      PrefixMatch,
	css.SuffixMatchToken:      SuffixMatch,
	css.SubstringMatchToken:   SubstringMatch,
}

func unexpected(tok Token) Token {
	tok.Type = Error
	tok.Value = "unexpected " + strconv.Quote(tok.Text)
	return tok
}

// numeric splits a number, percentage or dimension lexeme into its literal
// and unit.
func numeric(tok Token) Token {
	num, unit := splitNumber(tok.Text)
	f, n := pstrconv.ParseFloat([]byte(num))
	if num == "" || n != len(num) {
		tok.Type = Error
		tok.Value = "malformed number " + strconv.Quote(tok.Text)
		return tok
	}
	tok.Num = f
	switch {
	case unit == "":
		tok.Type = Number
	case unit == "%":
		tok.Type, tok.Unit = Percentage, "%"
	default:
		tok.Unit = strings.ToLower(unit)
		tok.Type = UnitType(tok.Unit)
	}
	return tok
}

func splitNumber(s string) (string, string) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			i = j
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Unquote strips the quotes of a CSS string lexeme and resolves escapes.
func Unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		if s[i] == '\n' {
			continue
		}
		if !isHex(s[i]) {
			sb.WriteByte(s[i])
			continue
		}
		j := i
		for j < len(s) && j-i < 6 && isHex(s[j]) {
			j++
		}
		code, _ := strconv.ParseUint(s[i:j], 16, 32)
		sb.WriteRune(rune(code))
		if j < len(s) && s[j] == ' ' {
			j++
		}
		i = j - 1
	}
	return sb.String()
}

func urlTarget(s string) string {
	if open := strings.IndexByte(s, '('); open >= 0 {
		s = s[open+1:]
	}
	s = strings.TrimSuffix(s, ")")
	return Unquote(strings.TrimSpace(s))
}

// Tokenize returns all tokens of src, excluding the final EOF.
func Tokenize(src string, g *Grammar) []Token {
	return TokenizeAt(src, g, 0)
}

// TokenizeAt is Tokenize with positions starting at base.
func TokenizeAt(src string, g *Grammar, base int) []Token {
	lx := NewAt(src, g, base)
	var tokens []Token
	for {
		tok := lx.NextToken()
		if tok.Type == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

type sliceSource struct {
	tokens []Token
	next   int
	end    int
}

// FromTokens returns a Source replaying tokens.
func FromTokens(tokens []Token) Source {
	end := 0
	if n := len(tokens); n > 0 {
		end = tokens[n-1].End()
	}
	return &sliceSource{tokens: tokens, end: end}
}

func (s *sliceSource) NextToken() Token {
	if s.next >= len(s.tokens) {
		return Token{Type: EOF, Pos: s.end}
	}
	tok := s.tokens[s.next]
	s.next++
	return tok
}

type filterSource struct {
	src  Source
	skip TypeSet
}

// Filter returns a Source that drops tokens whose type is in skip.
func Filter(src Source, skip TypeSet) Source {
	return &filterSource{src: src, skip: skip}
}

func (f *filterSource) NextToken() Token {
	for {
		tok := f.src.NextToken()
		if tok.Type == EOF || !f.skip.Has(tok.Type) {
			return tok
		}
	}
}
