package lexer

import (
	"strings"
)

// Type identifies the kind of a lexical token.
type Type int

// Token types shared by every grammar. A grammar decides which of them it
// actually produces.
const (
	Error Type = iota // unrecognized input
	EOF
	Whitespace

	Number     // 5
	Percentage // 5%
	Length     // 5px, 5dp, 5em
	Angle      // 5deg, 5rad
	Time       // 5ms, 5s
	Frequency  // 5hz
	Resolution // 2dppx
	Dimension  // number with an unknown unit

	Ident
	Keyword  // ident matched against the grammar's keyword set
	Function // name( when functions are not split
	Hash     // #abc
	String   // "abc"
	URL      // url(abc)
	AtKeyword

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Semicolon
	Delim

	IncludeMatch   // ~=
	DashMatch      // |=
	PrefixMatch    // ^=
	SuffixMatch    // $=
	SubstringMatch // *=

	numTypes
)

var typeNames = [...]string{
	Error:          "ERROR",
	EOF:            "EOF",
	Whitespace:     "WHITESPACE",
	Number:         "NUMBER",
	Percentage:     "PERCENTAGE",
	Length:         "LENGTH",
	Angle:          "ANGLE",
	Time:           "TIME",
	Frequency:      "FREQUENCY",
	Resolution:     "RESOLUTION",
	Dimension:      "DIMENSION",
	Ident:          "IDENT",
	Keyword:        "KEYWORD",
	Function:       "FUNCTION",
	Hash:           "HASH",
	String:         "STRING",
	URL:            "URL",
	AtKeyword:      "ATKEYWORD",
	LParen:         "LPAREN",
	RParen:         "RPAREN",
	LBrace:         "LBRACE",
	RBrace:         "RBRACE",
	LBracket:       "LBRACKET",
	RBracket:       "RBRACKET",
	Comma:          "COMMA",
	Colon:          "COLON",
	Semicolon:      "SEMICOLON",
	Delim:          "DELIM",
	IncludeMatch:   "INCLUDE_MATCH",
	DashMatch:      "DASH_MATCH",
	PrefixMatch:    "PREFIX_MATCH",
	SuffixMatch:    "SUFFIX_MATCH",
	SubstringMatch: "SUBSTRING_MATCH",
}

// String returns the string representation of the token type.
func (t Type) String() string {
	if t >= 0 && t < numTypes {
		return typeNames[t]
	}
	return "UNKNOWN"
}

// IsNumeric reports whether tokens of this type carry a numeric literal.
func (t Type) IsNumeric() bool {
	switch t {
	case Number, Percentage, Length, Angle, Time, Frequency, Resolution, Dimension:
		return true
	}
	return false
}

// Token is a single lexeme. Tokens are never mutated after the lexer
// emitted them.
type Token struct {
	Type Type
	// Text is the exact lexeme as it appeared in the source.
	Text string
	// Value is the semantic payload: the lower-cased keyword or function
	// name, the identifier, the hash name without '#', the unquoted string
	// or the url target.
	Value string
	// Num and Unit hold the literal of numeric tokens. Unit is lower-cased
	// and "%" for percentages.
	Num  float64
	Unit string
	// Pos is the byte offset of the token in its source.
	Pos int
}

// Is reports whether the token has type t.
func (t Token) Is(typ Type) bool {
	return t.Type == typ
}

// IsDelim reports whether the token is the delimiter ch.
func (t Token) IsDelim(ch byte) bool {
	return t.Type == Delim && len(t.Text) == 1 && t.Text[0] == ch
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Text)
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return t.Type.String() + "(" + t.Text + ")"
}

// Join concatenates the source text of tokens.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// TrimWhitespace drops leading and trailing whitespace tokens.
func TrimWhitespace(tokens []Token) []Token {
	start, end := 0, len(tokens)
	for start < end && tokens[start].Type == Whitespace {
		start++
	}
	for end > start && tokens[end-1].Type == Whitespace {
		end--
	}
	return tokens[start:end]
}

// TypeSet is a set of token types used for lookahead tests.
type TypeSet uint64

// NewTypeSet returns a set holding the given types.
func NewTypeSet(types ...Type) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= 1 << uint(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t Type) bool {
	return t >= 0 && t < numTypes && s&(1<<uint(t)) != 0
}

// Union returns the union of two sets.
func (s TypeSet) Union(o TypeSet) TypeSet {
	return s | o
}

func (s TypeSet) String() string {
	var names []string
	for t := Type(0); t < numTypes; t++ {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// NumericTypes is the set of all token types carrying a numeric literal.
var NumericTypes = NewTypeSet(Number, Percentage, Length, Angle, Time, Frequency, Resolution, Dimension)
