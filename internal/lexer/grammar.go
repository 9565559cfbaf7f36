package lexer

import "strings"

// Grammar configures how raw CSS tokens are classified for one language:
// CSS values, transform strings or whole stylesheets.
type Grammar struct {
	Name string
	// Keywords lists the identifiers (and function names) that are emitted
	// as Keyword tokens. Matching is case-insensitive.
	Keywords map[string]bool
	// KeepWhitespace emits Whitespace tokens instead of dropping them.
	KeepWhitespace bool
	// SplitFunctions emits "name(" as a Keyword or Ident followed by LParen
	// instead of a single Function token.
	SplitFunctions bool
	// Delims holds the delimiter characters the grammar accepts. Any other
	// delimiter becomes an Error token.
	Delims string
	// Punctuation is the set of structural token types the grammar accepts.
	// Anything outside of it becomes an Error token.
	Punctuation TypeSet
}

// IsKeyword reports whether name is one of the grammar's keywords.
func (g *Grammar) IsKeyword(name string) bool {
	return g.Keywords[strings.ToLower(name)]
}

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// TransformGrammar tokenizes transform lists such as
// "translate(10, 0) rotate(45deg)". Whitespace is dropped.
var TransformGrammar = &Grammar{
	Name: "transform",
	Keywords: keywordSet(
		"translate", "translateX", "translateY",
		"scale", "scaleX", "scaleY",
		"rotate",
		"skew", "skewX", "skewY",
		"matrix",
	),
	SplitFunctions: true,
	Punctuation:    NewTypeSet(LParen, RParen, Comma),
}

// ValueGrammar tokenizes declaration values. Whitespace is significant for
// space separated lists and is kept.
var ValueGrammar = &Grammar{
	Name:           "value",
	KeepWhitespace: true,
	Delims:         "/!",
	Punctuation:    NewTypeSet(LParen, RParen, Comma),
}

// StylesheetGrammar tokenizes complete stylesheets.
var StylesheetGrammar = &Grammar{
	Name:           "stylesheet",
	KeepWhitespace: true,
	Delims:         ".>+~*!=/-",
	Punctuation: NewTypeSet(
		LParen, RParen, LBrace, RBrace, LBracket, RBracket,
		Comma, Colon, Semicolon,
		IncludeMatch, DashMatch, PrefixMatch, SuffixMatch, SubstringMatch,
		AtKeyword,
	),
}

var unitTypes = map[string]Type{
	"px": Length, "dp": Length, "dip": Length, "sp": Length,
	"pt": Length, "pc": Length, "in": Length, "mm": Length, "cm": Length,
	"em": Length, "rem": Length, "ex": Length,
	"deg": Angle, "rad": Angle, "grad": Angle, "turn": Angle,
	"ms": Time, "s": Time,
	"hz": Frequency, "khz": Frequency,
	"dpi": Resolution, "dpcm": Resolution, "dppx": Resolution,
}

// UnitType classifies a dimension unit. Unknown units map to Dimension.
func UnitType(unit string) Type {
	if t, ok := unitTypes[strings.ToLower(unit)]; ok {
		return t
	}
	return Dimension
}
