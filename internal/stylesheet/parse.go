package stylesheet

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/freestyle/internal/lexer"
	"github.com/yacobolo/freestyle/internal/parser"
)

// ParseOptions configure Parse.
type ParseOptions struct {
	// Name labels the stylesheet in diagnostics, usually its file path.
	Name   string
	Origin Origin
	// Index is the load position of the stylesheet. It is part of every
	// declaration ID and breaks ties between stylesheets.
	Index  int
	Logger *zap.Logger
}

type sheetParser struct {
	*parser.Parser
	src   string
	sheet *Stylesheet
	log   *zap.Logger
	rules int
}

// Parse parses a stylesheet. It never fails: malformed rules and
// declarations are skipped and reported in the result's Errors, and
// @-rules are skipped entirely.
func Parse(src string, opts ParseOptions) *Stylesheet {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sheet := &Stylesheet{Name: opts.Name, Origin: opts.Origin, Index: opts.Index, source: src}
	sp := &sheetParser{
		Parser: parser.New(lexer.New(src, lexer.StylesheetGrammar)),
		src:    src,
		sheet:  sheet,
		log:    log.Named("stylesheet"),
	}
	sp.run()
	sheet.Errors = dedupe(sp.Errors())

	sp.log.Debug("parsed stylesheet",
		zap.String("name", opts.Name),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("errors", len(sheet.Errors)))
	return sheet
}

// ParseDeclarations parses a declaration list without selector or braces,
// such as an inline style attribute.
func ParseDeclarations(src string, opts ParseOptions) ([]*Declaration, []error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sp := &sheetParser{
		Parser: parser.New(lexer.New(src, lexer.StylesheetGrammar)),
		src:    src,
		sheet:  &Stylesheet{Name: opts.Name, Origin: opts.Origin, Index: opts.Index, source: src},
		log:    log.Named("stylesheet"),
	}
	var tokens []lexer.Token
	for !sp.AtEOF() {
		tokens = append(tokens, sp.Advance())
	}
	decls := sp.declarations(tokens, 0, 0, len(src))
	return decls, dedupe(sp.Errors())
}

// ParseSelector parses a single selector such as "list > item:pressed".
func ParseSelector(src string) (*Selector, error) {
	p := parser.New(lexer.New(src, lexer.StylesheetGrammar))
	var tokens []lexer.Token
	for !p.AtEOF() {
		tokens = append(tokens, p.Advance())
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return parseSelector(tokens)
}

func (sp *sheetParser) run() {
	for {
		sp.skipSpace()
		switch {
		case sp.AtEOF():
			return
		case sp.IsType(lexer.AtKeyword):
			sp.skipAtRule()
		case sp.IsInTypeSet(lexer.NewTypeSet(lexer.RBrace, lexer.Semicolon)):
			sp.ErrorWithMessage("unexpected " + sp.Current().Text)
			sp.Advance()
		default:
			sp.rule()
		}
	}
}

func (sp *sheetParser) skipSpace() bool {
	skipped := false
	for sp.IsType(lexer.Whitespace) {
		sp.Advance()
		skipped = true
	}
	return skipped
}

// skipAtRule consumes an @-rule: up to the next top-level ';' or through
// its block.
func (sp *sheetParser) skipAtRule() {
	at := sp.Advance()
	sp.log.Debug("skipping at-rule", zap.String("name", at.Value), zap.Int("offset", at.Pos))
	depth := 0
	for !sp.AtEOF() {
		tok := sp.Advance()
		switch tok.Type {
		case lexer.LParen, lexer.LBracket, lexer.Function:
			depth++
		case lexer.RParen, lexer.RBracket:
			if depth > 0 {
				depth--
			}
		case lexer.Semicolon:
			if depth == 0 {
				return
			}
		case lexer.LBrace:
			sp.block()
			return
		}
	}
}

// block collects the tokens of a {} block whose opening brace was already
// consumed, through the matching closing brace. end is the offset of that
// brace, or the end of the source for an unterminated block.
func (sp *sheetParser) block() (tokens []lexer.Token, end int) {
	depth := 0
	for {
		if sp.AtEOF() {
			sp.ErrorWithMessage("unterminated block")
			return tokens, len(sp.src)
		}
		tok := sp.Advance()
		switch tok.Type {
		case lexer.LBrace:
			depth++
		case lexer.RBrace:
			if depth == 0 {
				return tokens, tok.Pos
			}
			depth--
		}
		tokens = append(tokens, tok)
	}
}

func (sp *sheetParser) rule() {
	errsBefore := len(sp.Errors())
	var selTokens []lexer.Token
	var open lexer.Token
	depth := 0
	for {
		if sp.AtEOF() || (depth == 0 && sp.IsInTypeSet(lexer.NewTypeSet(lexer.Semicolon, lexer.RBrace))) {
			sp.ErrorWithMessage("expected '{' after selector " + strings.TrimSpace(lexer.Join(selTokens)))
			sp.Advance()
			return
		}
		tok := sp.Advance()
		if tok.Type == lexer.LBrace && depth == 0 {
			open = tok
			break
		}
		switch tok.Type {
		case lexer.LParen, lexer.LBracket, lexer.Function:
			depth++
		case lexer.RParen, lexer.RBracket:
			if depth > 0 {
				depth--
			}
		}
		selTokens = append(selTokens, tok)
	}

	// a lex error inside the selector invalidates the rule
	badSelector := len(sp.Errors()) > errsBefore
	body, end := sp.block()
	order := sp.rules
	sp.rules++
	if badSelector {
		return
	}
	selectors, err := parseSelectorGroup(selTokens)
	if err != nil {
		sp.Record(err)
		sp.log.Debug("skipping rule with invalid selector", zap.Error(err))
		return
	}

	decls := sp.declarations(body, order, open.End(), end)
	for _, sel := range selectors {
		sp.sheet.Rules = append(sp.sheet.Rules, &RuleSet{
			Selector:     sel,
			Declarations: decls,
			Specificity:  sel.Specificity(),
			Order:        order,
			Origin:       sp.sheet.Origin,
			Sheet:        sp.sheet.Index,
		})
	}
}

// declarations splits a block body on top-level semicolons. begin and end
// are the source offsets the body spans.
func (sp *sheetParser) declarations(body []lexer.Token, rule, begin, end int) []*Declaration {
	var decls []*Declaration
	depth, start := 0, 0
	from := begin
	flush := func(i, to int) {
		if d := sp.declaration(body[start:i], from, to); d != nil {
			d.ID = ID{Sheet: sp.sheet.Index, Rule: rule, Index: len(decls)}
			decls = append(decls, d)
		}
	}
	for i, tok := range body {
		switch tok.Type {
		case lexer.LParen, lexer.LBracket, lexer.Function, lexer.LBrace:
			depth++
		case lexer.RParen, lexer.RBracket, lexer.RBrace:
			if depth > 0 {
				depth--
			}
		case lexer.Semicolon:
			if depth == 0 {
				flush(i, tok.Pos)
				start, from = i+1, tok.End()
			}
		}
	}
	flush(len(body), end)
	return decls
}

// declaration parses the tokens between offsets from and to. Any lex error
// recorded inside that span rejects the declaration, including error tokens
// the stylesheet pass dropped before or after the value.
func (sp *sheetParser) declaration(tokens []lexer.Token, from, to int) *Declaration {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 0 {
		return nil
	}
	if sp.lexErrorIn(from, to) {
		sp.log.Debug("skipping declaration with lex error", zap.Int("offset", tokens[0].Pos))
		return nil
	}
	name := tokens[0]
	if name.Type != lexer.Ident {
		sp.Record(parser.NewError(parser.KindSyntax, name, "expected property name, found %q", name.Text))
		return nil
	}
	rest := lexer.TrimWhitespace(tokens[1:])
	if len(rest) == 0 || rest[0].Type != lexer.Colon {
		sp.Record(parser.NewError(parser.KindSyntax, name, "expected ':' after property %q", name.Value))
		return nil
	}
	value, important := splitImportant(lexer.TrimWhitespace(rest[1:]))
	if len(value) == 0 {
		sp.Record(parser.NewError(parser.KindSyntax, name, "missing value for property %q", name.Value))
		return nil
	}

	base := value[0].Pos
	valueTokens := lexer.TokenizeAt(sp.src[base:value[len(value)-1].End()], lexer.ValueGrammar, base)
	bad := false
	for _, tok := range valueTokens {
		if tok.Type == lexer.Error {
			sp.Record(parser.NewError(parser.KindLex, tok, "%s in value of %q", tok.Value, name.Value))
			bad = true
		}
	}
	if bad {
		return nil
	}

	d := NewDeclaration(name.Value, valueTokens)
	d.Important = important
	d.Offset = name.Pos
	return d
}

func (sp *sheetParser) lexErrorIn(from, to int) bool {
	for _, err := range sp.Errors() {
		if pe, ok := err.(*parser.ParseError); ok && pe.Kind == parser.KindLex && pe.Offset >= from && pe.Offset < to {
			return true
		}
	}
	return false
}

// splitImportant strips a trailing "!important".
func splitImportant(tokens []lexer.Token) ([]lexer.Token, bool) {
	n := len(tokens)
	if n < 2 {
		return tokens, false
	}
	last := tokens[n-1]
	if last.Type != lexer.Ident || !strings.EqualFold(last.Value, "important") {
		return tokens, false
	}
	rest := lexer.TrimWhitespace(tokens[:n-1])
	if len(rest) == 0 || !rest[len(rest)-1].IsDelim('!') {
		return tokens, false
	}
	return lexer.TrimWhitespace(rest[:len(rest)-1]), true
}

// dedupe drops errors reported twice at the same offset, which happens when
// a value is re-tokenized after the stylesheet pass already flagged it, and
// orders the rest by offset.
func dedupe(errs []error) []error {
	type key struct {
		kind   parser.ErrorKind
		offset int
	}
	seen := make(map[key]bool)
	out := errs[:0:0]
	for _, err := range errs {
		if pe, ok := err.(*parser.ParseError); ok {
			k := key{pe.Kind, pe.Offset}
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return errorOffset(out[i]) < errorOffset(out[j])
	})
	return out
}

func errorOffset(err error) int {
	if pe, ok := err.(*parser.ParseError); ok {
		return pe.Offset
	}
	return 0
}
