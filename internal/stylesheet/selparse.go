package stylesheet

import (
	"fmt"
	"strings"

	"github.com/yacobolo/freestyle/internal/lexer"
	"github.com/yacobolo/freestyle/internal/parser"
)

// parseSelectorGroup parses "a, b > c". One bad selector rejects the whole
// group, as in CSS.
func parseSelectorGroup(tokens []lexer.Token) ([]*Selector, error) {
	var out []*Selector
	for _, group := range splitTopLevel(tokens, lexer.Comma) {
		sel, err := parseSelector(group)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, parser.NewError(parser.KindSyntax, firstOf(tokens), "missing selector")
	}
	return out, nil
}

func splitTopLevel(tokens []lexer.Token, sep lexer.Type) [][]lexer.Token {
	var groups [][]lexer.Token
	depth, start := 0, 0
	for i, tok := range tokens {
		switch tok.Type {
		case lexer.LParen, lexer.LBracket, lexer.Function:
			depth++
		case lexer.RParen, lexer.RBracket:
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				groups = append(groups, tokens[start:i])
				start = i + 1
			}
		}
	}
	return append(groups, tokens[start:])
}

func firstOf(tokens []lexer.Token) lexer.Token {
	if len(tokens) > 0 {
		return tokens[0]
	}
	return lexer.Token{}
}

type selectorParser struct {
	*parser.Parser
}

func parseSelector(tokens []lexer.Token) (*Selector, error) {
	tokens = lexer.TrimWhitespace(tokens)
	if len(tokens) == 0 {
		return nil, parser.NewError(parser.KindSyntax, firstOf(tokens), "missing selector")
	}
	p := selectorParser{parser.FromTokens(tokens)}
	sel := &Selector{}
	for {
		c, err := p.compound()
		if err != nil {
			return nil, err
		}
		sel.Compounds = append(sel.Compounds, c)

		sawSpace := p.skipSpace()
		if p.AtEOF() {
			break
		}
		comb := Descendant
		switch cur := p.Current(); {
		case cur.IsDelim('>'):
			comb = Child
		case cur.IsDelim('+'):
			comb = Adjacent
		case cur.IsDelim('~'):
			comb = Sibling
		case !sawSpace:
			return nil, p.ErrorWithMessage(fmt.Sprintf("unexpected %q in selector", cur.Text))
		}
		if comb != Descendant {
			p.Advance()
			p.skipSpace()
			if p.AtEOF() {
				return nil, p.ErrorWithMessage("missing selector after combinator")
			}
		}
		sel.Combinators = append(sel.Combinators, comb)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return sel, nil
}

func (p selectorParser) skipSpace() bool {
	skipped := false
	for p.IsType(lexer.Whitespace) {
		p.Advance()
		skipped = true
	}
	return skipped
}

// compound parses a run of simple selectors.
func (p selectorParser) compound() (*Compound, error) {
	c := &Compound{}
	empty := true
	switch cur := p.Current(); {
	case cur.Type == lexer.Ident:
		c.Type = strings.ToLower(p.Advance().Value)
		empty = false
	case cur.IsDelim('*'):
		p.Advance()
		c.Type = "*"
		empty = false
	}

	for {
		var err error
		switch cur := p.Current(); {
		case cur.Type == lexer.Hash:
			c.ID = p.Advance().Value
		case cur.IsDelim('.'):
			p.Advance()
			var tok lexer.Token
			if tok, err = p.AssertTypeAndAdvance(lexer.Ident); err == nil {
				c.Classes = append(c.Classes, tok.Value)
			}
		case cur.Type == lexer.LBracket:
			err = p.attribute(c)
		case cur.Type == lexer.Colon:
			err = p.pseudo(c)
		default:
			if empty {
				return nil, p.ErrorWithMessage(fmt.Sprintf("expected selector, found %q", cur.Text))
			}
			return c, nil
		}
		if err != nil {
			return nil, err
		}
		empty = false
	}
}

var attrOps = map[lexer.Type]AttrOp{
	lexer.IncludeMatch:   AttrIncludes,
	lexer.DashMatch:      AttrDashMatch,
	lexer.PrefixMatch:    AttrPrefix,
	lexer.SuffixMatch:    AttrSuffix,
	lexer.SubstringMatch: AttrSubstring,
}

func (p selectorParser) attribute(c *Compound) error {
	p.Advance() // [
	p.skipSpace()
	name, err := p.AssertTypeAndAdvance(lexer.Ident)
	if err != nil {
		return err
	}
	m := AttrMatcher{Name: name.Value}
	p.skipSpace()
	if p.IsType(lexer.RBracket) {
		p.Advance()
		c.Attrs = append(c.Attrs, m)
		return nil
	}

	if op, ok := attrOps[p.Current().Type]; ok {
		m.Op = op
	} else if p.Current().IsDelim('=') {
		m.Op = AttrEquals
	} else {
		return p.ErrorWithMessage(fmt.Sprintf("expected attribute operator, found %q", p.Current().Text))
	}
	p.Advance()
	p.skipSpace()

	switch cur := p.Current(); cur.Type {
	case lexer.Ident, lexer.String:
		m.Value = cur.Value
	case lexer.Number:
		m.Value = cur.Text
	default:
		return p.ErrorWithMessage(fmt.Sprintf("expected attribute value, found %q", cur.Text))
	}
	p.Advance()
	p.skipSpace()
	if _, err := p.AssertTypeAndAdvance(lexer.RBracket); err != nil {
		return err
	}
	c.Attrs = append(c.Attrs, m)
	return nil
}

func (p selectorParser) pseudo(c *Compound) error {
	p.Advance() // :
	cur := p.Current()
	switch cur.Type {
	case lexer.Colon:
		return p.ErrorWithMessage("pseudo-elements are not supported")
	case lexer.Ident:
		p.Advance()
		name := strings.ToLower(cur.Value)
		takesArg, isStructural := structural[name]
		switch {
		case !isStructural:
			c.States = append(c.States, name)
		case takesArg:
			return parser.NewError(parser.KindSyntax, cur, ":%s requires an argument", name)
		default:
			c.Pseudos = append(c.Pseudos, Pseudo{Name: name})
		}
		return nil
	case lexer.Function:
		p.Advance()
		args, err := p.functionArgs(cur)
		if err != nil {
			return err
		}
		return p.functionalPseudo(c, cur, args)
	}
	return p.ErrorWithMessage(fmt.Sprintf("expected pseudo-class name, found %q", cur.Text))
}

// functionArgs collects tokens up to the ')' matching an already consumed
// function token.
func (p selectorParser) functionArgs(fn lexer.Token) ([]lexer.Token, error) {
	var args []lexer.Token
	depth := 0
	for {
		if p.AtEOF() {
			return nil, parser.NewError(parser.KindSyntax, fn, "missing ')' after :%s(", fn.Value)
		}
		tok := p.Advance()
		switch tok.Type {
		case lexer.LParen, lexer.Function:
			depth++
		case lexer.RParen:
			if depth == 0 {
				return lexer.TrimWhitespace(args), nil
			}
			depth--
		}
		args = append(args, tok)
	}
}

func (p selectorParser) functionalPseudo(c *Compound, fn lexer.Token, args []lexer.Token) error {
	name := fn.Value
	switch name {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		nth, err := ParseNth(lexer.Join(args))
		if err != nil {
			return parser.NewError(parser.KindSyntax, fn, "%s", err.Error())
		}
		c.Pseudos = append(c.Pseudos, Pseudo{Name: name, Nth: nth})
		return nil
	case "not":
		if len(args) == 0 {
			return parser.NewError(parser.KindSyntax, fn, ":not() requires a selector")
		}
		sub := selectorParser{parser.FromTokens(args)}
		inner, err := sub.compound()
		if err != nil {
			return err
		}
		if !sub.AtEOF() {
			return parser.NewError(parser.KindSyntax, sub.Current(), ":not() takes a single compound selector")
		}
		if len(inner.States) > 0 {
			return parser.NewError(parser.KindSyntax, fn, "state pseudo-classes are not allowed in :not()")
		}
		for _, ps := range inner.Pseudos {
			if ps.Not != nil {
				return parser.NewError(parser.KindSyntax, fn, ":not() cannot be nested")
			}
		}
		c.Pseudos = append(c.Pseudos, Pseudo{Name: "not", Not: inner})
		return nil
	}
	return parser.NewError(parser.KindSyntax, fn, "unsupported pseudo-class :%s()", name)
}
