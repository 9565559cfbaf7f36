// Package cascade matches rule sets against styleable nodes and folds the
// winning declarations into one styler.Context per node state.
package cascade

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/styler"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// DefaultState is the state assumed for nodes that report none.
const DefaultState = "normal"

// Options configure an Engine. The zero value is usable.
type Options struct {
	Units parser.UnitContext
	// DefaultState replaces an empty DefaultPseudoClass. Defaults to
	// "normal".
	DefaultState string
	// InheritDefaultState applies rules without a state pseudo-class to
	// every state, ranked below the rules written for that state.
	InheritDefaultState bool
	// Registry maps declarations onto contexts. Defaults to
	// styler.DefaultRegistry().
	Registry *styler.Registry
	// CacheSize bounds the style cache. Zero means DefaultCacheSize and a
	// negative size disables caching.
	CacheSize int
	Logger    *zap.Logger
}

// Engine resolves styles for nodes against a fixed list of stylesheets.
// It is safe for concurrent use.
type Engine struct {
	rules    []*stylesheet.RuleSet
	match    stylesheet.MatchOptions
	units    parser.UnitContext
	registry *styler.Registry
	cache    *Cache[*styler.Context]
	log      *zap.Logger

	inlineMu   sync.Mutex
	inline     map[string][]*stylesheet.Declaration
	inlineNext int
}

// New builds an engine over sheets. Rule order within a stylesheet and the
// stylesheet Index break specificity ties.
func New(sheets []*stylesheet.Stylesheet, opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultState == "" {
		opts.DefaultState = DefaultState
	}
	if opts.Registry == nil {
		opts.Registry = styler.DefaultRegistry()
	}
	e := &Engine{
		match: stylesheet.MatchOptions{
			DefaultState:        opts.DefaultState,
			InheritDefaultState: opts.InheritDefaultState,
		},
		units:    opts.Units.Normalize(),
		registry: opts.Registry,
		log:      log.Named("cascade"),
		inline:   make(map[string][]*stylesheet.Declaration),
	}
	if opts.CacheSize >= 0 {
		size := opts.CacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		cache, err := NewCache[*styler.Context](size)
		if err != nil {
			return nil, fmt.Errorf("creating style cache: %w", err)
		}
		e.cache = cache
	}
	for _, s := range sheets {
		e.rules = append(e.rules, s.Rules...)
	}
	e.log.Debug("engine ready", zap.Int("stylesheets", len(sheets)), zap.Int("rules", len(e.rules)))
	return e, nil
}

// Cache returns the style cache, or nil when caching is disabled.
func (e *Engine) Cache() *Cache[*styler.Context] {
	return e.cache
}

// Rules returns every rule set in load order.
func (e *Engine) Rules() []*stylesheet.RuleSet {
	return e.rules
}

// Result holds the resolved context of every state of one node.
type Result struct {
	States map[string]*styler.Context
	// Order lists the states with the default state first and the rest
	// sorted by name.
	Order []string
}

// Default returns the context of the node's default state.
func (r *Result) Default() *styler.Context {
	if len(r.Order) == 0 {
		return nil
	}
	return r.States[r.Order[0]]
}

// Resolve computes one context per state n can be styled in. The returned
// contexts belong to the caller.
func (e *Engine) Resolve(n stylesheet.Styleable) *Result {
	candidates := e.candidates(n)
	states := e.states(n, candidates)
	res := &Result{States: make(map[string]*styler.Context, len(states)), Order: states}
	for _, state := range states {
		res.States[state] = e.resolveState(n, state, candidates)
	}
	return res
}

// States returns the states n can be styled in: its default state first,
// then every supported state named by the subject of a structurally
// matching selector, sorted.
func (e *Engine) States(n stylesheet.Styleable) []string {
	return e.states(n, e.candidates(n))
}

// Match returns the rule sets applying to n in state, in application
// order. Inline declarations are not included.
func (e *Engine) Match(n stylesheet.Styleable, state string) []*stylesheet.RuleSet {
	ranked := e.rank(n, state, e.candidates(n))
	out := make([]*stylesheet.RuleSet, len(ranked))
	for i, r := range ranked {
		out[i] = r.rule
	}
	return out
}

// Declarations returns the declarations applied to n in state, in
// application order: normal declarations first, then !important ones.
func (e *Engine) Declarations(n stylesheet.Styleable, state string) []*stylesheet.Declaration {
	return e.fold(n, state, e.rank(n, state, e.candidates(n)))
}

// candidates returns the rules whose selector matches n ignoring the
// subject's state.
func (e *Engine) candidates(n stylesheet.Styleable) []*stylesheet.RuleSet {
	var out []*stylesheet.RuleSet
	for _, r := range e.rules {
		if r.Selector.MatchesStructure(n, e.match) {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) states(n stylesheet.Styleable, candidates []*stylesheet.RuleSet) []string {
	def := e.match.StateOf(n)
	seen := map[string]bool{def: true}
	var extra []string
	for _, r := range candidates {
		for _, st := range r.Selector.Subject().States {
			if !seen[st] && e.match.Supports(n, st) {
				seen[st] = true
				extra = append(extra, st)
			}
		}
	}
	sort.Strings(extra)
	return append([]string{def}, extra...)
}

type ranked struct {
	rule *stylesheet.RuleSet
	// inherited marks a state-less rule applied to a non-default state.
	inherited bool
}

// rank returns the rules matching n in state in ascending priority:
// origin, then inherited before state-specific, then specificity, then
// load order.
func (e *Engine) rank(n stylesheet.Styleable, state string, candidates []*stylesheet.RuleSet) []ranked {
	def := e.match.StateOf(n)
	var out []ranked
	for _, r := range candidates {
		if !r.Selector.Matches(n, state, e.match) {
			continue
		}
		inherited := state != def && len(r.Selector.Subject().States) == 0
		out = append(out, ranked{rule: r, inherited: inherited})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.rule.Origin != b.rule.Origin {
			return a.rule.Origin < b.rule.Origin
		}
		if a.inherited != b.inherited {
			return a.inherited
		}
		if c := a.rule.Specificity.Compare(b.rule.Specificity); c != 0 {
			return c < 0
		}
		if a.rule.Sheet != b.rule.Sheet {
			return a.rule.Sheet < b.rule.Sheet
		}
		return a.rule.Order < b.rule.Order
	})
	return out
}

// fold flattens ranked rules into application order. Inline declarations
// rank above every stylesheet rule of their group.
func (e *Engine) fold(n stylesheet.Styleable, state string, rules []ranked) []*stylesheet.Declaration {
	var normal, important []*stylesheet.Declaration
	add := func(decls []*stylesheet.Declaration) {
		for _, d := range decls {
			if d.Important {
				important = append(important, d)
			} else {
				normal = append(normal, d)
			}
		}
	}
	for _, r := range rules {
		add(r.rule.Declarations)
	}
	if state == e.match.StateOf(n) || e.match.InheritDefaultState {
		add(e.inlineDeclarations(n))
	}
	return append(normal, important...)
}

func (e *Engine) resolveState(n stylesheet.Styleable, state string, candidates []*stylesheet.RuleSet) *styler.Context {
	decls := e.fold(n, state, e.rank(n, state, candidates))
	ids := make([]stylesheet.ID, len(decls))
	for i, d := range decls {
		ids[i] = d.ID
	}
	key := NewKey(ids, state)

	build := func() *styler.Context {
		ctx := styler.NewContext(state, e.units)
		ctx.StyleHash = key.Hash
		ctx.Declarations = decls
		for _, prop := range e.registry.Apply(ctx, decls) {
			e.log.Debug("ignoring unknown property", zap.String("property", prop), zap.String("state", state))
		}
		for _, err := range ctx.Errors {
			e.log.Debug("declaration not applied", zap.Error(err))
		}
		return ctx
	}
	if e.cache == nil {
		return build()
	}
	ctx, hit := e.cache.GetOrCompute(key, build)
	if hit {
		e.log.Debug("style cache hit", zap.Uint64("hash", key.Hash), zap.String("state", state))
	}
	return ctx.Clone()
}

// inlineDeclarations parses the inline style of n once per distinct text.
// Each distinct text gets its own negative sheet index so its declarations
// have unique identities.
func (e *Engine) inlineDeclarations(n stylesheet.Styleable) []*stylesheet.Declaration {
	is, ok := n.(stylesheet.InlineStyled)
	if !ok {
		return nil
	}
	text := is.InlineStyle()
	if text == "" {
		return nil
	}

	e.inlineMu.Lock()
	defer e.inlineMu.Unlock()
	if decls, ok := e.inline[text]; ok {
		return decls
	}
	e.inlineNext--
	decls, errs := stylesheet.ParseDeclarations(text, stylesheet.ParseOptions{
		Name:   "inline",
		Origin: stylesheet.OriginInline,
		Index:  e.inlineNext,
		Logger: e.log,
	})
	for _, err := range errs {
		e.log.Debug("invalid inline style", zap.String("style", text), zap.Error(err))
	}
	e.inline[text] = decls
	return decls
}

// NodeResult is the resolution of one node of a tree.
type NodeResult struct {
	Node   stylesheet.Styleable
	Depth  int
	Result *Result
}

// ResolveTree resolves root and its descendants, virtual children
// included, in depth-first pre-order.
func (e *Engine) ResolveTree(root stylesheet.Styleable) []NodeResult {
	var out []NodeResult
	var walk func(n stylesheet.Styleable, depth int)
	walk = func(n stylesheet.Styleable, depth int) {
		out = append(out, NodeResult{Node: n, Depth: depth, Result: e.Resolve(n)})
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return out
}
