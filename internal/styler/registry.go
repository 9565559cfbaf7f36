package styler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// Handler applies one declaration to a context. It must only mutate ctx.
type Handler func(d *stylesheet.Declaration, ctx *Context) error

// Styler groups the handlers of one style concern.
type Styler struct {
	Name     string
	Handlers map[string]Handler
}

// Properties returns the handled property names, sorted.
func (s Styler) Properties() []string {
	out := make([]string, 0, len(s.Handlers))
	for p := range s.Handlers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type entry struct {
	styler  string
	handler Handler
}

// Registry dispatches declarations to handlers by property name. It is
// built once by the host and is safe for concurrent use afterwards.
type Registry struct {
	handlers map[string]entry
	stylers  []string
}

// NewRegistry registers stylers in order. When two stylers handle the same
// property the later one wins and the conflict is reported in the returned
// error; the registry is usable either way.
func NewRegistry(stylers ...Styler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]entry)}
	var errs []error
	for _, s := range stylers {
		if err := r.Register(s); err != nil {
			errs = append(errs, err)
		}
	}
	return r, errors.Join(errs...)
}

// DefaultRegistry returns a registry holding every built-in styler.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(DefaultStylers()...)
	return r
}

// Register adds a styler. It must not be called once the registry is in
// use.
func (r *Registry) Register(s Styler) error {
	var dups []string
	for _, prop := range s.Properties() {
		if prev, ok := r.handlers[prop]; ok {
			dups = append(dups, fmt.Sprintf("%s (was %s)", prop, prev.styler))
		}
		r.handlers[prop] = entry{styler: s.Name, handler: s.Handlers[prop]}
	}
	r.stylers = append(r.stylers, s.Name)
	if len(dups) > 0 {
		return fmt.Errorf("styler %s overrides properties %v", s.Name, dups)
	}
	return nil
}

// Lookup returns the handler for prop and the name of its styler.
func (r *Registry) Lookup(prop string) (Handler, string, bool) {
	e, ok := r.handlers[prop]
	return e.handler, e.styler, ok
}

// Supports reports whether any styler handles prop.
func (r *Registry) Supports(prop string) bool {
	_, ok := r.handlers[prop]
	return ok
}

// Properties returns every handled property, sorted.
func (r *Registry) Properties() []string {
	out := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Stylers returns the registered styler names in registration order.
func (r *Registry) Stylers() []string {
	return r.stylers
}

// Apply dispatches decls to their handlers in order. Declarations without
// a handler are skipped and returned as unknown. A failing handler leaves
// the context as it was and its error is appended to ctx.Errors.
func (r *Registry) Apply(ctx *Context, decls []*stylesheet.Declaration) (unknown []string) {
	for _, d := range decls {
		e, ok := r.handlers[d.Name]
		if !ok {
			unknown = append(unknown, d.Name)
			continue
		}
		if err := e.handler(d, ctx); err != nil {
			ctx.Errors = append(ctx.Errors, &ApplyError{Declaration: d, Err: err})
			continue
		}
		ctx.Applied[d.Name] = d.Value()
	}
	return unknown
}
