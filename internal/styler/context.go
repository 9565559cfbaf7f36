// Package styler maps resolved declarations onto a neutral style Context.
// Handlers never touch host widgets; a host projects the Context onto its
// own toolkit.
package styler

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yacobolo/freestyle/internal/geom"
	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// Border holds border and stroke settings.
type Border struct {
	Width      *float64
	Color      *parser.Color
	Style      string
	Radius     *float64
	MiterLimit float64
}

// Font holds font settings.
type Font struct {
	Family  string
	Size    *float64
	Weight  string
	Style   string
	Stretch string
}

// Text holds text content and layout settings.
type Text struct {
	Content   *string
	Transform string
	Align     string
}

// Shape holds the outline of the node.
type Shape struct {
	Kind         string
	CornerRadius *float64
}

// Context accumulates the resolved style of one (node, state) pair. Unset
// properties are nil or empty. Pointed-to values are never mutated, only
// replaced, so a shallow Clone is safe.
type Context struct {
	State        string
	StyleHash    uint64
	Declarations []*stylesheet.Declaration
	Units        parser.UnitContext
	// Errors lists declarations that could not be applied.
	Errors []error
	// Applied maps each applied property to its value as written.
	Applied map[string]string

	Fill               *parser.Paint
	BackgroundImage    string
	TextColor          *parser.Color
	Border             Border
	Font               Font
	Transform          *geom.Matrix
	Text               Text
	Shape              Shape
	Opacity            *float64
	Padding            *parser.Insets
	Width              *parser.Length
	Height             *parser.Length
	Visibility         string
	TransitionDuration *float64
}

// NewContext returns an empty context for state.
func NewContext(state string, uc parser.UnitContext) *Context {
	return &Context{
		State:   state,
		Units:   uc,
		Applied: make(map[string]string),
		Border:  Border{MiterLimit: stylesheet.DefaultMiterLimit},
	}
}

// Clone returns a copy that can be changed without affecting c.
func (c *Context) Clone() *Context {
	out := *c
	out.Declarations = slices.Clone(c.Declarations)
	out.Errors = slices.Clone(c.Errors)
	out.Applied = maps.Clone(c.Applied)
	return &out
}

// Summary renders every set property as text, keyed by property group.
func (c *Context) Summary() map[string]string {
	out := make(map[string]string)
	setF := func(key string, v *float64) {
		if v != nil {
			out[key] = formatFloat(*v)
		}
	}
	setS := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}

	if c.Fill != nil {
		out["fill"] = c.Fill.String()
	}
	setS("background-image", c.BackgroundImage)
	if c.TextColor != nil {
		out["color"] = c.TextColor.Hex()
	}
	setF("border.width", c.Border.Width)
	if c.Border.Color != nil {
		out["border.color"] = c.Border.Color.Hex()
	}
	setS("border.style", c.Border.Style)
	setF("border.radius", c.Border.Radius)
	if c.Border.MiterLimit != stylesheet.DefaultMiterLimit {
		out["border.miter-limit"] = formatFloat(c.Border.MiterLimit)
	}
	setS("font.family", c.Font.Family)
	setF("font.size", c.Font.Size)
	setS("font.weight", c.Font.Weight)
	setS("font.style", c.Font.Style)
	setS("font.stretch", c.Font.Stretch)
	if c.Transform != nil {
		out["transform"] = c.Transform.String()
	}
	if c.Text.Content != nil {
		out["text.content"] = strconv.Quote(*c.Text.Content)
	}
	setS("text.transform", c.Text.Transform)
	setS("text.align", c.Text.Align)
	setS("shape.kind", c.Shape.Kind)
	setF("shape.corner-radius", c.Shape.CornerRadius)
	setF("opacity", c.Opacity)
	if p := c.Padding; p != nil {
		out["padding"] = strings.Join([]string{
			formatFloat(p.Top), formatFloat(p.Right), formatFloat(p.Bottom), formatFloat(p.Left),
		}, " ")
	}
	if c.Width != nil {
		out["width"] = c.Width.String()
	}
	if c.Height != nil {
		out["height"] = c.Height.String()
	}
	setS("visibility", c.Visibility)
	if c.TransitionDuration != nil {
		out["transition-duration"] = formatFloat(*c.TransitionDuration) + "s"
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// ApplyError records a declaration that failed to apply.
type ApplyError struct {
	Declaration *stylesheet.Declaration
	Err         error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s (declaration %s)", e.Err, e.Declaration.ID)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
