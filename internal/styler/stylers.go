package styler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/yacobolo/freestyle/internal/lexer"
	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// DefaultStylers returns the built-in stylers. No two of them share a
// property.
func DefaultStylers() []Styler {
	return []Styler{
		FillStyler(),
		ColorStyler(),
		BorderStyler(),
		FontStyler(),
		TransformStyler(),
		TextStyler(),
		ShapeStyler(),
		OpacityStyler(),
		PaddingStyler(),
		SizeStyler(),
		VisibilityStyler(),
		AnimationStyler(),
	}
}

func ptr[T any](v T) *T {
	return &v
}

// FillStyler handles background paint.
func FillStyler() Styler {
	paint := func(d *stylesheet.Declaration, ctx *Context) error {
		p, err := d.Paint()
		if err != nil {
			return err
		}
		ctx.Fill = &p
		return nil
	}
	return Styler{Name: "fill", Handlers: map[string]Handler{
		"fill":       paint,
		"background": paint,
		"background-color": func(d *stylesheet.Declaration, ctx *Context) error {
			c, err := d.Color()
			if err != nil {
				return err
			}
			ctx.Fill = &parser.Paint{Kind: parser.PaintColor, Color: c}
			return nil
		},
		"background-image": func(d *stylesheet.Declaration, ctx *Context) error {
			u, err := d.URL()
			if err != nil {
				return err
			}
			ctx.BackgroundImage = u
			return nil
		},
	}}
}

// ColorStyler handles the foreground color.
func ColorStyler() Styler {
	color := func(d *stylesheet.Declaration, ctx *Context) error {
		c, err := d.Color()
		if err != nil {
			return err
		}
		ctx.TextColor = &c
		return nil
	}
	return Styler{Name: "color", Handlers: map[string]Handler{
		"color":      color,
		"text-color": color,
	}}
}

var borderStyles = []string{"none", "solid", "dashed", "dotted", "double"}

// BorderStyler handles border and stroke properties.
func BorderStyler() Styler {
	width := func(d *stylesheet.Declaration, ctx *Context) error {
		w, err := d.Length(ctx.Units)
		if err != nil {
			return err
		}
		if w < 0 {
			return fmt.Errorf("%s: negative width %g", d.Name, w)
		}
		ctx.Border.Width = &w
		return nil
	}
	return Styler{Name: "border", Handlers: map[string]Handler{
		"border-width": width,
		"stroke-width": width,
		"border-color": func(d *stylesheet.Declaration, ctx *Context) error {
			c, err := d.Color()
			if err != nil {
				return err
			}
			ctx.Border.Color = &c
			return nil
		},
		"border-style": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum(borderStyles...)
			if err != nil {
				return err
			}
			ctx.Border.Style = s
			return nil
		},
		"border-radius": func(d *stylesheet.Declaration, ctx *Context) error {
			r, err := d.Length(ctx.Units)
			if err != nil {
				return err
			}
			if r < 0 {
				return fmt.Errorf("%s: negative radius %g", d.Name, r)
			}
			ctx.Border.Radius = &r
			return nil
		},
		"stroke-miterlimit": func(d *stylesheet.Declaration, ctx *Context) error {
			m, err := d.MiterLimit()
			if err != nil {
				return err
			}
			ctx.Border.MiterLimit = m
			return nil
		},
		"border": borderShorthand,
	}}
}

// borderShorthand applies "border: <width> <style> <color>" with the parts
// in any order. Nothing is applied unless every part parses.
func borderShorthand(d *stylesheet.Declaration, ctx *Context) error {
	b := ctx.Border
	var seenWidth, seenStyle, seenColor bool
	for _, group := range parser.SplitSpaces(d.Tokens) {
		if w, err := parser.ParseLength(group, ctx.Units); err == nil && !seenWidth {
			b.Width, seenWidth = ptr(w), true
			continue
		}
		if s, err := parser.ParseEnum(group, borderStyles...); err == nil && !seenStyle {
			b.Style, seenStyle = s, true
			continue
		}
		if c, err := parser.ParseColor(group); err == nil && !seenColor {
			b.Color, seenColor = ptr(c), true
			continue
		}
		return fmt.Errorf("%s: unexpected %q", d.Name, lexer.Join(group))
	}
	ctx.Border = b
	return nil
}

var fontWeights = []string{"normal", "bold", "bolder", "lighter"}

// FontStyler handles font properties.
func FontStyler() Styler {
	return Styler{Name: "font", Handlers: map[string]Handler{
		"font-family": func(d *stylesheet.Declaration, ctx *Context) error {
			families, err := d.StringList()
			if err != nil {
				return err
			}
			if len(families) == 0 {
				return fmt.Errorf("%s: no family given", d.Name)
			}
			ctx.Font.Family = families[0]
			return nil
		},
		"font-size": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Length(ctx.Units)
			if err != nil {
				return err
			}
			if s <= 0 {
				return fmt.Errorf("%s: size must be positive, got %g", d.Name, s)
			}
			ctx.Font.Size = &s
			return nil
		},
		"font-weight": func(d *stylesheet.Declaration, ctx *Context) error {
			if w, err := d.Enum(fontWeights...); err == nil {
				ctx.Font.Weight = w
				return nil
			}
			n, err := d.Float()
			if err != nil {
				return err
			}
			if n != math.Trunc(n) || n < 1 || n > 1000 {
				return fmt.Errorf("%s: weight %g out of range 1-1000", d.Name, n)
			}
			ctx.Font.Weight = strconv.Itoa(int(n))
			return nil
		},
		"font-style": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum("normal", "italic", "oblique")
			if err != nil {
				return err
			}
			ctx.Font.Style = s
			return nil
		},
		"font-stretch": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum("normal", "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
				"semi-expanded", "expanded", "extra-expanded", "ultra-expanded")
			if err != nil {
				return err
			}
			ctx.Font.Stretch = s
			return nil
		},
	}}
}

// TransformStyler handles the transform property.
func TransformStyler() Styler {
	return Styler{Name: "transform", Handlers: map[string]Handler{
		"transform": func(d *stylesheet.Declaration, ctx *Context) error {
			m, err := d.Transform(ctx.Units)
			if err != nil {
				return err
			}
			ctx.Transform = &m
			return nil
		},
	}}
}

// TextStyler handles text content and layout.
func TextStyler() Styler {
	return Styler{Name: "text", Handlers: map[string]Handler{
		"text": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.StringValue()
			if err != nil {
				return err
			}
			ctx.Text.Content = &s
			return nil
		},
		"text-transform": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum("none", "uppercase", "lowercase", "capitalize")
			if err != nil {
				return err
			}
			ctx.Text.Transform = s
			return nil
		},
		"text-align": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum("left", "center", "right", "start", "end", "justify")
			if err != nil {
				return err
			}
			ctx.Text.Align = s
			return nil
		},
	}}
}

// ShapeStyler handles the node outline.
func ShapeStyler() Styler {
	return Styler{Name: "shape", Handlers: map[string]Handler{
		"shape": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Enum("rectangle", "ellipse", "arrow-button-left", "arrow-button-right")
			if err != nil {
				return err
			}
			ctx.Shape.Kind = s
			return nil
		},
		"corner-radius": func(d *stylesheet.Declaration, ctx *Context) error {
			r, err := d.Length(ctx.Units)
			if err != nil {
				return err
			}
			if r < 0 {
				return fmt.Errorf("%s: negative radius %g", d.Name, r)
			}
			ctx.Shape.CornerRadius = &r
			return nil
		},
	}}
}

// OpacityStyler handles opacity, clamped to [0, 1].
func OpacityStyler() Styler {
	return Styler{Name: "opacity", Handlers: map[string]Handler{
		"opacity": func(d *stylesheet.Declaration, ctx *Context) error {
			v, err := d.Float()
			if err != nil {
				return err
			}
			ctx.Opacity = ptr(math.Min(1, math.Max(0, v)))
			return nil
		},
	}}
}

// PaddingStyler handles padding and its per-side longhands.
func PaddingStyler() Styler {
	side := func(set func(*parser.Insets, float64)) Handler {
		return func(d *stylesheet.Declaration, ctx *Context) error {
			v, err := d.Length(ctx.Units)
			if err != nil {
				return err
			}
			var p parser.Insets
			if ctx.Padding != nil {
				p = *ctx.Padding
			}
			set(&p, v)
			ctx.Padding = &p
			return nil
		}
	}
	return Styler{Name: "padding", Handlers: map[string]Handler{
		"padding": func(d *stylesheet.Declaration, ctx *Context) error {
			p, err := d.Insets(ctx.Units)
			if err != nil {
				return err
			}
			ctx.Padding = &p
			return nil
		},
		"padding-top":    side(func(p *parser.Insets, v float64) { p.Top = v }),
		"padding-right":  side(func(p *parser.Insets, v float64) { p.Right = v }),
		"padding-bottom": side(func(p *parser.Insets, v float64) { p.Bottom = v }),
		"padding-left":   side(func(p *parser.Insets, v float64) { p.Left = v }),
	}}
}

// SizeStyler handles width and height.
func SizeStyler() Styler {
	size := func(set func(*Context, *parser.Length)) Handler {
		return func(d *stylesheet.Declaration, ctx *Context) error {
			l, err := d.LengthOrPercent(ctx.Units)
			if err != nil {
				return err
			}
			if l.Value < 0 {
				return fmt.Errorf("%s: negative size %s", d.Name, l)
			}
			set(ctx, &l)
			return nil
		}
	}
	return Styler{Name: "size", Handlers: map[string]Handler{
		"width":  size(func(ctx *Context, l *parser.Length) { ctx.Width = l }),
		"height": size(func(ctx *Context, l *parser.Length) { ctx.Height = l }),
	}}
}

// VisibilityStyler handles visibility.
func VisibilityStyler() Styler {
	return Styler{Name: "visibility", Handlers: map[string]Handler{
		"visibility": func(d *stylesheet.Declaration, ctx *Context) error {
			v, err := d.Enum("visible", "hidden", "collapse")
			if err != nil {
				return err
			}
			ctx.Visibility = v
			return nil
		},
	}}
}

// AnimationStyler handles transition timing.
func AnimationStyler() Styler {
	return Styler{Name: "animation", Handlers: map[string]Handler{
		"transition-duration": func(d *stylesheet.Declaration, ctx *Context) error {
			s, err := d.Seconds()
			if err != nil {
				return err
			}
			if s < 0 {
				return fmt.Errorf("%s: negative duration %gs", d.Name, s)
			}
			ctx.TransitionDuration = &s
			return nil
		},
	}}
}
