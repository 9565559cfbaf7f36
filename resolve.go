package freestyle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	tp "github.com/xlab/treeprint"
	"gopkg.in/yaml.v3"

	"github.com/yacobolo/freestyle/internal/cascade"
	"github.com/yacobolo/freestyle/internal/dom"
	"github.com/yacobolo/freestyle/internal/geom"
	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/report"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// NewEngine builds a cascade engine over sheets with cfg's unit, state
// and cache settings.
func NewEngine(cfg Config, sheets []*stylesheet.Stylesheet) (*cascade.Engine, error) {
	engine, err := cascade.New(sheets, cascade.Options{
		Units:               cfg.Units(),
		DefaultState:        cfg.DefaultState,
		InheritDefaultState: cfg.InheritDefaultState,
		CacheSize:           cfg.CacheSize,
		Logger:              cfg.logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	return engine, nil
}

// LoadTree loads a YAML or JSON node tree with the default kind resolver.
func LoadTree(path string) (*dom.Node, error) {
	return dom.Load(path, dom.DefaultResolver())
}

// Resolve styles root and its descendants against sheets.
func Resolve(cfg Config, sheets []*stylesheet.Stylesheet, root stylesheet.Styleable) ([]cascade.NodeResult, error) {
	engine, err := NewEngine(cfg, sheets)
	if err != nil {
		return nil, err
	}
	return engine.ResolveTree(root), nil
}

// Transform parses a transform list such as "translate(10, 0) rotate(90deg)".
func Transform(expr string, cfg Config) (geom.Matrix, error) {
	m, errs := parser.ParseTransform(expr, cfg.Units())
	if len(errs) > 0 {
		return geom.Matrix{}, fmt.Errorf("parsing transform: %w", errors.Join(errs...))
	}
	return m, nil
}

// ResolutionFormat selects how resolved trees are written.
type ResolutionFormat string

const (
	ResolutionTree ResolutionFormat = "tree"
	ResolutionJSON ResolutionFormat = "json"
	ResolutionYAML ResolutionFormat = "yaml"
)

// ParseResolutionFormat maps a flag value to a ResolutionFormat. Empty
// means tree.
func ParseResolutionFormat(s string) (ResolutionFormat, error) {
	switch s {
	case "", "tree":
		return ResolutionTree, nil
	case "json":
		return ResolutionJSON, nil
	case "yaml", "yml":
		return ResolutionYAML, nil
	}
	return "", fmt.Errorf("unknown resolution format %q (want tree, json or yaml)", s)
}

// ResolvedNode is the exported form of one resolved node.
type ResolvedNode struct {
	Path   string          `json:"path" yaml:"path"`
	States []ResolvedState `json:"states" yaml:"states"`
}

// ResolvedState is the exported form of one state context.
type ResolvedState struct {
	Name       string            `json:"name" yaml:"name"`
	Hash       string            `json:"hash" yaml:"hash"`
	Properties map[string]string `json:"properties" yaml:"properties"`
	Errors     []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Export converts engine results into their serializable form.
func Export(results []cascade.NodeResult) []ResolvedNode {
	out := make([]ResolvedNode, len(results))
	for i, r := range results {
		node := ResolvedNode{Path: nodePath(r.Node)}
		for _, name := range r.Result.Order {
			ctx := r.Result.States[name]
			st := ResolvedState{
				Name:       name,
				Hash:       strconv.FormatUint(ctx.StyleHash, 16),
				Properties: ctx.Summary(),
			}
			for _, err := range ctx.Errors {
				st.Errors = append(st.Errors, err.Error())
			}
			node.States = append(node.States, st)
		}
		out[i] = node
	}
	return out
}

// WriteResolution writes results to w in format. useColors only affects
// the tree format.
func WriteResolution(w io.Writer, results []cascade.NodeResult, format ResolutionFormat, useColors bool) error {
	switch format {
	case ResolutionJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(Export(results)); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		return nil
	case ResolutionYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(Export(results)); err != nil {
			return fmt.Errorf("writing YAML: %w", err)
		}
		return encoder.Close()
	default:
		_, err := io.WriteString(w, renderTree(results, useColors))
		return err
	}
}

// renderTree draws nodes as branches with one sub-branch per state
// listing its properties.
func renderTree(results []cascade.NodeResult, useColors bool) string {
	if len(results) == 0 {
		return ""
	}
	var root tp.Tree
	var stack []tp.Tree
	for _, r := range results {
		var branch tp.Tree
		if r.Depth == 0 || root == nil {
			root = tp.NewWithRoot(report.RenderStyle(report.StyleCyan, nodeLabel(r.Node), useColors))
			branch = root
			stack = stack[:0]
		} else {
			parent := stack[min(r.Depth, len(stack))-1]
			branch = parent.AddBranch(report.RenderStyle(report.StyleCyan, nodeLabel(r.Node), useColors))
		}
		stack = append(stack[:min(r.Depth, len(stack))], branch)

		for _, name := range r.Result.Order {
			ctx := r.Result.States[name]
			state := branch.AddBranch(report.RenderStyle(report.StyleGray, ":"+name, useColors))
			props := ctx.Summary()
			keys := make([]string, 0, len(props))
			for k := range props {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				state.AddNode(k + ": " + props[k])
			}
			for _, err := range ctx.Errors {
				state.AddNode(report.RenderStyle(report.StyleRed, "error: ", useColors) + err.Error())
			}
		}
	}
	return root.String()
}

func nodeLabel(n stylesheet.Styleable) string {
	if l, ok := n.(interface{ Label() string }); ok {
		return l.Label()
	}
	return n.ElementName()
}

func nodePath(n stylesheet.Styleable) string {
	if p, ok := n.(interface{ Path() string }); ok {
		return p.Path()
	}
	return nodeLabel(n)
}
