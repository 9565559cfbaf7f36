package dom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a node document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unsupported node file %q: want .yaml, .yml, .json or .jsonc", path)
}

// Load reads a node tree from a YAML or JSON-with-comments file.
func Load(path string, r Resolver) (*Node, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node file: %w", err)
	}
	n, err := Parse(data, format, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Parse decodes a node tree. JSON input may carry comments and trailing
// commas.
func Parse(data []byte, format Format, r Resolver) (*Node, error) {
	var spec Spec
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &spec); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
	if err := validate(&spec, "root"); err != nil {
		return nil, err
	}
	return Build(spec, r), nil
}

func validate(s *Spec, path string) error {
	if strings.TrimSpace(s.Element) == "" {
		return fmt.Errorf("node %s: missing element", path)
	}
	var errs []error
	for i := range s.Children {
		errs = append(errs, validate(&s.Children[i], fmt.Sprintf("%s.children[%d]", path, i)))
	}
	for i := range s.Virtual {
		errs = append(errs, validate(&s.Virtual[i], fmt.Sprintf("%s.virtual[%d]", path, i)))
	}
	return errors.Join(errs...)
}
