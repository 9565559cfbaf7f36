// Package freestyle styles arbitrary node trees with CSS-like stylesheets.
//
// Stylesheets are parsed once into immutable rule sets. An Engine matches
// them against nodes implementing the Styleable contract and folds the
// winning declarations into one neutral style context per node state,
// caching contexts by style hash.
//
// # Checking stylesheets
//
//	cfg := freestyle.DefaultConfig()
//	cfg.SourceDir = "styles"
//	sheets, stats, err := freestyle.LoadStylesheets(cfg)
//	result := freestyle.Check(cfg, sheets, stats)
//	freestyle.WriteOutput(os.Stdout, result, freestyle.OutputIssues, cfg)
//
// # Resolving a node tree
//
//	root, err := freestyle.LoadTree("nodes.yaml")
//	engine, err := freestyle.NewEngine(cfg, sheets)
//	results := engine.ResolveTree(root)
//	freestyle.WriteResolution(os.Stdout, results, freestyle.ResolutionTree, false)
//
// # CLI Tool
//
//	go install github.com/yacobolo/freestyle/cmd/freestyle@latest
package freestyle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// Config holds loader, engine and output settings.
type Config struct {
	SourceDir string   // "styles"
	Includes  []string // ["**/*.css"], relative to SourceDir
	// Origin is the cascade origin of loaded stylesheets: user-agent,
	// user or author.
	Origin string
	// RespectGitignore skips files matched by SourceDir/.gitignore.
	RespectGitignore bool

	DPI       float64
	FontScale float64
	EmSize    float64

	CacheSize           int
	DefaultState        string
	InheritDefaultState bool

	MaxIssuesPerLinter int  // 0 = unlimited
	MaxSameIssues      int  // 0 = unlimited
	PrintIssuedLines   bool // show source lines under issues
	PrintLinterName    bool // show the (check) suffix
	UseColors          bool // force color output

	Logger *zap.Logger
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SourceDir:        ".",
		Includes:         []string{"**/*.css"},
		Origin:           stylesheet.OriginAuthor.String(),
		RespectGitignore: true,
		DPI:              parser.DefaultDPI,
		FontScale:        parser.DefaultFontScale,
		EmSize:           parser.DefaultEmSize,
		DefaultState:     "normal",
		PrintIssuedLines: true,
		PrintLinterName:  true,
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.SourceDir == "" {
		errs = append(errs, errors.New("source directory is empty"))
	}
	if len(c.Includes) == 0 {
		errs = append(errs, errors.New("no include patterns"))
	}
	if _, err := stylesheet.ParseOrigin(c.Origin); err != nil {
		errs = append(errs, err)
	}
	if c.DPI < 0 || c.FontScale < 0 || c.EmSize < 0 {
		errs = append(errs, fmt.Errorf("unit settings must not be negative (dpi %g, font-scale %g, em-size %g)",
			c.DPI, c.FontScale, c.EmSize))
	}
	if c.MaxIssuesPerLinter < 0 || c.MaxSameIssues < 0 {
		errs = append(errs, errors.New("issue limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Units returns the unit context for length conversion.
func (c Config) Units() parser.UnitContext {
	return parser.UnitContext{DPI: c.DPI, FontScale: c.FontScale, EmSize: c.EmSize}.Normalize()
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
