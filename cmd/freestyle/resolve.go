package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/freestyle"
	"github.com/yacobolo/freestyle/internal/report"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve per-state styles for a node tree",
	Long: `Load a node tree from YAML or JSON (comments allowed) and print the
resolved style of every node in every state it supports.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return runResolve(os.Stdout, args)
	},
}

func init() {
	f := resolveCmd.Flags()
	f.StringP("tree", "t", "", "Node tree file (.yaml, .yml, .json, .jsonc)")
	f.StringP("output-format", "o", "tree", "Output format: tree|json|yaml")
	f.Int("cache-size", 0, "Style cache entries (0=default, negative disables)")
	f.String("default-state", "normal", "State of nodes without a default pseudo-class")
	f.Bool("inherit-default-state", false, "Apply state-less rules to every state")
}

func runResolve(w io.Writer, files []string) error {
	config := buildConfig()
	config.Logger = newLogger()
	defer config.Logger.Sync() //nolint:errcheck

	treePath := getStringWithFallback("tree", "resolve.tree", "")
	if treePath == "" {
		return errors.New("no node tree given (use --tree or resolve.tree)")
	}
	format, err := freestyle.ParseResolutionFormat(
		getStringWithFallback("output-format", "resolve.output-format", string(freestyle.ResolutionTree)))
	if err != nil {
		return err
	}

	sheets, _, err := loadSheets(config, files)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	root, err := freestyle.LoadTree(treePath)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	engine, err := freestyle.NewEngine(config, sheets)
	if err != nil {
		return err
	}

	results := engine.ResolveTree(root)
	if cache := engine.Cache(); cache != nil {
		stats := cache.Stats()
		config.Logger.Debug("style cache",
			zap.Uint64("hits", stats.Hits),
			zap.Uint64("misses", stats.Misses),
			zap.Int("entries", stats.Len))
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	return freestyle.WriteResolution(w, results, format, report.ShouldUseColors(config.UseColors))
}
