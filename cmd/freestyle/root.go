package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "freestyle",
	Short: "CSS-like styling engine for arbitrary node trees",
	Long: `Check stylesheets and resolve per-state styles for node trees.
Selectors match element names, ids, classes, attributes and pseudo-classes;
the cascade folds the winning declarations into one style per node state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")

	// Stylesheet loading and units
	pf.StringP("source", "s", ".", "Stylesheet directory")
	pf.StringSlice("include", nil, "Glob patterns for stylesheets, relative to --source")
	pf.String("origin", "author", "Cascade origin of loaded stylesheets: user-agent|user|author")
	pf.Bool("gitignore", true, "Skip stylesheets matched by <source>/.gitignore")
	pf.Float64("dpi", 160, "Display density for dp, sp, pt, in, mm and cm")
	pf.Float64("font-scale", 1, "Font scale for sp lengths")
	pf.Float64("em-size", 16, "Pixels per em")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns a development logger in verbose mode and a warn-level
// production logger otherwise.
func newLogger() *zap.Logger {
	if getBoolWithFallback("verbose", "verbose", false) {
		if log, err := zap.NewDevelopment(); err == nil {
			return log
		}
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
