package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/freestyle"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

var checkCmd = &cobra.Command{
	Use:     "check [files...]",
	Aliases: []string{"lint"},
	Short:   "Report syntax errors, unknown properties and invalid values",
	Long: `Parse stylesheets and apply every declaration to a scratch style.
Without arguments the stylesheets under --source matching --include are checked.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		code, err := runCheck(os.Stdout, args)
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	f := checkCmd.Flags()
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.Int("max-issues-per-linter", 0, "Max issues to show per check (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show the (check) suffix on issues")
}

// loadSheets loads the named files, or the configured source directory
// when none are given.
func loadSheets(config freestyle.Config, files []string) ([]*stylesheet.Stylesheet, freestyle.ScanStats, error) {
	if len(files) > 0 {
		return freestyle.LoadFiles(files, config)
	}
	return freestyle.LoadStylesheets(config)
}

// runCheck checks stylesheets and returns the process exit code.
func runCheck(w io.Writer, files []string) (int, error) {
	config := buildConfig()
	config.Logger = newLogger()
	defer config.Logger.Sync() //nolint:errcheck

	sheets, stats, err := loadSheets(config, files)
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}
	result := freestyle.Check(config, sheets, stats)

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "check.output-format", "")
	format := freestyle.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		if err := freestyle.WriteOutput(w, result, format, config); err != nil {
			return 0, err
		}
	}

	// Exit code logic - "Soft Gate" approach
	errors, _ := result.Counts()
	if getBoolWithFallback("strict", "check.strict", false) {
		// Strict mode: any issue (error or warning) fails the build
		if len(result.Issues) > 0 {
			return 1, nil
		}
	} else if errors > 0 {
		// Default "Soft Gate" mode: only errors fail the build
		return 1, nil
	}
	return 0, nil
}
