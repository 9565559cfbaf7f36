package freestyle

import (
	"io"
	"os"

	"github.com/yacobolo/freestyle/internal/report"
)

// Re-exported diagnostics types.
type (
	Issue        = report.Issue
	IssuePos     = report.IssuePos
	Result       = report.Result
	OutputFormat = report.OutputFormat
)

// Output formats.
const (
	OutputIssues   = report.OutputIssues
	OutputSummary  = report.OutputSummary
	OutputFull     = report.OutputFull
	OutputJSON     = report.OutputJSON
	OutputMarkdown = report.OutputMarkdown
)

// DetermineOutputFormat selects the output format from flags. Quiet mode
// forces issues only.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	return report.DetermineOutputFormat(formatFlag, quiet)
}

// WriteOutput writes a check result in the specified format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat, cfg Config) error {
	// Progress note on stderr so structured output stays clean.
	if result.Stats.FilesScanned > 50 && format != OutputJSON && format != OutputMarkdown {
		os.Stderr.WriteString("🔍 Checking complete\n")
	}
	return report.Write(w, result, format, report.Options{
		UseColors:        cfg.UseColors,
		PrintIssuedLines: cfg.PrintIssuedLines,
		PrintLinterName:  cfg.PrintLinterName,
	})
}
