package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes result as a Markdown report.
func WriteMarkdown(w io.Writer, result *Result) error {
	bw := bufio.NewWriter(w)
	errors, warnings := result.Counts()
	s := result.Stats

	fmt.Fprintln(bw, "# Stylesheet Check Report")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "## Executive Summary")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "| Metric | Value |")
	fmt.Fprintln(bw, "|--------|-------|")
	fmt.Fprintf(bw, "| **Total Issues** | %d (%d errors, %d warnings) |\n", len(result.Issues), errors, warnings)
	fmt.Fprintf(bw, "| **Files Scanned** | %d |\n", s.FilesScanned)
	fmt.Fprintf(bw, "| **Rules** | %d |\n", s.Rules)
	fmt.Fprintf(bw, "| **Declarations** | %d |\n", s.Declarations)
	fmt.Fprintf(bw, "| **Property Coverage** | %.1f%% |\n", s.Coverage)

	if errors > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Errors")
		fmt.Fprintln(bw)
		writeIssueTable(bw, result.Issues, SeverityError)
	}
	if warnings > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Warnings")
		fmt.Fprintln(bw)
		writeIssueTable(bw, result.Issues, SeverityWarning)
	}

	if len(s.TopProperties) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Most Declared Properties")
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "| Property | Declarations | Supported |")
		fmt.Fprintln(bw, "|----------|--------------|-----------|")
		for _, p := range s.TopProperties {
			supported := "yes"
			if !p.Supported {
				supported = "no"
			}
			fmt.Fprintf(bw, "| `%s` | %d | %s |\n", p.Name, p.Count, supported)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Loader Warnings")
		fmt.Fprintln(bw)
		for _, warning := range result.Warnings {
			fmt.Fprintf(bw, "- %s\n", warning)
		}
	}
	return bw.Flush()
}

func writeIssueTable(w io.Writer, issues []Issue, severity string) {
	fmt.Fprintln(w, "| Location | Check | Message |")
	fmt.Fprintln(w, "|----------|-------|---------|")
	for _, issue := range issues {
		if issue.Severity != severity {
			continue
		}
		fmt.Fprintf(w, "| `%s:%d:%d` | %s | %s |\n",
			issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column,
			issue.FromLinter, strings.ReplaceAll(issue.Text, "|", `\|`))
	}
}
