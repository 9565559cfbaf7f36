package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// OutputFormat selects how a Result is written.
type OutputFormat string

const (
	// OutputIssues prints issues in golangci-lint format (CI friendly).
	OutputIssues OutputFormat = "issues"
	// OutputSummary prints statistics only.
	OutputSummary OutputFormat = "summary"
	// OutputFull prints issues and statistics.
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data.
	OutputJSON OutputFormat = "json"
	// OutputMarkdown writes a shareable report.
	OutputMarkdown OutputFormat = "markdown"
)

// DetermineOutputFormat maps a format flag to an OutputFormat. Quiet mode
// and unknown names fall back to OutputIssues.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputIssues
	}
	switch formatFlag {
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	case "markdown", "md":
		return OutputMarkdown
	}
	return OutputIssues
}

// Write writes result to w in format.
func Write(w io.Writer, result *Result, format OutputFormat, opts Options) error {
	switch format {
	case OutputSummary:
		v := NewVerboseReporter(w, ShouldUseColors(opts.UseColors))
		v.PrintStatistics(*result)
		v.PrintCoverage(*result)
		v.PrintTopProperties(*result)
		v.PrintWarnings(*result)
	case OutputFull:
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
		v := NewVerboseReporter(w, reporter.UseColors())
		v.PrintStatistics(*result)
		v.PrintCoverage(*result)
		v.PrintTopProperties(*result)
		v.PrintWarnings(*result)
	case OutputJSON:
		return WriteJSON(w, result)
	case OutputMarkdown:
		return WriteMarkdown(w, result)
	default:
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
	}
	return nil
}

// JSONOutput is the JSON export schema.
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Stats     JSONStats   `json:"stats"`
	Issues    []JSONIssue `json:"issues"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// JSONSummary holds issue counts.
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
}

// JSONStats holds stylesheet statistics.
type JSONStats struct {
	Rules             int                `json:"rules"`
	Declarations      int                `json:"declarations"`
	Properties        int                `json:"properties"`
	UnknownProperties int                `json:"unknown_properties"`
	InvalidValues     int                `json:"invalid_values"`
	SyntaxErrors      int                `json:"syntax_errors"`
	Coverage          float64            `json:"coverage"`
	TopProperties     []JSONPropertyStat `json:"top_properties"`
}

// JSONPropertyStat is one entry of the property ranking.
type JSONPropertyStat struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Supported bool   `json:"supported"`
}

// JSONIssue is one issue.
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"`
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(buildJSONOutput(result)); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

func buildJSONOutput(result *Result) JSONOutput {
	errors, warnings := result.Counts()

	issues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		issues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	s := result.Stats
	top := make([]JSONPropertyStat, len(s.TopProperties))
	for i, p := range s.TopProperties {
		top[i] = JSONPropertyStat{Name: p.Name, Count: p.Count, Supported: p.Supported}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			Truncated:    result.TruncatedCount,
			FilesScanned: s.FilesScanned,
		},
		Stats: JSONStats{
			Rules:             s.Rules,
			Declarations:      s.Declarations,
			Properties:        s.Properties,
			UnknownProperties: s.UnknownProperties,
			InvalidValues:     s.InvalidValues,
			SyntaxErrors:      s.SyntaxErrors,
			Coverage:          s.Coverage,
			TopProperties:     top,
		},
		Issues:   issues,
		Warnings: result.Warnings,
	}
}
