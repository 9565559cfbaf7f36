// Package report formats stylesheet diagnostics for terminals, CI logs and
// tooling.
package report

import "sort"

// Issue is a single diagnostic in golangci-lint format.
type Issue struct {
	FromLinter  string   `json:"FromLinter"`
	Text        string   `json:"Text"`
	Severity    string   `json:"Severity"`
	SourceLines []string `json:"SourceLines"`
	Pos         IssuePos `json:"Pos"`
}

// IssuePos is a 1-based file location.
type IssuePos struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
}

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Checks that produce issues.
const (
	// LinterSyntax reports lexing and parsing errors.
	LinterSyntax = "syntax"
	// LinterValue reports values that do not convert for their property.
	LinterValue = "value"
	// LinterProperty reports properties no styler handles.
	LinterProperty = "property"
)

// Issue message formats.
const (
	IssueUnknownProperty = "unknown property %q"
	IssueInvalidValue    = "invalid value for %q: %s"
)

// SortIssues orders issues by file, line and column.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].Pos, issues[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Limit caps issues per linter and repeats of the same message. Zero means
// unlimited. It returns the kept issues and how many were dropped.
func Limit(issues []Issue, maxPerLinter, maxSame int) ([]Issue, int) {
	perLinter := make(map[string]int)
	perText := make(map[string]int)
	var kept []Issue
	for _, issue := range issues {
		if maxPerLinter > 0 && perLinter[issue.FromLinter] >= maxPerLinter {
			continue
		}
		if maxSame > 0 && perText[issue.Text] >= maxSame {
			continue
		}
		perLinter[issue.FromLinter]++
		perText[issue.Text]++
		kept = append(kept, issue)
	}
	return kept, len(issues) - len(kept)
}

// Result is the outcome of checking a set of stylesheets.
type Result struct {
	Issues         []Issue
	TruncatedCount int
	Stats          Stats
	Warnings       []string
}

// Stats summarise the checked stylesheets.
type Stats struct {
	FilesScanned      int
	Rules             int
	Declarations      int
	Properties        int
	UnknownProperties int
	InvalidValues     int
	SyntaxErrors      int
	// Coverage is the percentage of declarations whose property has a
	// styler.
	Coverage      float64
	TopProperties []PropertyCount
}

// PropertyCount is how often a property is declared.
type PropertyCount struct {
	Name      string
	Count     int
	Supported bool
}

// Counts returns the number of error and warning issues.
func (r *Result) Counts() (errors, warnings int) {
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
