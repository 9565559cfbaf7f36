package freestyle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/freestyle/internal/parser"
	"github.com/yacobolo/freestyle/internal/report"
	"github.com/yacobolo/freestyle/internal/styler"
	"github.com/yacobolo/freestyle/internal/stylesheet"
)

const maxTopProperties = 20

// Check reports syntax errors, unknown properties and values that do not
// convert for their property. Every declaration is applied to a scratch
// context, so the check sees exactly what the engine would reject.
func Check(cfg Config, sheets []*stylesheet.Stylesheet, scan ScanStats) *report.Result {
	return CheckWith(cfg, sheets, scan, styler.DefaultRegistry())
}

// CheckWith is Check against a custom registry.
func CheckWith(cfg Config, sheets []*stylesheet.Stylesheet, scan ScanStats, registry *styler.Registry) *report.Result {
	log := cfg.logger().Named("check")
	units := cfg.Units()
	result := &report.Result{Warnings: scan.Warnings}
	counts := make(map[string]int)
	supported := 0

	for _, sheet := range sheets {
		lines := strings.Split(sheet.Source(), "\n")
		issueAt := func(linter, severity, text string, offset int) report.Issue {
			line, col := sheet.Position(offset)
			issue := report.Issue{
				FromLinter: linter,
				Text:       text,
				Severity:   severity,
				Pos:        report.IssuePos{Filename: sheet.Name, Line: line, Column: col},
			}
			if line >= 1 && line <= len(lines) {
				issue.SourceLines = []string{strings.TrimRight(lines[line-1], "\r")}
			}
			return issue
		}

		// Step 1: syntax errors recorded while parsing
		for _, err := range sheet.Errors {
			text, offset := err.Error(), 0
			var pe *parser.ParseError
			if errors.As(err, &pe) {
				text, offset = pe.Message, pe.Offset
			}
			result.Issues = append(result.Issues, issueAt(report.LinterSyntax, report.SeverityError, text, offset))
			result.Stats.SyntaxErrors++
		}

		// Step 2: properties and values
		result.Stats.Rules += len(sheet.Rules)
		for _, d := range sheet.Declarations() {
			result.Stats.Declarations++
			counts[d.Name]++

			handler, _, ok := registry.Lookup(d.Name)
			if !ok {
				result.Issues = append(result.Issues, issueAt(report.LinterProperty, report.SeverityWarning,
					fmt.Sprintf(report.IssueUnknownProperty, d.Name), d.Offset))
				result.Stats.UnknownProperties++
				continue
			}
			supported++

			scratch := styler.NewContext(cfg.DefaultState, units)
			if err := handler(d, scratch); err != nil {
				msg, offset := err.Error(), d.Offset
				var pe *parser.ParseError
				if errors.As(err, &pe) {
					msg, offset = pe.Message, pe.Offset
				}
				result.Issues = append(result.Issues, issueAt(report.LinterValue, report.SeverityError,
					fmt.Sprintf(report.IssueInvalidValue, d.Name, msg), offset))
				result.Stats.InvalidValues++
			}
		}
	}

	// Step 3: statistics
	result.Stats.FilesScanned = len(sheets)
	result.Stats.Properties = len(counts)
	if result.Stats.Declarations > 0 {
		result.Stats.Coverage = float64(supported) / float64(result.Stats.Declarations) * 100
	}
	result.Stats.TopProperties = topProperties(counts, registry)

	// Step 4: ordering and limits
	report.SortIssues(result.Issues)
	result.Issues, result.TruncatedCount = report.Limit(result.Issues, cfg.MaxIssuesPerLinter, cfg.MaxSameIssues)

	log.Debug("checked stylesheets",
		zap.Int("sheets", len(sheets)),
		zap.Int("issues", len(result.Issues)),
		zap.Int("truncated", result.TruncatedCount))
	return result
}

func topProperties(counts map[string]int, registry *styler.Registry) []report.PropertyCount {
	out := make([]report.PropertyCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, report.PropertyCount{Name: name, Count: n, Supported: registry.Supports(name)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxTopProperties {
		out = out[:maxTopProperties]
	}
	return out
}
