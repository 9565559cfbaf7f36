package report

import (
	"fmt"
	"io"
	"strings"
)

// VerboseReporter prints statistics about the checked stylesheets.
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter.
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{w: w, useColors: useColors}
}

// PrintStatistics prints the stylesheet counters.
func (r *VerboseReporter) PrintStatistics(result Result) {
	s := result.Stats
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Stylesheet Statistics", r.useColors))
	fmt.Fprintln(r.w, "---------------------")

	fmt.Fprintf(r.w, "Files Scanned:       %d\n", s.FilesScanned)
	fmt.Fprintf(r.w, "Rules:               %d\n", s.Rules)
	fmt.Fprintf(r.w, "Declarations:        %d\n", s.Declarations)
	fmt.Fprintf(r.w, "Distinct Properties: %d\n", s.Properties)
	fmt.Fprintf(r.w, "Unknown Properties:  %d\n", s.UnknownProperties)
	fmt.Fprintf(r.w, "Invalid Values:      %d\n", s.InvalidValues)
	fmt.Fprintf(r.w, "Syntax Errors:       %d\n", s.SyntaxErrors)
}

// PrintCoverage prints the share of declarations a styler handles.
func (r *VerboseReporter) PrintCoverage(result Result) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Property Coverage", r.useColors))
	fmt.Fprintln(r.w, "-----------------")
	fmt.Fprintln(r.w, progressBar(result.Stats.Coverage))
}

// PrintTopProperties lists the most declared properties.
func (r *VerboseReporter) PrintTopProperties(result Result) {
	top := result.Stats.TopProperties
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Most Declared Properties", r.useColors))
	fmt.Fprintln(r.w, "------------------------")
	for i, p := range top {
		if i >= 10 {
			break
		}
		mark := ""
		if !p.Supported {
			mark = RenderStyle(StyleYellow, " (unsupported)", r.useColors)
		}
		fmt.Fprintf(r.w, "%d. %s - %d declarations%s\n", i+1, p.Name, p.Count, mark)
	}
}

// PrintWarnings prints loader warnings.
func (r *VerboseReporter) PrintWarnings(result Result) {
	if len(result.Warnings) == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")
	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// progressBar renders a 20 cell bar for a percentage.
func progressBar(percentage float64) string {
	const width = 20
	filled := int(percentage / 100 * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %.1f%%", percentage)
}
