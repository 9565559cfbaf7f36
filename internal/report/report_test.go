package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColors(t *testing.T) {
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")
}

func sampleResult() *Result {
	return &Result{
		Issues: []Issue{
			{
				FromLinter:  LinterProperty,
				Text:        `unknown property "margin"`,
				Severity:    SeverityWarning,
				SourceLines: []string{"\tmargin: 4px;"},
				Pos:         IssuePos{Filename: "b.css", Line: 3, Column: 2},
			},
			{
				FromLinter: LinterSyntax,
				Text:       `missing value for property "color"`,
				Severity:   SeverityError,
				Pos:        IssuePos{Filename: "a.css", Line: 1, Column: 7},
			},
		},
		Stats: Stats{
			FilesScanned: 2,
			Rules:        4,
			Declarations: 10,
			Properties:   5,
			Coverage:     90,
			TopProperties: []PropertyCount{
				{Name: "color", Count: 4, Supported: true},
				{Name: "margin", Count: 1},
			},
		},
		Warnings: []string{"skipped ignored.css"},
	}
}

func TestBuildCaretIndicator(t *testing.T) {
	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{"spaces only", "  color: red;", 5, "    ^"},
		{"tabs and spaces", "\t\tcolor: red;", 5, "\t\t  ^"},
		{"start of line", "color: red;", 1, "^"},
		{"column 0 fallback", "some line", 0, "^"},
		{"column beyond line length", "short", 100, "     ^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, buildCaretIndicator(tt.sourceLine, tt.column))
		})
	}
}

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		flag  string
		quiet bool
		want  OutputFormat
	}{
		{"", false, OutputIssues},
		{"issues", false, OutputIssues},
		{"summary", false, OutputSummary},
		{"full", false, OutputFull},
		{"json", false, OutputJSON},
		{"markdown", false, OutputMarkdown},
		{"md", false, OutputMarkdown},
		{"bogus", false, OutputIssues},
		{"full", true, OutputIssues},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetermineOutputFormat(tt.flag, tt.quiet), "flag %q quiet %v", tt.flag, tt.quiet)
	}
}

func TestPrintIssues(t *testing.T) {
	noColors(t)
	var buf bytes.Buffer
	result := sampleResult()
	require.NoError(t, Write(&buf, result, OutputIssues, Options{PrintIssuedLines: true, PrintLinterName: true}))

	want := "a.css:1:7: error: missing value for property \"color\" (syntax)\n" +
		"b.css:3:2: unknown property \"margin\" (property)\n" +
		"\t\tmargin: 4px;\n" +
		"\t\t^\n" +
		"\n" +
		"2 issues (1 error, 1 warning):\n" +
		"* property: 1\n" +
		"* syntax: 1\n" +
		"\n" +
		"Hint: Run with --output-format full to see statistics\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummaryWithoutIssues(t *testing.T) {
	noColors(t)
	var buf bytes.Buffer
	NewReporter(&buf, Options{}).PrintSummary(Result{})
	assert.Equal(t, "\n0 issues:\n", buf.String())

	buf.Reset()
	NewReporter(&buf, Options{}).PrintSummary(Result{
		Issues:         []Issue{{FromLinter: LinterValue, Severity: SeverityWarning}},
		TruncatedCount: 3,
	})
	assert.Contains(t, buf.String(), "1 issue (3 issues truncated):")
}

func TestLimit(t *testing.T) {
	issues := []Issue{
		{FromLinter: "a", Text: "x"},
		{FromLinter: "a", Text: "x"},
		{FromLinter: "a", Text: "y"},
		{FromLinter: "b", Text: "x"},
	}
	kept, dropped := Limit(issues, 0, 0)
	assert.Len(t, kept, 4)
	assert.Zero(t, dropped)

	kept, dropped = Limit(issues, 2, 0)
	assert.Len(t, kept, 3)
	assert.Equal(t, 1, dropped)

	kept, dropped = Limit(issues, 0, 1)
	assert.Equal(t, []Issue{{FromLinter: "a", Text: "x"}, {FromLinter: "a", Text: "y"}}, kept)
	assert.Equal(t, 2, dropped)
}

func TestWriteSummaryAndFull(t *testing.T) {
	noColors(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult(), OutputSummary, Options{}))
	out := buf.String()
	assert.Contains(t, out, "Stylesheet Statistics")
	assert.Contains(t, out, "Declarations:        10")
	assert.Contains(t, out, "[██████████████████░░] 90.0%")
	assert.Contains(t, out, "2. margin - 1 declarations (unsupported)")
	assert.Contains(t, out, "• skipped ignored.css")
	assert.NotContains(t, out, "a.css:1:7")

	buf.Reset()
	require.NoError(t, Write(&buf, sampleResult(), OutputFull, Options{}))
	assert.Contains(t, buf.String(), "a.css:1:7")
	assert.Contains(t, buf.String(), "Stylesheet Statistics")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, JSONSummary{TotalIssues: 2, Errors: 1, Warnings: 1, FilesScanned: 2}, out.Summary)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, "\tmargin: 4px;", out.Issues[0].Source)
	assert.Equal(t, 90.0, out.Stats.Coverage)
	assert.Equal(t, []string{"skipped ignored.css"}, out.Warnings)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleResult()))
	md := buf.String()

	assert.Contains(t, md, "# Stylesheet Check Report")
	assert.Contains(t, md, "| **Total Issues** | 2 (1 errors, 1 warnings) |")
	assert.Contains(t, md, "## Errors")
	assert.Contains(t, md, "| `a.css:1:7` | syntax |")
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "| `margin` | 1 | no |")
	assert.Contains(t, md, "- skipped ignored.css")

	buf.Reset()
	require.NoError(t, WriteMarkdown(&buf, &Result{}))
	assert.NotContains(t, buf.String(), "## Errors")
}
