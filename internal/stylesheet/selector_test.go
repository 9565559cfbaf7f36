package stylesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		specificity Specificity
	}{
		{"button", "button", Specificity{0, 0, 1}},
		{"*", "*", Specificity{}},
		{"#ok", "#ok", Specificity{1, 0, 0}},
		{".btn.primary", ".btn.primary", Specificity{0, 2, 0}},
		{"Button#ok.primary", "button#ok.primary", Specificity{1, 1, 1}},
		{"list > item", "list > item", Specificity{0, 0, 2}},
		{"list   item", "list item", Specificity{0, 0, 2}},
		{"a+b", "a + b", Specificity{0, 0, 2}},
		{"a ~ b", "a ~ b", Specificity{0, 0, 2}},
		{".btn:pressed", ".btn:pressed", Specificity{0, 2, 0}},
		{"item:first-child", "item:first-child", Specificity{0, 1, 1}},
		{"item:nth-child(2n+1)", "item:nth-child(2n+1)", Specificity{0, 1, 1}},
		{"item:nth-last-child(-n + 3)", "item:nth-last-child(-1n+3)", Specificity{0, 1, 1}},
		{"item:not(#x)", "item:not(#x)", Specificity{1, 0, 1}},
		{"[checked]", "[checked]", Specificity{0, 1, 0}},
		{"[lang|=en]", `[lang|="en"]`, Specificity{0, 1, 0}},
		{`a[href^="http"]`, `a[href^="http"]`, Specificity{0, 1, 1}},
		{"#button icon:checked", "#button icon:checked", Specificity{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel.String())
			assert.Equal(t, tt.specificity, sel.Specificity())
		})
	}
}

func TestParseSelectorErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"a >",
		"a::before",
		"a:lang(en)",
		"a:nth-child(x)",
		"a:nth-child",
		"a:not(:pressed)",
		"a:not(.b .c)",
		"a[",
		"a[x=]",
		"a.",
		"> a",
		"a @ b",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSelector(input)
			assert.Error(t, err)
		})
	}
}

func TestSpecificityCompare(t *testing.T) {
	assert.Equal(t, 1, Specificity{1, 0, 0}.Compare(Specificity{0, 9, 9}))
	assert.Equal(t, -1, Specificity{0, 1, 0}.Compare(Specificity{0, 1, 1}))
	assert.Equal(t, 0, Specificity{0, 1, 1}.Compare(Specificity{0, 1, 1}))
	assert.Equal(t, "(1,2,3)", Specificity{1, 2, 3}.String())
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		input    string
		expected Nth
		matches  []int
		misses   []int
	}{
		{"odd", Nth{2, 1}, []int{1, 3, 5}, []int{2, 4}},
		{"even", Nth{2, 0}, []int{2, 4}, []int{1, 3}},
		{"3", Nth{0, 3}, []int{3}, []int{1, 2, 4}},
		{"n", Nth{1, 0}, []int{1, 2, 3}, nil},
		{"-n+3", Nth{-1, 3}, []int{1, 2, 3}, []int{4}},
		{"3n-1", Nth{3, -1}, []int{2, 5}, []int{1, 3, 4}},
		{" 2n + 5 ", Nth{2, 5}, []int{5, 7}, []int{1, 3, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			nth, err := ParseNth(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nth)
			for _, pos := range tt.matches {
				assert.True(t, nth.Matches(pos), "position %d", pos)
			}
			for _, pos := range tt.misses {
				assert.False(t, nth.Matches(pos), "position %d", pos)
			}
		})
	}

	for _, bad := range []string{"", "x", "2n+", "n3", "2x+1"} {
		_, err := ParseNth(bad)
		assert.Error(t, err, bad)
	}
}
