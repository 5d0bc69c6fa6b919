package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			"fenced object with surrounding prose",
			"blah blah ```json {\"a\":1,\"b\":[1,2,{\"c\":3}]} ``` trailing text",
			`{"a":1,"b":[1,2,{"c":3}]}`,
		},
		{
			"bare object",
			`{"x": 1}`,
			`{"x": 1}`,
		},
		{
			"prose before array",
			`here you go: [1, [2, 3]] done`,
			`[1, [2, 3]]`,
		},
		{
			"unclosed object returns remainder",
			`note {"a": 1`,
			`{"a": 1`,
		},
		{
			"no json at all",
			"  just words  ",
			"just words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONBlock(tt.in))
		})
	}
}

func TestParseModelOutput(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		out, err := parseModelOutput(`{"summary":"fine","insights":["a -> b"]}`)
		require.NoError(t, err)
		assert.Equal(t, "fine", out.Summary)
		assert.Equal(t, []string{"a -> b"}, out.Insights)
	})

	t.Run("repairs fenced output", func(t *testing.T) {
		out, err := parseModelOutput("Sure! ```json\n{\"summary\":\"ok\",\"salesForecast\":{\"expectedMonthly\":2000000,\"breakEvenMonthly\":1500000}}\n``` hope that helps")
		require.NoError(t, err)
		assert.Equal(t, "ok", out.Summary)
		assert.Equal(t, int64(2_000_000), out.SalesForecast.ExpectedMonthly)
	})

	t.Run("unrepairable output errors", func(t *testing.T) {
		_, err := parseModelOutput("I could not produce the analysis")
		assert.Error(t, err)
	})
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t,
		"fit score is strong per the context",
		sanitizeText("fit score audience_fit.score is strong per the context (local_signals.university)"),
	)
	assert.Equal(t, "plain text", sanitizeText("  plain   text "))
}
