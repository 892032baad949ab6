package roadmap

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseStrictJSON(t *testing.T) {
	content := `{"summary": "Healthy business", "tasks": [{"title": "Restock widgets", "description": "Order 50 units", "priority": "high", "category": "inventory", "estimated_impact": "High", "action_items": ["Contact supplier"]}], "insights": ["Widgets drive revenue"]}`

	r, degraded := parseResponse(content)

	assert.False(t, degraded)
	assert.Equal(t, "Healthy business", r.Summary)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "Restock widgets", r.Tasks[0].Title)
	assert.Equal(t, "high", r.Tasks[0].Priority)
	assert.Equal(t, []string{"Contact supplier"}, r.Tasks[0].ActionItems)
	assert.Equal(t, []string{"Widgets drive revenue"}, r.Insights)
}

func TestParseResponseFencedBlock(t *testing.T) {
	content := "Here is your roadmap:\n```json\n{\"summary\": \"From fence\", \"tasks\": [], \"insights\": []}\n```\nLet me know if you need more."

	r, degraded := parseResponse(content)

	assert.False(t, degraded)
	assert.Equal(t, "From fence", r.Summary, "must parse only the fenced contents, ignoring prose")
}

func TestParseResponseBareFence(t *testing.T) {
	content := "```\n{\"summary\": \"No language tag\", \"tasks\": [], \"insights\": []}\n```"

	r, degraded := parseResponse(content)

	assert.False(t, degraded)
	assert.Equal(t, "No language tag", r.Summary)
}

func TestParseResponseUnparseableFallsBack(t *testing.T) {
	content := "I think you should focus on restocking your best sellers and running a promotion."

	r, degraded := parseResponse(content)

	assert.True(t, degraded)
	assert.Equal(t, content, r.Summary)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "Review AI Recommendations", r.Tasks[0].Title)
	assert.Equal(t, content, r.Tasks[0].Description)
	assert.Equal(t, "medium", r.Tasks[0].Priority)
	require.Len(t, r.Insights, 1)
	assert.Equal(t, content, r.Insights[0])
}

func TestParseResponseFallbackTruncation(t *testing.T) {
	content := strings.Repeat("x", 2000)

	r, degraded := parseResponse(content)

	assert.True(t, degraded)
	assert.Len(t, r.Summary, 500)
	require.Len(t, r.Insights, 1)
	assert.Len(t, r.Insights[0], 200)
	// Description carries the full raw text.
	assert.Len(t, r.Tasks[0].Description, 2000)
}

func TestParseResponseFallbackTruncationIsRuneAware(t *testing.T) {
	// The byte length exceeds both limits while the rune counts sit
	// right at the boundary, so a byte-based cut would split a rune.
	content := strings.Repeat("x", 499) + strings.Repeat("é", 200)

	r, degraded := parseResponse(content)

	assert.True(t, degraded)
	assert.True(t, utf8.ValidString(r.Summary))
	assert.Equal(t, 500, utf8.RuneCountInString(r.Summary))
	require.Len(t, r.Insights, 1)
	assert.True(t, utf8.ValidString(r.Insights[0]))
	assert.Equal(t, 200, utf8.RuneCountInString(r.Insights[0]))
}

func TestParseResponseMalformedFencedJSONFallsBack(t *testing.T) {
	content := "```json\n{\"summary\": \"broken\",\n```"

	_, degraded := parseResponse(content)
	assert.True(t, degraded)
}

func TestParseResponseEmptyInput(t *testing.T) {
	r, degraded := parseResponse("")
	assert.True(t, degraded)
	assert.Empty(t, r.Summary)
	assert.Len(t, r.Tasks, 1)
}
