package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPrompts(t *testing.T) {
	tests := []struct {
		filename string
		key      string
		contains string
	}{
		{"analysis.json", "extract-requirements", "profile_fit"},
		{"analysis.json", "isolate-job-content", "job posting body"},
		{"areas.json", "derive-areas", "3 to 8 knowledge areas"},
		{"areas.json", "derive-areas-from-results", "answered Wrong"},
		{"scan.json", "generate-questions", "knowledge_area"},
		{"scan.json", "improvement-report", "diagnostic signal"},
		{"roadmap.json", "learning-note", "[Title](URL)"},
		{"rehearsal.json", "generate-questions", "open-ended"},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.key, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.contains)
		})
	}
}

func TestGetMissing(t *testing.T) {
	_, err := Get("analysis.json", "no-such-key")
	assert.Error(t, err)

	_, err = Get("missing.json", "extract-requirements")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	template := "Topic: {{.Area}}. Context: {{.Context}}."
	result := Format(template, map[string]string{
		"Area":    "SQL optimization",
		"Context": "backend role",
	})
	assert.Equal(t, "Topic: SQL optimization. Context: backend role.", result)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "x"})
	assert.Equal(t, "x {{.Unknown}}", result)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("analysis.json", "bogus") })
}

func TestLanguageInstruction(t *testing.T) {
	assert.Equal(t, "Write all output in Vietnamese.", LanguageInstruction("vi"))
	assert.Equal(t, "Write all output in Vietnamese.", LanguageInstruction(" VI "))
	assert.Equal(t, "Write all output in English.", LanguageInstruction("en"))
	assert.Equal(t, "Write all output in English.", LanguageInstruction(""))
	assert.Equal(t, "Write all output in English.", LanguageInstruction("fr"))
}

func TestListAndClearCache(t *testing.T) {
	ClearCache()
	keys, err := List("areas.json")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "derive-areas"))
	}
}
