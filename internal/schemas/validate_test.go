package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequirements(t *testing.T) {
	tests := []struct {
		name      string
		jsonText  string
		wantError bool
	}{
		{
			name: "structured skills",
			jsonText: `{
				"skills": [{"name": "Python", "level": "senior"}],
				"domains": [{"name": "Backend"}],
				"keywords": [{"term": "REST"}],
				"requirements_summary": "Backend role"
			}`,
			wantError: false,
		},
		{
			name:      "plain string lists are allowed",
			jsonText:  `{"skills": ["Python", "SQL"], "domains": ["Backend"], "keywords": ["REST"]}`,
			wantError: false,
		},
		{
			name:      "empty object",
			jsonText:  `{}`,
			wantError: false,
		},
		{
			name:      "skills not an array",
			jsonText:  `{"skills": "Python"}`,
			wantError: true,
		},
		{
			name:      "top level array",
			jsonText:  `["Python"]`,
			wantError: true,
		},
		{
			name:      "not JSON at all",
			jsonText:  `here are the skills you asked for`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequirements(tt.jsonText)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorFieldPaths(t *testing.T) {
	err := ValidateRequirements(`{"skills": 42}`)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "skills")
}
