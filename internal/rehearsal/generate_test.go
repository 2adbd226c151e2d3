package rehearsal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/types"
)

func TestGenerate(t *testing.T) {
	client := &llm.FakeClient{
		DefaultResponse: `["Tell me about a hard bug you fixed.", "How would you scale a payment API?", "  ", "Why this company?"]`,
	}

	questions := Generate(context.Background(), client, nil, []string{"Payments"}, nil, 10, "en")
	require.Len(t, questions, 3)
	assert.Equal(t, "Tell me about a hard bug you fixed.", questions[0].Text)
	assert.NotEmpty(t, questions[0].ID)
	assert.NotEqual(t, questions[0].ID, questions[1].ID)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Payments")
}

func TestGenerateHonorsLimit(t *testing.T) {
	client := &llm.FakeClient{DefaultResponse: `["a", "b", "c", "d"]`}

	questions := Generate(context.Background(), client, nil, nil, nil, 2, "en")
	assert.Len(t, questions, 2)
}

func TestGenerateDefaultLimit(t *testing.T) {
	client := &llm.FakeClient{DefaultResponse: `["a"]`}

	_ = Generate(context.Background(), client, nil, nil, nil, 0, "en")
	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Generate 10 open-ended")
}

func TestGenerateDegradedBackend(t *testing.T) {
	questions := Generate(context.Background(), llm.Unavailable(), nil, nil, nil, 5, "en")
	assert.Empty(t, questions)
}

func TestGenerateNonArrayResponse(t *testing.T) {
	client := &llm.FakeClient{DefaultResponse: "no list here"}
	questions := Generate(context.Background(), client, nil, nil, nil, 5, "en")
	assert.Empty(t, questions)
}

func TestGenerateIncludesProfile(t *testing.T) {
	client := &llm.FakeClient{DefaultResponse: `["q"]`}
	profile := &types.CandidateProfile{Role: "Data Engineer", ExperienceYears: 4}

	_ = Generate(context.Background(), client, nil, nil, profile, 5, "en")
	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Role: Data Engineer")
}
