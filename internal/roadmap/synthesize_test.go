package roadmap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanngo/preppath/internal/llm"
)

func TestSynthesize(t *testing.T) {
	client := &llm.FakeClient{
		Responses: map[string]string{
			`"Go concurrency"`: "## Go concurrency\n\nGoroutines and channels.\n\nReferences:\n- [Go Blog](https://go.dev/blog/pipelines)",
			`"SQL"`:            "## SQL\n\nJoins and indexes.",
		},
	}

	items := Synthesize(context.Background(), client, []string{"Go concurrency", "SQL"}, nil, "en")
	require.Len(t, items, 2)

	assert.Equal(t, "Go concurrency", items[0].Area)
	assert.Contains(t, items[0].Content, "Goroutines")
	require.Len(t, items[0].References, 1)
	assert.Equal(t, "Go Blog", items[0].References[0].Title)

	assert.Equal(t, "SQL", items[1].Area)
	assert.Empty(t, items[1].References)
}

func TestSynthesizeCapsAreas(t *testing.T) {
	client := &llm.FakeClient{DefaultResponse: "note"}
	areaList := make([]string, 15)
	for i := range areaList {
		areaList[i] = "Area " + strings.Repeat("x", i+1)
	}

	items := Synthesize(context.Background(), client, areaList, nil, "en")
	assert.Len(t, items, MaxAreas)
}

func TestSynthesizeDegradedBackendProducesPlaceholders(t *testing.T) {
	items := Synthesize(context.Background(), llm.Unavailable(), []string{"Kafka"}, nil, "en")
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Content, "Kafka")
	assert.NotEmpty(t, items[0].Content)
}

func TestSynthesizeNoAreas(t *testing.T) {
	assert.Nil(t, Synthesize(context.Background(), llm.Unavailable(), nil, nil, "en"))
}
