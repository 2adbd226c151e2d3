package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/preppath")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("MEMORY_SCAN_QUESTION_LIMIT", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/preppath", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, 15, cfg.QuestionLimit)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/preppath")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MEMORY_SCAN_QUESTION_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, 10, cfg.QuestionLimit)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/preppath")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalidLimit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/preppath")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MEMORY_SCAN_QUESTION_LIMIT", "zero")

	_, err := Load()
	assert.Error(t, err)
}
