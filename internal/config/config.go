// Package config provides environment-based configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// App holds the runtime configuration read from the environment.
type App struct {
	DatabaseURL   string
	GeminiAPIKey  string
	JWTSecret     string
	QuestionLimit int
}

// Load reads configuration from environment variables. DATABASE_URL and
// JWT_SECRET are required; GEMINI_API_KEY may be empty, in which case
// generation-backed features run on their fallbacks.
func Load() (*App, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	limit := 10
	if raw := os.Getenv("MEMORY_SCAN_QUESTION_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid MEMORY_SCAN_QUESTION_LIMIT: %q", raw)
		}
		limit = parsed
	}

	return &App{
		DatabaseURL:   databaseURL,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		JWTSecret:     jwtSecret,
		QuestionLimit: limit,
	}, nil
}
