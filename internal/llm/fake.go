package llm

import (
	"context"
	"strings"
	"sync"
)

// FakeClient is a deterministic in-memory Client for tests. Responses are
// matched by substring against the prompt; unmatched prompts fall back to
// DefaultResponse or Err.
type FakeClient struct {
	mu sync.Mutex

	// Responses maps a prompt substring to the canned response.
	Responses map[string]string
	// DefaultResponse is returned when no substring matches.
	DefaultResponse string
	// Err, when set, is returned from every call.
	Err error

	// Prompts records every prompt received, in order.
	Prompts []string
	// Tiers records the model tier of every call, in order.
	Tiers []ModelTier
}

// Unavailable returns a FakeClient that simulates a missing backend.
func Unavailable() *FakeClient {
	return &FakeClient{Err: ErrBackendUnavailable}
}

// GenerateContent returns the canned response for the prompt.
func (f *FakeClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt)
	f.Tiers = append(f.Tiers, tier)
	f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	for needle, resp := range f.Responses {
		if strings.Contains(prompt, needle) {
			return resp, nil
		}
	}
	return f.DefaultResponse, nil
}

// GenerateJSON behaves like GenerateContent with fence stripping applied.
func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := f.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns a stable fake model name.
func (f *FakeClient) GetModel(tier ModelTier) string {
	return "fake-" + string(tier)
}

// Close is a no-op.
func (f *FakeClient) Close() error { return nil }

// CallCount returns how many generation calls were made.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
