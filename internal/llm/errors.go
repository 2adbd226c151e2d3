package llm

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable indicates the generation backend is not configured
// (no API key) or cannot be reached at all. Pipeline stages treat this as an
// expected condition and fall back to deterministic behavior.
var ErrBackendUnavailable = errors.New("generation backend unavailable")

// GenerationError wraps a transport or model failure during a generation call.
// Like ErrBackendUnavailable it is recoverable: callers degrade, they do not crash.
type GenerationError struct {
	Model string
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (model %s): %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("generation failed (model %s)", e.Model)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// IsDegraded reports whether err is one of the recoverable backend conditions
// every generation-dependent stage must absorb.
func IsDegraded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return true
	}
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
