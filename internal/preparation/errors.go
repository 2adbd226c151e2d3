// Package preparation orchestrates the interview preparation workflow:
// JD submission, the diagnostic memory scan, roadmap creation, and rehearsal
// questions, moving each preparation forward through its status machine.
package preparation

import (
	"fmt"

	"github.com/tuanngo/preppath/internal/types"
)

// ErrNotFound indicates a missing or not-owned entity.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrInvalidState indicates an operation attempted out of workflow order, such
// as creating a roadmap before any scored memory scan exists.
type ErrInvalidState struct {
	Op     string
	Status types.Status
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("%s not allowed in status %q", e.Op, e.Status)
}
