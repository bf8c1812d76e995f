package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientMemory indicates a budget that cannot hold the loaded mesh
	// or falls below the bookkeeping floor.
	ErrInsufficientMemory = errors.New("plan: insufficient memory")

	// ErrBadConfig indicates an invalid planner configuration.
	ErrBadConfig = errors.New("plan: bad config")
)

// InsufficientMemoryError reports a rejected budget together with the
// smallest budget that would be accepted for the same mesh.
type InsufficientMemoryError struct {
	RequestedMB int64
	MinimumMB   int64
}

func (e *InsufficientMemoryError) Error() string {
	return fmt.Sprintf("plan: %d MB of memory is not enough, need at least %d MB",
		e.RequestedMB, e.MinimumMB)
}

// Is reports whether target is ErrInsufficientMemory.
func (e *InsufficientMemoryError) Is(target error) bool {
	return target == ErrInsufficientMemory
}
