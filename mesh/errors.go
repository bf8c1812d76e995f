package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates that the storage of a planned pool could not be
	// allocated.
	ErrOutOfMemory = errors.New("mesh: out of memory")

	// ErrNoPool indicates an operation on an optional pool that was never
	// enabled.
	ErrNoPool = errors.New("mesh: pool not enabled")
)

// OutOfMemoryError reports the pool whose storage could not be allocated.
type OutOfMemoryError struct {
	Kind  Kind
	Bytes uint64
	Err   error
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("mesh: cannot allocate %d bytes for %s pool", e.Bytes, e.Kind)
}

// Is reports whether target is ErrOutOfMemory.
func (e *OutOfMemoryError) Is(target error) bool {
	return target == ErrOutOfMemory
}

func (e *OutOfMemoryError) Unwrap() error { return e.Err }
