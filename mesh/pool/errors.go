package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntity indicates a Free, Set or Update on id 0, an id above the
	// high-water mark, or a slot that is not live.
	ErrInvalidEntity = errors.New("pool: invalid entity")

	// ErrBadCapacity indicates a negative capacity, a capacity above MaxCapacity,
	// or more preloaded entities than the capacity allows.
	ErrBadCapacity = errors.New("pool: bad capacity")

	// ErrAllocFailed indicates that the backing storage could not be allocated.
	ErrAllocFailed = errors.New("pool: storage allocation failed")

	// ErrCorrupt indicates that Verify found a broken invariant.
	ErrCorrupt = errors.New("pool: corrupt free list")
)

// AllocError reports a failed storage allocation.
type AllocError struct {
	Slots uint64 // slots requested, including the sentinel slot
	Bytes uint64 // bytes requested; saturates at math.MaxUint64 on overflow
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("pool: cannot allocate %d slots (%d bytes)", e.Slots, e.Bytes)
}

// Is reports whether target is ErrAllocFailed.
func (e *AllocError) Is(target error) bool {
	return target == ErrAllocFailed
}
