package pool

import (
	"math"
	"unsafe"
)

// ID addresses a slot in a Pool. The zero value is Nil.
type ID uint32

// Nil is the reserved "no entity" id, also returned by Alloc on exhaustion.
const Nil ID = 0

// MaxCapacity is the largest capacity a Pool accepts.
const MaxCapacity = math.MaxUint32 - 1

// maxAllocBytes caps a single backing slice at 64 GiB. Requests past the
// Go runtime's own limit panic, but large requests below it abort the process
// when the host cannot back them, so oversized plans are refused up front.
const maxAllocBytes = 1 << 36

// State is the allocator bookkeeping of a Pool.
type State struct {
	Capacity  ID // largest valid id
	HighWater ID // largest id handed out and not yet released from the top
	FreeHead  ID // first id on the free list, Nil when exhausted
}

type slot[T any] struct {
	data T
	next ID // free-link, only meaningful while !live
	live bool
}

// SlotSize returns the number of bytes one slot of a Pool[T] occupies,
// including the free-link and live flag.
func SlotSize[T any]() uint64 {
	var s slot[T]
	return uint64(unsafe.Sizeof(s))
}
