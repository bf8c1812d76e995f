package pool

import (
	"fmt"
	"iter"
	"math"
	"runtime"
)

// Pool is a fixed-capacity arena of T addressed by ID.
//
// The zero value is not usable; create pools with New.
type Pool[T any] struct {
	slots []slot[T]

	capacity  ID
	highWater ID
	freeHead  ID

	// live counts allocated slots. HighWater alone cannot give this once
	// holes appear below it.
	live int
}

// New creates a pool holding up to capacity entities.
//
// Ids 1..preloaded start out live with zero payloads, for a loader that has
// already decided those ids and fills them with Set. The remaining ids are
// threaded onto the free list in ascending order.
//
// If the storage cannot be allocated, New returns an *AllocError and no pool.
func New[T any](capacity, preloaded int) (*Pool[T], error) {
	if capacity < 0 || uint64(capacity) > MaxCapacity {
		return nil, fmt.Errorf("%w: capacity %d", ErrBadCapacity, capacity)
	}
	if preloaded < 0 || preloaded > capacity {
		return nil, fmt.Errorf("%w: %d preloaded entities exceed capacity %d",
			ErrBadCapacity, preloaded, capacity)
	}

	slots, err := makeSlots[T](uint64(capacity) + 1)
	if err != nil {
		return nil, err
	}

	p := &Pool[T]{
		slots:     slots,
		capacity:  ID(capacity),
		highWater: ID(preloaded),
		live:      preloaded,
	}

	for i := 1; i <= preloaded; i++ {
		p.slots[i].live = true
	}

	// Thread the unused tail: i -> i+1, last -> Nil.
	if preloaded < capacity {
		for i := preloaded + 1; i < capacity; i++ {
			p.slots[i].next = ID(i + 1)
		}
		p.slots[capacity].next = Nil
		p.freeHead = ID(preloaded + 1)
	}

	return p, nil
}

// makeSlots allocates n zeroed slots. Sizes the runtime would refuse are
// reported as *AllocError instead of panicking.
func makeSlots[T any](n uint64) (slots []slot[T], err error) {
	size := SlotSize[T]()
	if size != 0 && n > maxAllocBytes/size {
		bytes := uint64(math.MaxUint64)
		if n <= math.MaxUint64/size {
			bytes = n * size
		}
		return nil, &AllocError{Slots: n, Bytes: bytes}
	}
	if n > uint64(math.MaxInt) {
		return nil, &AllocError{Slots: n, Bytes: n * size}
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			slots, err = nil, &AllocError{Slots: n, Bytes: n * size}
		}
	}()

	return make([]slot[T], int(n)), nil
}

// Alloc stores v in a free slot and returns its id.
//
// Alloc returns Nil when the pool is exhausted. That is not an error: callers
// must check for it and pick their own growth or compaction strategy.
func (p *Pool[T]) Alloc(v T) ID {
	id := p.freeHead
	if id == Nil {
		return Nil
	}

	s := &p.slots[id]
	p.freeHead = s.next
	s.next = Nil
	s.data = v
	s.live = true
	p.live++

	if id > p.highWater {
		p.highWater = id
	}
	return id
}

// Free releases id and makes it the next id Alloc hands out.
//
// Freeing Nil, an id above the high-water mark, or an id that is already free
// returns an error wrapping ErrInvalidEntity and leaves the pool unchanged.
func (p *Pool[T]) Free(id ID) error {
	if !p.Live(id) {
		return p.invalid(id)
	}

	s := &p.slots[id]
	var zero T
	s.data = zero
	s.live = false
	s.next = p.freeHead
	p.freeHead = id
	p.live--

	// No cascade: a free slot just below stays under the mark.
	if id == p.highWater {
		p.highWater--
	}
	return nil
}

// CapacityCheck reports whether n more Allocs would succeed. It walks at most
// n links of the free list and does not modify the pool.
func (p *Pool[T]) CapacityCheck(n int) bool {
	cur := p.freeHead
	for ; n > 0; n-- {
		if cur == Nil {
			return false
		}
		cur = p.slots[cur].next
	}
	return true
}

// Live reports whether id names an allocated entity.
func (p *Pool[T]) Live(id ID) bool {
	return id != Nil && id <= p.highWater && p.slots[id].live
}

// Get returns the payload stored at id. The second result is false if id is
// not live.
func (p *Pool[T]) Get(id ID) (T, bool) {
	if !p.Live(id) {
		var zero T
		return zero, false
	}
	return p.slots[id].data, true
}

// Set replaces the payload of a live entity.
func (p *Pool[T]) Set(id ID, v T) error {
	if !p.Live(id) {
		return p.invalid(id)
	}
	p.slots[id].data = v
	return nil
}

// Update calls fn with a pointer to the payload of a live entity. The pointer
// must not be retained after fn returns.
func (p *Pool[T]) Update(id ID, fn func(*T)) error {
	if !p.Live(id) {
		return p.invalid(id)
	}
	fn(&p.slots[id].data)
	return nil
}

// All iterates over live entities in ascending id order.
func (p *Pool[T]) All() iter.Seq2[ID, T] {
	return func(yield func(ID, T) bool) {
		for id := ID(1); id <= p.highWater; id++ {
			s := &p.slots[id]
			if !s.live {
				continue
			}
			if !yield(id, s.data) {
				return
			}
		}
	}
}

// Len returns the number of live entities.
func (p *Pool[T]) Len() int { return p.live }

// Cap returns the largest valid id.
func (p *Pool[T]) Cap() int { return int(p.capacity) }

// State returns the allocator bookkeeping.
func (p *Pool[T]) State() State {
	return State{
		Capacity:  p.capacity,
		HighWater: p.highWater,
		FreeHead:  p.freeHead,
	}
}

// Bytes returns the size of the backing storage.
func (p *Pool[T]) Bytes() uint64 {
	return uint64(len(p.slots)) * SlotSize[T]()
}

// Verify walks the whole pool and checks the free-list invariants:
// slot 0 is dead, the chain from FreeHead has no cycle and only dead ids,
// every dead id is on it exactly once, and no live id is above HighWater.
func (p *Pool[T]) Verify() error {
	if p.highWater > p.capacity || p.freeHead > p.capacity {
		return fmt.Errorf("%w: high-water %d / free head %d outside capacity %d",
			ErrCorrupt, p.highWater, p.freeHead, p.capacity)
	}
	if p.slots[0].live {
		return fmt.Errorf("%w: sentinel slot is live", ErrCorrupt)
	}

	seen := make([]bool, len(p.slots))
	chained := 0
	for cur := p.freeHead; cur != Nil; cur = p.slots[cur].next {
		if cur > p.capacity {
			return fmt.Errorf("%w: link to %d beyond capacity", ErrCorrupt, cur)
		}
		if seen[cur] {
			return fmt.Errorf("%w: cycle at %d", ErrCorrupt, cur)
		}
		if p.slots[cur].live {
			return fmt.Errorf("%w: live id %d on free list", ErrCorrupt, cur)
		}
		seen[cur] = true
		chained++
	}

	live := 0
	for id := ID(1); id <= p.capacity; id++ {
		if p.slots[id].live {
			if id > p.highWater {
				return fmt.Errorf("%w: live id %d above high-water %d",
					ErrCorrupt, id, p.highWater)
			}
			live++
		}
	}
	if live != p.live {
		return fmt.Errorf("%w: %d live slots, counter says %d", ErrCorrupt, live, p.live)
	}
	if live+chained != int(p.capacity) {
		return fmt.Errorf("%w: %d dead slots unreachable from free head",
			ErrCorrupt, int(p.capacity)-live-chained)
	}
	return nil
}

func (p *Pool[T]) invalid(id ID) error {
	return fmt.Errorf("%w: id %d (high-water %d)", ErrInvalidEntity, id, p.highWater)
}
