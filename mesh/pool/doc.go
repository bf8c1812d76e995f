// Package pool provides fixed-capacity, index-addressed entity storage with an
// intrusive free list.
//
// # Overview
//
// A Pool stores entities of one kind in a flat slice of slots. Entities are
// addressed by small integer ids rather than pointers, so the backing storage
// can be owned exclusively by one mesh and never aliased by callers.
//
//   - Alloc(v): take the head of the free list, store v, return its id
//   - Free(id): zero the slot and push it back on the free list
//   - CapacityCheck(n): report whether n more Allocs would succeed
//
// All three are O(1) except CapacityCheck, which walks at most n links.
//
// # Ids
//
// Id 0 is reserved. It never names a live entity and is what Alloc returns
// when the pool is exhausted:
//
//	id := p.Alloc(v)
//	if id == pool.Nil {
//	    // pool exhausted, caller decides what to do
//	}
//
// Valid ids are 1..Cap(). The storage holds Cap()+1 slots so that slot 0 can
// stay in place as the sentinel.
//
// # Free List
//
// Every slot carries a dedicated link field that is only meaningful while the
// slot is dead. New pools thread the list across the whole unused tail, so the
// chain starting at FreeHead reaches every dead slot exactly once.
//
// Freed ids are reused LIFO:
//
//	for i := 0; i < 5; i++ {
//	    p.Alloc(v) // 1, 2, 3, 4, 5
//	}
//	p.Free(3)
//	p.Alloc(v) // 3, not 6
//
// # High-Water Mark
//
// HighWater is the largest id handed out so far. Freeing the id equal to
// HighWater lowers it by exactly one and never cascades, so holes may remain
// below it. Every live id is <= HighWater.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally.
package pool
