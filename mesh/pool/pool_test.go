package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A, B int
}

func newPool(t *testing.T, capacity, preloaded int) *Pool[payload] {
	t.Helper()
	p, err := New[payload](capacity, preloaded)
	require.NoError(t, err)
	require.NoError(t, p.Verify())
	return p
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		preloaded int
		want      State
		wantErr   error
	}{
		{name: "empty", capacity: 10, want: State{Capacity: 10, HighWater: 0, FreeHead: 1}},
		{name: "partially loaded", capacity: 10, preloaded: 4, want: State{Capacity: 10, HighWater: 4, FreeHead: 5}},
		{name: "full", capacity: 3, preloaded: 3, want: State{Capacity: 3, HighWater: 3, FreeHead: Nil}},
		{name: "zero capacity", capacity: 0, want: State{}},
		{name: "negative capacity", capacity: -1, wantErr: ErrBadCapacity},
		{name: "preloaded above capacity", capacity: 2, preloaded: 3, wantErr: ErrBadCapacity},
		{name: "negative preloaded", capacity: 2, preloaded: -1, wantErr: ErrBadCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New[payload](tt.capacity, tt.preloaded)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.State())
			assert.Equal(t, tt.preloaded, p.Len())
			assert.Equal(t, tt.capacity, p.Cap())
			require.NoError(t, p.Verify())
		})
	}
}

func TestNew_AllocFailure(t *testing.T) {
	p, err := New[[1 << 20]byte](1<<30, 0)
	require.Nil(t, p)
	require.ErrorIs(t, err, ErrAllocFailed)

	var ae *AllocError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, uint64(1<<30)+1, ae.Slots)
	assert.Greater(t, ae.Bytes, uint64(maxAllocBytes))
}

func TestNew_PreloadedAreLive(t *testing.T) {
	p := newPool(t, 8, 3)
	for id := ID(1); id <= 3; id++ {
		assert.True(t, p.Live(id), "id %d", id)
	}
	assert.False(t, p.Live(4))
	assert.False(t, p.Live(Nil))

	require.NoError(t, p.Set(2, payload{A: 7}))
	v, ok := p.Get(2)
	require.True(t, ok)
	assert.Equal(t, 7, v.A)

	assert.Equal(t, ID(4), p.Alloc(payload{}))
}

func TestAlloc_HardExhaustion(t *testing.T) {
	p := newPool(t, 10, 0)
	for want := ID(1); want <= 10; want++ {
		require.Equal(t, want, p.Alloc(payload{A: int(want)}))
	}
	assert.Equal(t, Nil, p.Alloc(payload{}))
	assert.Equal(t, Nil, p.Alloc(payload{}), "exhaustion is sticky")
	assert.Equal(t, State{Capacity: 10, HighWater: 10, FreeHead: Nil}, p.State())
	require.NoError(t, p.Verify())
}

func TestAlloc_LIFOReuse(t *testing.T) {
	p := newPool(t, 10, 0)
	for want := ID(1); want <= 5; want++ {
		require.Equal(t, want, p.Alloc(payload{}))
	}

	require.NoError(t, p.Free(3))
	assert.Equal(t, ID(3), p.Alloc(payload{}))
	assert.Equal(t, ID(6), p.Alloc(payload{}))
	require.NoError(t, p.Verify())
}

func TestAlloc_StoresPayload(t *testing.T) {
	p := newPool(t, 4, 0)
	id := p.Alloc(payload{A: 1, B: 2})
	v, ok := p.Get(id)
	require.True(t, ok)
	assert.Equal(t, payload{A: 1, B: 2}, v)
}

func TestFree_RoundTrip(t *testing.T) {
	p := newPool(t, 16, 2)
	p.Alloc(payload{})
	p.Alloc(payload{})
	require.NoError(t, p.Free(3))

	before := p.State()
	id := p.Alloc(payload{A: 9})
	require.NotEqual(t, Nil, id)
	require.NoError(t, p.Free(id))
	assert.Equal(t, before, p.State())
}

func TestFree_ZeroesPayload(t *testing.T) {
	p := newPool(t, 4, 0)
	id := p.Alloc(payload{A: 5})
	require.NoError(t, p.Free(id))

	_, ok := p.Get(id)
	assert.False(t, ok)

	// Reallocating with a zero value must not resurrect the old payload.
	again := p.Alloc(payload{})
	require.Equal(t, id, again)
	v, _ := p.Get(again)
	assert.Equal(t, payload{}, v)
}

func TestFree_Invalid(t *testing.T) {
	p := newPool(t, 8, 0)
	p.Alloc(payload{})
	p.Alloc(payload{})
	require.NoError(t, p.Free(1))

	tests := []struct {
		name string
		id   ID
	}{
		{name: "sentinel", id: Nil},
		{name: "above high-water", id: 5},
		{name: "beyond capacity", id: 100},
		{name: "double free", id: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := p.State()
			err := p.Free(tt.id)
			require.ErrorIs(t, err, ErrInvalidEntity)
			assert.Equal(t, before, p.State(), "pool must be left unchanged")
			require.NoError(t, p.Verify())
		})
	}
}

func TestFree_HighWater(t *testing.T) {
	p := newPool(t, 10, 0)
	for i := 0; i < 5; i++ {
		p.Alloc(payload{})
	}

	// Below the mark: unchanged.
	require.NoError(t, p.Free(2))
	assert.Equal(t, ID(5), p.State().HighWater)

	// At the mark: exactly one step down.
	require.NoError(t, p.Free(5))
	assert.Equal(t, ID(4), p.State().HighWater)

	// Freeing 4 drops the mark to 3, and the hole at 2 is left alone.
	require.NoError(t, p.Free(4))
	assert.Equal(t, ID(3), p.State().HighWater)
	require.NoError(t, p.Free(3))
	assert.Equal(t, ID(2), p.State().HighWater, "no cascade past the hole at 2")
	assert.False(t, p.Live(2))

	require.NoError(t, p.Verify())
}

func TestCapacityCheck(t *testing.T) {
	p := newPool(t, 6, 0)
	assert.True(t, p.CapacityCheck(0))
	assert.True(t, p.CapacityCheck(6))
	assert.False(t, p.CapacityCheck(7))

	for i := 0; i < 4; i++ {
		p.Alloc(payload{})
	}
	before := p.State()
	assert.True(t, p.CapacityCheck(2))
	assert.False(t, p.CapacityCheck(3))
	assert.Equal(t, before, p.State(), "CapacityCheck must not mutate")

	require.NoError(t, p.Free(1))
	assert.True(t, p.CapacityCheck(3))
}

func TestCapacityCheck_Full(t *testing.T) {
	p := newPool(t, 3, 3)
	assert.True(t, p.CapacityCheck(0))
	assert.False(t, p.CapacityCheck(1))
}

func TestSetUpdate(t *testing.T) {
	p := newPool(t, 4, 0)
	id := p.Alloc(payload{A: 1})

	require.NoError(t, p.Update(id, func(v *payload) { v.B = 42 }))
	v, _ := p.Get(id)
	assert.Equal(t, payload{A: 1, B: 42}, v)

	require.ErrorIs(t, p.Set(Nil, payload{}), ErrInvalidEntity)
	require.ErrorIs(t, p.Update(3, func(*payload) {}), ErrInvalidEntity)
}

func TestAll(t *testing.T) {
	p := newPool(t, 8, 0)
	for i := 1; i <= 5; i++ {
		p.Alloc(payload{A: i})
	}
	require.NoError(t, p.Free(2))
	require.NoError(t, p.Free(4))

	var ids []ID
	var as []int
	for id, v := range p.All() {
		ids = append(ids, id)
		as = append(as, v.A)
	}
	assert.Equal(t, []ID{1, 3, 5}, ids)
	assert.Equal(t, []int{1, 3, 5}, as)
	assert.Equal(t, 3, p.Len())

	// Early break.
	n := 0
	for range p.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestBytes(t *testing.T) {
	p := newPool(t, 9, 0)
	assert.Equal(t, 10*SlotSize[payload](), p.Bytes())
}

func Test_VerifyDetectsCorruption(t *testing.T) {
	p := newPool(t, 5, 0)
	p.Alloc(payload{})
	p.Alloc(payload{})

	// Point the last free slot back at the head.
	p.slots[5].next = p.freeHead
	require.ErrorIs(t, p.Verify(), ErrCorrupt)

	p = newPool(t, 5, 0)
	p.slots[0].live = true
	require.ErrorIs(t, p.Verify(), ErrCorrupt)

	p = newPool(t, 5, 0)
	p.slots[3].next = Nil // drops 4 and 5 from the chain
	require.ErrorIs(t, p.Verify(), ErrCorrupt)
}
