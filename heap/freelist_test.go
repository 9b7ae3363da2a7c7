package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heaplab/heapkit/internal/layout"
)

func TestBinForClassicPartition(t *testing.T) {
	h := newTestHeap(t)

	tests := []struct {
		size int
		bin  int
	}{
		{16, 0},  // smallest block, first exact bin
		{24, 1},
		{72, 7},  // last exact bin
		{80, 8},  // first coarse bin
		{136, 8},
		{144, 9}, // second coarse bin
		{200, 9},
		{208, 10}, // first wide bin
		{3272, 10},
		{3280, 11},
		{24776, 17},
		{24784, 18}, // catch-all
		{1 << 20, 18},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bin, h.binFor(tt.size), "binFor(%d)", tt.size)
	}
}

func TestBinForMonotonic(t *testing.T) {
	h := newTestHeap(t)

	prev := 0
	for size := layout.MinBlock; size <= 30000; size += layout.Alignment {
		b := h.binFor(size)
		require.GreaterOrEqual(t, b, prev, "binFor not monotonic at size %d", size)
		require.LessOrEqual(t, b, h.part.lastBin)
		prev = b
	}
}

func TestInsertRemoveLinkage(t *testing.T) {
	h := newTestHeap(t)

	// Three same-class blocks, separated by guards so frees don't coalesce.
	var refs []Ref
	for n := 0; n < 3; n++ {
		refs = append(refs, allocBlock(t, h, 80))
		allocBlock(t, h, 16) // guard
	}
	allocBlock(t, h, 16) // trailing guard against the wilderness

	var offs []int
	for _, r := range refs {
		h.Free(r)
		offs = append(offs, int(r)-layout.HeaderSize)
	}
	requireHeapOK(t, h)

	// Push-front order: the most recently freed block heads the list.
	b := h.binFor(80)
	head := h.headOff(b)
	require.Equal(t, offs[2], h.binFirst(b))
	require.Equal(t, head, h.leftOf(offs[2]))
	require.Equal(t, offs[1], h.rightOf(offs[2]))
	require.Equal(t, offs[2], h.leftOf(offs[1]))
	require.Equal(t, offs[0], h.rightOf(offs[1]))
	require.Equal(t, head, h.rightOf(offs[0]))

	// Removing the middle element splices cleanly.
	h.listRemove(offs[1])
	h.markBlock(offs[1], false) // keep the validator's counts honest
	require.Equal(t, offs[0], h.rightOf(offs[2]))
	require.Equal(t, offs[2], h.leftOf(offs[0]))
	requireHeapOK(t, h)

	// Removing the head element updates the bin-table word.
	h.listRemove(offs[2])
	h.markBlock(offs[2], false)
	require.Equal(t, offs[0], h.binFirst(b))
	require.Equal(t, head, h.leftOf(offs[0]))
	requireHeapOK(t, h)

	// Removing the last empties the bin back to its self-link.
	h.listRemove(offs[0])
	h.markBlock(offs[0], false)
	require.Equal(t, head, h.binFirst(b))
	requireHeapOK(t, h)
}

func TestExactBinFirstFit(t *testing.T) {
	h := newTestHeap(t)

	a := allocBlock(t, h, 32)
	allocBlock(t, h, 16) // guard
	b := allocBlock(t, h, 32)
	allocBlock(t, h, 16) // guard

	h.Free(a)
	h.Free(b)

	// Exact bins take the first element: the most recently freed block.
	ref := allocBlock(t, h, 32)
	assert.Equal(t, b, ref)
	requireHeapOK(t, h)
}

func TestBestFitPicksSmallest(t *testing.T) {
	h := newTestHeap(t)

	big := allocBlock(t, h, 136)
	allocBlock(t, h, 16) // guard
	small := allocBlock(t, h, 88)
	allocBlock(t, h, 16) // guard

	// Free the small block first so the scan meets the big one first;
	// first-fit would settle for the 136.
	h.Free(small)
	h.Free(big)

	// Both live in the same coarse bin; best-fit must pick the 88.
	before := h.Stats()
	ref := allocBlock(t, h, 88)
	assert.Equal(t, small, ref)
	assert.Equal(t, before.BinHits+1, h.Stats().BinHits)
	requireHeapOK(t, h)
}

func TestBestFitScanBound(t *testing.T) {
	h := newTestHeap(t)
	limit := h.cfg.ScanLimit

	// One fitting block, freed first so it ends up beyond the scan bound,
	// then `limit` too-small blocks of the same coarse bin in front of it.
	fitting := allocBlock(t, h, 136)
	allocBlock(t, h, 16) // guard
	var small []Ref
	for n := 0; n < limit; n++ {
		small = append(small, allocBlock(t, h, 80))
		allocBlock(t, h, 16) // guard
	}

	h.Free(fitting)
	for _, r := range small {
		h.Free(r)
	}
	requireHeapOK(t, h)

	// The fitting block is position limit+1 in the list: never scanned.
	// The request falls through every bin and carves the wilderness.
	before := h.Stats()
	ref, _, err := h.Allocate(136 - layout.Bookkeeping)
	require.NoError(t, err)
	assert.NotEqual(t, fitting, ref)
	assert.Equal(t, before.WildernessCarves+1, h.Stats().WildernessCarves)

	// The fitting block is still free, just unreachable within the bound.
	assert.True(t, h.blockFree(int(fitting)-layout.HeaderSize))
	requireHeapOK(t, h)
}

func TestBestFitTieBreaksToFirst(t *testing.T) {
	h := newTestHeap(t)

	first := allocBlock(t, h, 96)
	allocBlock(t, h, 16) // guard
	second := allocBlock(t, h, 96)
	allocBlock(t, h, 16) // guard

	// LIFO: `second` freed last, so it is scanned first.
	h.Free(first)
	h.Free(second)

	ref := allocBlock(t, h, 96)
	assert.Equal(t, second, ref)
	requireHeapOK(t, h)
}
