package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heaplab/heapkit/arena"
	"github.com/heaplab/heapkit/internal/layout"
)

// newTestHeap builds a heap over an unbounded slice arena with the
// default configuration.
func newTestHeap(t testing.TB) *Heap {
	t.Helper()
	h, err := New(arena.NewSlice(0), nil)
	require.NoError(t, err)
	return h
}

// newTestHeapWith builds a heap over an unbounded slice arena with an
// explicit configuration.
func newTestHeapWith(t testing.TB, cfg Config) *Heap {
	t.Helper()
	h, err := New(arena.NewSlice(0), &cfg)
	require.NoError(t, err)
	return h
}

// newLimitedHeap builds a heap whose arena refuses to grow past limit
// bytes, for exercising the out-of-memory path.
func newLimitedHeap(t testing.TB, limit int) *Heap {
	t.Helper()
	h, err := New(arena.NewSlice(limit), nil)
	require.NoError(t, err)
	return h
}

// allocBlock allocates a block of exactly blockSize total bytes
// (bookkeeping included) and returns its reference.
func allocBlock(t testing.TB, h *Heap, blockSize int) Ref {
	t.Helper()
	require.True(t, layout.Aligned8(blockSize), "test wants an aligned block size")
	require.GreaterOrEqual(t, blockSize, layout.MinBlock)

	ref, payload, err := h.Allocate(blockSize - layout.Bookkeeping)
	require.NoError(t, err)
	require.NotEqual(t, NullRef, ref)
	require.Len(t, payload, blockSize-layout.Bookkeeping)
	return ref
}

// fill writes a repeating tag byte over a payload.
func fill(p []byte, tag byte) {
	for i := range p {
		p[i] = tag
	}
}

// requireFilled asserts every payload byte still carries the tag.
func requireFilled(t testing.TB, p []byte, tag byte) {
	t.Helper()
	for i, b := range p {
		require.Equal(t, tag, b, "payload byte %d corrupted", i)
	}
}

// requireHeapOK runs the validator and fails the test on any violation.
func requireHeapOK(t testing.TB, h *Heap) {
	t.Helper()
	require.NoError(t, h.Check(false))
}
