package heap

import "github.com/heaplab/heapkit/internal/layout"

// Allocator core: Allocate, Free, Resize, AllocateZeroed. Search policy:
// bins from the request's own size class upward, exact-fit in exact bins
// and bounded best-fit elsewhere, then the wilderness as the fallback of
// last resort.

// roundRequest converts a payload request into a block size: bookkeeping
// added, rounded up to the alignment granularity, clamped to MinBlock.
// Overflow in the rounding reports ErrSizeOverflow rather than wrapping.
func roundRequest(n int) (int, error) {
	if n <= layout.MinPayload {
		return layout.MinBlock, nil
	}
	total, ok := layout.AddOverflowSafe(n, layout.Bookkeeping)
	if !ok {
		return 0, ErrSizeOverflow
	}
	if total, ok = layout.AddOverflowSafe(total, layout.AlignmentMask); !ok {
		return 0, ErrSizeOverflow
	}
	return total &^ layout.AlignmentMask, nil
}

// Allocate returns a reference to at least n writable payload bytes. A
// zero request returns NullRef with no error. The returned slice aliases
// the heap region and is invalidated by any later heap growth; re-fetch
// through Payload after mutating calls when in doubt.
func (h *Heap) Allocate(n int) (Ref, []byte, error) {
	if debugChecks {
		h.mustCheck("Allocate")
	}
	h.stats.AllocCalls++

	if n == 0 {
		return NullRef, nil, nil
	}
	if n < 0 {
		return NullRef, nil, ErrInvalidSize
	}
	need, err := roundRequest(n)
	if err != nil {
		return NullRef, nil, err
	}

	ref, payload, err := h.allocBlock(need)
	if debugChecks && err == nil {
		h.mustCheck("Allocate exit")
	}
	return ref, payload, err
}

// allocBlock finds or carves a block of exactly need bytes (already
// rounded). Bins first, wilderness second.
func (h *Heap) allocBlock(need int) (Ref, []byte, error) {
	for b := h.binFor(need); b <= h.part.lastBin; b++ {
		var cand int
		if b < h.part.exactBins {
			cand = h.findExact(b)
		} else {
			cand = h.findBestFit(b, need)
		}
		if cand >= 0 {
			h.stats.BinHits++
			ref, payload := h.place(cand, need)
			return ref, payload, nil
		}
	}

	h.stats.WildernessCarves++
	ref, payload, err := h.carve(need)
	if err != nil {
		return NullRef, nil, err
	}
	h.stats.BytesAllocated += int64(need)
	return ref, payload, nil
}

// place removes a free block from its bin and allocates need bytes from
// it. When the remainder can stand as a block of its own it is split off
// and re-binned; otherwise the whole block is used and the slack becomes
// internal fragmentation.
func (h *Heap) place(off, need int) (Ref, []byte) {
	h.listRemove(off)
	size := h.blockSize(off)

	if size >= need+layout.MinBlock {
		h.stats.SplitCount++
		h.packBlock(off, need, false)
		h.packBlock(off+need, size-need, true)
		h.listInsert(off + need)
		size = need
	} else {
		h.markBlock(off, false)
	}

	h.stats.BytesAllocated += int64(size)
	return Ref(off + layout.HeaderSize), h.payload(off)
}

// Free returns an allocation to the free-list universe, coalescing with
// whichever physical neighbors are free; a block whose successor is the
// wilderness is absorbed into it directly, bypassing the bins. NullRef is
// a no-op. Freeing a reference not returned by this heap, or freeing one
// twice, is undefined behavior and is not detected here; Check can
// surface the resulting corruption after the fact.
func (h *Heap) Free(ref Ref) {
	if debugChecks {
		h.mustCheck("Free")
	}
	h.stats.FreeCalls++
	if ref == NullRef {
		return
	}

	off := int(ref) - layout.HeaderSize
	h.stats.BytesFreed += int64(h.blockSize(off))
	h.markBlock(off, true)

	// Coalesce with the physical predecessor; the first block has none.
	if off != h.first {
		prev := h.physicalPrev(off)
		if h.blockFree(prev) {
			h.stats.CoalesceLeft++
			h.listRemove(prev)
			merged := h.blockSize(prev) + h.blockSize(off)
			off = prev
			h.packBlock(off, merged, true)
		}
	}

	next := h.physicalNext(off)
	if next == h.wild {
		// Absorbed into the wilderness; no bin involvement.
		h.stats.CoalesceWilderness++
		merged := h.blockSize(off) + h.blockSize(h.wild)
		h.wild = off
		h.packBlock(off, merged, true)
	} else {
		if h.blockFree(next) {
			h.stats.CoalesceRight++
			h.listRemove(next)
			h.packBlock(off, h.blockSize(off)+h.blockSize(next), true)
		}
		h.listInsert(off)
	}

	if debugChecks {
		h.mustCheck("Free exit")
	}
}

// Resize grows or shrinks an allocation. A zero n frees and returns
// NullRef; a NullRef behaves as Allocate. When the existing block already
// has capacity for n the same reference is returned unchanged (no
// shrink-to-fit). Otherwise the contents move: the first
// min(n, old payload) bytes are preserved exactly. On allocation failure
// the original block is left intact and the error is returned.
func (h *Heap) Resize(ref Ref, n int) (Ref, []byte, error) {
	h.stats.ResizeCalls++

	if n == 0 {
		h.Free(ref)
		return NullRef, nil, nil
	}
	if ref == NullRef {
		return h.Allocate(n)
	}
	if n < 0 {
		return NullRef, nil, ErrInvalidSize
	}

	off := int(ref) - layout.HeaderSize
	if h.blockSize(off)-layout.Bookkeeping >= n {
		return ref, h.payload(off), nil
	}

	newRef, newPayload, err := h.Allocate(n)
	if err != nil {
		return NullRef, nil, err
	}
	// Allocate may have grown the region; the old block did not move, but
	// its cached slice header must be re-derived from fresh data.
	copy(newPayload, h.payload(off))
	h.Free(ref)
	return newRef, newPayload, nil
}

// AllocateZeroed allocates count*size bytes and zero-fills the payload
// before returning it. The multiplication is overflow-checked and reports
// ErrSizeOverflow instead of allocating a wrapped-around size.
func (h *Heap) AllocateZeroed(count, size int) (Ref, []byte, error) {
	h.stats.ZeroCalls++

	if count < 0 || size < 0 {
		return NullRef, nil, ErrInvalidSize
	}
	total, ok := layout.MulOverflowSafe(count, size)
	if !ok {
		return NullRef, nil, ErrSizeOverflow
	}

	ref, payload, err := h.Allocate(total)
	if err != nil || ref == NullRef {
		return ref, payload, err
	}
	clear(payload)
	return ref, payload, nil
}
