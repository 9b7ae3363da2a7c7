package heap

import "github.com/heaplab/heapkit/internal/layout"

// Block representation. A block is addressed by the byte offset of its
// header word, which always sits on the 8n+4 phase so the payload behind
// it is 8-byte aligned. Header and footer carry the same packed word:
// the block size with the free bit in the low position. These accessors
// only interpret bytes the caller already owns; none of them allocate.

// blockSize returns the total block size in bytes, bookkeeping included.
func (h *Heap) blockSize(off int) int {
	return int(layout.ReadU32(h.data, off) & layout.SizeMask)
}

// blockFree reports whether the block is free.
func (h *Heap) blockFree(off int) bool {
	return layout.ReadU32(h.data, off)&layout.FreeBit != 0
}

// packBlock writes header and footer with the given size and free bit.
// size must be a multiple of 8 and at least MinBlock.
func (h *Heap) packBlock(off, size int, free bool) {
	w := uint32(size)
	if free {
		w |= layout.FreeBit
	}
	layout.PutU32(h.data, off, w)
	layout.PutU32(h.data, off+size-layout.FooterSize, w)
}

// markBlock flips the free bit without changing the size.
func (h *Heap) markBlock(off int, free bool) {
	h.packBlock(off, h.blockSize(off), free)
}

// payload returns the usable bytes between header and footer.
func (h *Heap) payload(off int) []byte {
	return h.data[off+layout.HeaderSize : off+h.blockSize(off)-layout.FooterSize]
}

// physicalNext returns the header offset of the next block in the heap.
func (h *Heap) physicalNext(off int) int {
	return off + h.blockSize(off)
}

// physicalPrev returns the header offset of the preceding block, read
// through its footer. Undefined for the first block; callers guard.
func (h *Heap) physicalPrev(off int) int {
	return off - int(layout.ReadU32(h.data, off-layout.FooterSize)&layout.SizeMask)
}
