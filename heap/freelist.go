package heap

import "github.com/heaplab/heapkit/internal/layout"

// Segregated free-list management. Each bin owns a doubly linked list of
// free blocks threaded through the blocks' first two payload words, with
// links stored as byte offsets from the heap base. The bin head is a
// single word in the bin table, so a link value below the first block
// offset designates a head rather than a block; insert and remove never
// special-case the empty list.

// binFor maps a block size to its bin index. Monotonic in size; the
// validator relies on the same mapping for its range check.
func (h *Heap) binFor(size int) int {
	switch {
	case size < h.part.exactMax:
		return (size - layout.MinBlock) / layout.Alignment
	case size < h.part.coarseMax:
		return h.part.exactBins + (size-h.part.exactMax)/h.cfg.CoarseWidth
	case size < h.part.wideMax:
		return h.part.exactBins + h.part.coarseBins + (size-h.part.coarseMax)/h.cfg.WideWidth
	default:
		return h.part.lastBin
	}
}

// headOff returns the bin-table offset of bin b's head word.
func (h *Heap) headOff(b int) int { return b * layout.WordSize }

// binFirst returns the offset held in bin b's head word. Equal to the
// head offset itself when the bin is empty.
func (h *Heap) binFirst(b int) int {
	return int(layout.ReadU32(h.data, h.headOff(b)))
}

// leftOf and rightOf read a free block's list links.
func (h *Heap) leftOf(off int) int {
	return int(layout.ReadU32(h.data, off+layout.HeaderSize))
}

func (h *Heap) rightOf(off int) int {
	return int(layout.ReadU32(h.data, off+layout.HeaderSize+layout.WordSize))
}

func (h *Heap) setLeft(off, to int) {
	layout.PutU32(h.data, off+layout.HeaderSize, uint32(to))
}

func (h *Heap) setRight(off, to int) {
	layout.PutU32(h.data, off+layout.HeaderSize+layout.WordSize, uint32(to))
}

// listInsert pushes a free block to the front of its size bin. O(1).
func (h *Heap) listInsert(off int) {
	b := h.binFor(h.blockSize(off))
	head := h.headOff(b)
	first := h.binFirst(b)

	layout.PutU32(h.data, head, uint32(off))
	h.setLeft(off, head)
	if first == head {
		h.setRight(off, head)
	} else {
		h.setRight(off, first)
		h.setLeft(first, off)
	}
}

// listRemove splices a free block out of whichever list holds it, using
// only its stored links. O(1).
func (h *Heap) listRemove(off int) {
	left := h.leftOf(off)
	right := h.rightOf(off)

	if left < h.first {
		// Left neighbor is a bin head: its single word is the first link.
		layout.PutU32(h.data, left, uint32(right))
	} else {
		h.setRight(left, right)
	}
	if right >= h.first {
		h.setLeft(right, left)
	}
}

// findExact returns the first block of an exact bin, or -1 when empty.
// Every member of an exact bin has the same size, so the first element
// is as good as any.
func (h *Heap) findExact(b int) int {
	first := h.binFirst(b)
	if first == h.headOff(b) {
		return -1
	}
	return first
}

// findBestFit scans at most cfg.ScanLimit candidates of bin b and returns
// the smallest block that satisfies need, or -1. Ties break to the first
// candidate encountered. The bound caps worst-case latency; a fitting
// block past it is simply not found and the caller moves to a larger bin.
func (h *Heap) findBestFit(b, need int) int {
	head := h.headOff(b)
	best := -1
	bestSize := int(^uint(0) >> 1)

	cur := h.binFirst(b)
	for n := 0; cur != head && n < h.cfg.ScanLimit; n++ {
		size := h.blockSize(cur)
		if size >= need && size < bestSize {
			best = cur
			bestSize = size
		}
		cur = h.rightOf(cur)
	}
	return best
}
