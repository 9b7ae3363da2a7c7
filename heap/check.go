package heap

import (
	"fmt"
	"os"

	"github.com/heaplab/heapkit/internal/layout"
)

// ViolationError describes the first heap invariant a Check call found
// violated. Offset is the block or link offset involved, or -1 when the
// violation is not tied to a single offset.
type ViolationError struct {
	Kind    string
	Offset  int
	Message string
}

func (e *ViolationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Check walks the whole heap and every free list and returns the first
// violated invariant, or nil. It never mutates state, so it is safe to
// call between any two operations; tests call it after every mutation and
// the debugChecks build calls it around every entry point.
//
// Invariants covered: block sizes aligned and at least MinBlock, payload
// alignment, boundary-tag round-trips, no two adjacent free blocks, the
// wilderness terminating the heap and being free, per-bin membership
// (free, correctly classed, back-linked), and free-block counts agreeing
// between full traversal and the bin lists.
//
// With verbose set, the violation is also printed to stderr.
func (h *Heap) Check(verbose bool) error {
	report := func(kind string, off int, format string, args ...any) error {
		err := &ViolationError{Kind: kind, Offset: off, Message: fmt.Sprintf(format, args...)}
		if verbose {
			fmt.Fprintf(os.Stderr, "heapkit: %s\n", err.Error())
		}
		return err
	}

	heapSize := len(h.data)
	if h.wild < h.first || h.wild+layout.MinBlock+layout.WordSize > heapSize {
		return report("Wilderness", h.wild, "wilderness outside the heap (heap size %d)", heapSize)
	}

	// Linear walk from the first block to the wilderness.
	freeBlocks := 0
	prevFree := false
	for off := h.first; off != h.wild; off = h.physicalNext(off) {
		if off > h.wild {
			return report("Traversal", off, "walk overshot the wilderness at 0x%X", h.wild)
		}
		size := h.blockSize(off)
		if !layout.Aligned8(size) {
			return report("Block", off, "size %d not a multiple of %d", size, layout.Alignment)
		}
		if size < layout.MinBlock {
			return report("Block", off, "size %d below minimum %d", size, layout.MinBlock)
		}
		if !layout.Aligned8(off + layout.HeaderSize) {
			return report("Block", off, "payload not %d-byte aligned", layout.Alignment)
		}
		next := off + size
		if next+layout.HeaderSize > heapSize {
			return report("Block", off, "block extends past the heap end")
		}
		if h.physicalPrev(next) != off {
			return report("Block", off, "boundary tags disagree: footer does not lead back to header")
		}
		if h.blockFree(off) {
			if prevFree {
				return report("Coalescing", off, "two physically adjacent free blocks")
			}
			freeBlocks++
			prevFree = true
		} else {
			prevFree = false
		}
	}

	// Wilderness: aligned, marked free, and flush with the heap end.
	wsize := h.blockSize(h.wild)
	if !layout.Aligned8(wsize) {
		return report("Wilderness", h.wild, "size %d not a multiple of %d", wsize, layout.Alignment)
	}
	if wsize < layout.MinBlock {
		return report("Wilderness", h.wild, "size %d below minimum %d", wsize, layout.MinBlock)
	}
	if !h.blockFree(h.wild) {
		return report("Wilderness", h.wild, "wilderness not marked free")
	}
	if h.wild+wsize+layout.WordSize != heapSize {
		return report("Wilderness", h.wild,
			"wilderness ends at 0x%X, heap ends at 0x%X", h.wild+wsize+layout.WordSize, heapSize)
	}

	// Every bin list: membership, classing, and back-links.
	listBlocks := 0
	maxBlocks := heapSize / layout.MinBlock // cycle guard for corrupted links
	for b := 0; b <= h.part.lastBin; b++ {
		head := h.headOff(b)
		prev := head
		for cur := h.binFirst(b); cur != head; cur = h.rightOf(cur) {
			if cur < h.first || cur+layout.MinBlock > heapSize {
				return report("FreeList", cur, "bin %d link outside the heap", b)
			}
			size := h.blockSize(cur)
			if h.binFor(size) != b {
				return report("FreeList", cur, "block of size %d listed in bin %d, belongs in %d",
					size, b, h.binFor(size))
			}
			if h.leftOf(cur) != prev {
				return report("FreeList", cur, "bin %d left link does not point back to predecessor", b)
			}
			if !h.blockFree(cur) {
				return report("FreeList", cur, "bin %d lists a block not marked free", b)
			}
			if cur == h.wild {
				return report("FreeList", cur, "wilderness listed in bin %d", b)
			}
			listBlocks++
			if listBlocks > maxBlocks {
				return report("FreeList", cur, "bin %d list does not terminate", b)
			}
			prev = cur
		}
	}

	if freeBlocks != listBlocks {
		return report("Accounting", -1,
			"heap traversal found %d free blocks, bin lists hold %d", freeBlocks, listBlocks)
	}
	return nil
}
