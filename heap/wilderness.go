package heap

import (
	"fmt"
	"os"

	"github.com/heaplab/heapkit/internal/layout"
)

// Wilderness management. The wilderness is the distinguished free block
// at the tail of the heap: never listed in a bin, carved from the front
// when the bins come up empty, and grown through the arena when its
// remainder runs out. The invariant that it never drops below MinBlock
// means the heap always ends in a well-formed free block.

// wildExpand extends the region by at least n bytes, never less than
// cfg.ChunkSize. Returns the number of bytes actually granted.
func (h *Heap) wildExpand(n int) (int, error) {
	if n < h.cfg.ChunkSize {
		n = h.cfg.ChunkSize
	}
	if err := h.mem.Extend(n); err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[HEAP] extend %d bytes failed: %v\n", n, err)
		}
		return 0, ErrOutOfMemory
	}
	h.data = h.mem.Bytes()
	h.stats.ExtendCalls++
	h.stats.ExtendBytes += int64(n)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] extend #%d: +%d bytes, heap now %d bytes\n",
			h.stats.ExtendCalls, n, len(h.data))
	}
	if h.onExtend != nil {
		h.onExtend(n)
	}
	return n, nil
}

// carve splits an allocated block of exactly size bytes off the front of
// the wilderness, growing the region first when the remainder would drop
// below MinBlock. size must be a multiple of 8 and at least MinBlock.
func (h *Heap) carve(size int) (Ref, []byte, error) {
	wsize := h.blockSize(h.wild)

	if wsize < size+layout.MinBlock {
		granted, err := h.wildExpand(size - wsize + layout.MinBlock)
		if err != nil {
			return NullRef, nil, err
		}
		wsize += granted
	}

	off := h.wild
	h.wild = off + size
	wsize -= size

	h.packBlock(off, size, false)
	h.packBlock(h.wild, wsize, true)

	return Ref(off + layout.HeaderSize), h.payload(off), nil
}
