package heap

import (
	"os"

	"github.com/heaplab/heapkit/arena"
	"github.com/heaplab/heapkit/internal/layout"
)

// debugChecks enables a full heap validation around every mutating
// operation (compile-time toggle). A violation panics, since continuing
// after corruption would only move the crash further from its cause.
const debugChecks = false

// Runtime flag for extension logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// Ref identifies a live allocation: the byte offset of its payload from
// the heap base. NullRef is never a valid allocation.
type Ref uint32

// NullRef is the zero reference. Allocate returns it for empty requests
// and Free treats it as a no-op.
const NullRef Ref = 0

// Heap is a segregated-fit allocator over one growable byte region.
//
// Layout, from the region base: a bin table of uint32 free-list heads
// (one word per size class), then a linear run of boundary-tagged blocks,
// terminated by the wilderness block. Free-list links are byte offsets
// from the base, never addresses, so a bin-table head is a valid link
// target and the region may relocate on growth.
//
// A Heap assumes a single logical thread of control. Callers that share
// one across goroutines must serialize every entry point; block splitting,
// list splicing, and wilderness carving are multi-step sequences.
type Heap struct {
	mem  arena.Arena
	data []byte // committed region; refreshed after every extension
	cfg  Config
	part partition

	first int // offset of the first block header (just past the bin table)
	wild  int // offset of the wilderness header; the wilderness is always last and always free

	stats Stats

	// Test hook: called after each successful extension (nil in production).
	onExtend func(n int)
}

// New initializes a heap over an empty arena. The first extension covers
// the bin table plus a minimum wilderness, rounded up to cfg.ChunkSize.
// A nil cfg selects DefaultConfig.
func New(mem arena.Arena, cfg *Config) (*Heap, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if mem.Size() != 0 {
		return nil, ErrArenaInUse
	}

	h := &Heap{
		mem:  mem,
		cfg:  *cfg,
		part: cfg.newPartition(),
	}
	h.first = h.part.firstOff

	// Bin table + one minimum block + the trailing phase pad. firstOff is
	// on the 8n+4 phase, so the sum is 8-aligned.
	granted, err := h.wildExpand(h.first + layout.MinBlock + layout.WordSize)
	if err != nil {
		return nil, err
	}

	// Every bin head starts pointing at itself: the empty-list state.
	for b := 0; b <= h.part.lastBin; b++ {
		layout.PutU32(h.data, b*layout.WordSize, uint32(b*layout.WordSize))
	}

	h.wild = h.first
	h.packBlock(h.wild, granted-h.first-layout.WordSize, true)
	return h, nil
}

// Size returns the current heap size in bytes, bin table included.
func (h *Heap) Size() int { return h.mem.Size() }

// WildernessSize returns the size of the trailing growth block.
func (h *Heap) WildernessSize() int { return h.blockSize(h.wild) }

// Payload returns the payload bytes of a live allocation, or nil for
// NullRef. The slice is invalidated by any subsequent heap growth.
func (h *Heap) Payload(ref Ref) []byte {
	if ref == NullRef {
		return nil
	}
	return h.payload(int(ref) - layout.HeaderSize)
}

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats { return h.stats }

// mustCheck validates the heap and panics on the first violation.
// Only reachable when debugChecks is enabled.
func (h *Heap) mustCheck(where string) {
	if err := h.Check(true); err != nil {
		panic("heap: " + where + ": " + err.Error())
	}
}
