// Package heap implements a segregated-fit dynamic allocator over a
// single growable byte region.
//
// # Overview
//
// The heap is one contiguous region obtained from an arena (see the
// arena package). Its base holds a bin table of free-list heads, one
// word per size class, followed by a linear run of boundary-tagged
// blocks. The last block is always the wilderness: an always-free growth
// block that is carved from the front on demand and extended through the
// arena when it runs out. Freed blocks coalesce with free physical
// neighbors, so no two adjacent blocks are ever both free.
//
// # Blocks
//
// Every block carries a 4-byte header and an identical 4-byte footer
// packing the block size with a free bit in the low position. Free blocks
// additionally thread two list links through their payload, stored as
// byte offsets from the heap base rather than addresses; this keeps the
// region relocatable and lets a bin-table head act as a uniform link
// target, so list insertion and removal never special-case an empty bin.
//
// Free block:
//
//	| size+1 | left | ............ | right | size+1 |
//
// Allocated block:
//
//	| size | payload ....................... | size |
//
// Sizes are multiples of 8 and headers sit on the 8n+4 phase, so every
// payload address is 8-byte aligned.
//
// # Size classes
//
// Bins partition block sizes into three regimes: exact bins holding a
// single size each (8-byte steps from the minimum block), coarse and
// wide bins grouping ranges, and one catch-all bin. Exact bins answer a
// request by looking at their first element only; the other bins run a
// best-fit scan bounded by Config.ScanLimit candidates. The partition is
// tunable through Config; see ConfigClassic, ConfigFineGrained and
// ConfigCoarse.
//
// # Usage
//
//	h, err := heap.New(arena.NewSlice(0), nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := h.Allocate(100)
//	if err != nil {
//	    return err
//	}
//	copy(buf, data)
//
//	// Later:
//	h.Free(ref)
//
// Resize and AllocateZeroed round out the surface; Check validates every
// heap and free-list invariant and is meant for tests and debugging.
//
// # Failure modes
//
// Out-of-memory (the arena refuses to extend) is returned as
// ErrOutOfMemory with existing state untouched. Overflowing size
// arithmetic returns ErrSizeOverflow. Freeing a reference that this heap
// did not return, double-freeing, or writing past an allocation's
// capacity is undefined behavior: it is not detected at the time, and
// only a later Check can surface the damage.
//
// # Thread safety
//
// A Heap is not thread-safe. Every operation assumes exclusive access to
// the region for its duration; concurrent callers must serialize all
// entry points externally.
package heap
