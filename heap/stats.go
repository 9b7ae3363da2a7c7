package heap

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds internal allocator counters, for tests and instrumentation.
type Stats struct {
	AllocCalls  int // Allocate calls, empty requests included
	FreeCalls   int // Free calls, NullRef no-ops included
	ResizeCalls int // Resize calls
	ZeroCalls   int // AllocateZeroed calls

	BinHits          int // allocations served from a free-list bin
	WildernessCarves int // allocations carved from the wilderness

	ExtendCalls int   // arena extensions
	ExtendBytes int64 // total bytes granted by extensions

	BytesAllocated int64 // total block bytes handed out, bookkeeping included
	BytesFreed     int64 // total block bytes returned

	SplitCount         int // free blocks split during placement
	CoalesceLeft       int // merges with the physical predecessor
	CoalesceRight      int // merges with the physical successor
	CoalesceWilderness int // absorptions into the wilderness
}

// Report renders the counters for humans, with grouped digits.
func (s Stats) Report() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "allocations:   %d (%d from bins, %d from wilderness)\n",
		s.AllocCalls, s.BinHits, s.WildernessCarves)
	p.Fprintf(&b, "frees:         %d\n", s.FreeCalls)
	p.Fprintf(&b, "resizes:       %d, zeroed: %d\n", s.ResizeCalls, s.ZeroCalls)
	p.Fprintf(&b, "extensions:    %d (%d bytes)\n", s.ExtendCalls, s.ExtendBytes)
	p.Fprintf(&b, "bytes:         %d allocated, %d freed\n", s.BytesAllocated, s.BytesFreed)
	p.Fprintf(&b, "splits:        %d\n", s.SplitCount)
	p.Fprintf(&b, "coalesces:     %d left, %d right, %d wilderness\n",
		s.CoalesceLeft, s.CoalesceRight, s.CoalesceWilderness)
	return b.String()
}
