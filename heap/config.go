package heap

import (
	"fmt"

	"github.com/heaplab/heapkit/internal/layout"
)

// Config defines the bin partition and growth strategy. Different
// configurations trade lookup speed against fragmentation without
// changing any allocator invariant.
type Config struct {
	// Name for this configuration (for benchmarking).
	Name string

	// ExactBins is the number of exact bins. Exact bin b holds only
	// blocks of size MinBlock + 8*b, so a fit check never scans.
	ExactBins int

	// CoarseBins / CoarseWidth partition the next size range into
	// CoarseBins bins of CoarseWidth bytes each.
	CoarseBins  int
	CoarseWidth int

	// WideBins / WideWidth partition the range after the coarse bins.
	// Anything beyond falls into a single catch-all bin.
	WideBins  int
	WideWidth int

	// ScanLimit bounds the best-fit search in coarse, wide, and catch-all
	// bins: at most ScanLimit candidates are inspected before the bin is
	// treated as exhausted. Blocks beyond the bound are never found even
	// when they would fit better; this is a deliberate latency cap.
	ScanLimit int

	// ChunkSize is the minimum number of bytes requested from the arena
	// per extension. Must be a multiple of 8.
	ChunkSize int
}

// Predefined configurations.
var (
	// ConfigClassic is the original tuning: 8 exact bins (16-72 bytes),
	// 2 coarse bins of 64 bytes, 8 wide bins of 3 KB, and a catch-all.
	ConfigClassic = Config{
		Name:        "Classic",
		ExactBins:   8,
		CoarseBins:  2,
		CoarseWidth: 64,
		WideBins:    8,
		WideWidth:   3072,
		ScanLimit:   6,
		ChunkSize:   400,
	}

	// ConfigFineGrained favors tighter fits for varied small workloads.
	ConfigFineGrained = Config{
		Name:        "FineGrained",
		ExactBins:   16,
		CoarseBins:  4,
		CoarseWidth: 128,
		WideBins:    4,
		WideWidth:   4096,
		ScanLimit:   8,
		ChunkSize:   1024,
	}

	// ConfigCoarse keeps the bin table small at the cost of more internal
	// fragmentation.
	ConfigCoarse = Config{
		Name:        "Coarse",
		ExactBins:   4,
		CoarseBins:  2,
		CoarseWidth: 256,
		WideBins:    2,
		WideWidth:   8192,
		ScanLimit:   4,
		ChunkSize:   4096,
	}

	// DefaultConfig is used when New receives a nil config.
	DefaultConfig = ConfigClassic
)

// partition holds the computed bin boundaries for a validated Config.
type partition struct {
	exactBins  int
	coarseBins int
	exactMax   int // exclusive upper bound of the exact range
	coarseMax  int // exclusive upper bound of the coarse range
	wideMax    int // exclusive upper bound of the wide range
	lastBin    int // catch-all bin index
	firstOff   int // offset of the first block header, just past the bin table
}

func (c Config) validate() error {
	if c.ExactBins <= 0 || c.CoarseBins <= 0 || c.WideBins <= 0 {
		return fmt.Errorf("%w: bin counts must be positive", ErrBadConfig)
	}
	if c.CoarseWidth <= 0 || !layout.Aligned8(c.CoarseWidth) {
		return fmt.Errorf("%w: coarse width %d not a positive multiple of 8", ErrBadConfig, c.CoarseWidth)
	}
	if c.WideWidth <= 0 || !layout.Aligned8(c.WideWidth) {
		return fmt.Errorf("%w: wide width %d not a positive multiple of 8", ErrBadConfig, c.WideWidth)
	}
	// An even bin total keeps the head count odd, which keeps block
	// headers on the 8n+4 phase and payloads 8-byte aligned.
	if (c.ExactBins+c.CoarseBins+c.WideBins)%2 != 0 {
		return fmt.Errorf("%w: total bin count must be even", ErrBadConfig)
	}
	if c.ScanLimit < 1 {
		return fmt.Errorf("%w: scan limit must be at least 1", ErrBadConfig)
	}
	if c.ChunkSize < layout.MinBlock || !layout.Aligned8(c.ChunkSize) {
		return fmt.Errorf("%w: chunk size %d not a multiple of 8 >= %d", ErrBadConfig, c.ChunkSize, layout.MinBlock)
	}
	return nil
}

// newPartition computes bin boundaries. Config must be validated first.
func (c Config) newPartition() partition {
	p := partition{
		exactBins:  c.ExactBins,
		coarseBins: c.CoarseBins,
	}
	p.exactMax = layout.MinBlock + layout.Alignment*c.ExactBins
	p.coarseMax = p.exactMax + c.CoarseBins*c.CoarseWidth
	p.wideMax = p.coarseMax + c.WideBins*c.WideWidth
	p.lastBin = c.ExactBins + c.CoarseBins + c.WideBins
	p.firstOff = layout.WordSize * (p.lastBin + 1)
	return p
}
