// Package layout defines the byte-level layout constants and accessors
// shared by the heap allocator: word widths, alignment math, little-endian
// integer encoding, and overflow-safe arithmetic.
package layout

const (
	// WordSize is the width of a bookkeeping word (header, footer, link).
	WordSize = 4

	// Alignment is the granularity of block sizes and payload addresses.
	Alignment = 8

	// AlignmentMask is Alignment-1, used by the align helpers.
	AlignmentMask = Alignment - 1

	// HeaderSize is the leading header word of a block.
	HeaderSize = WordSize

	// FooterSize is the trailing footer word of a block.
	FooterSize = WordSize

	// Bookkeeping is the per-block overhead (header + footer).
	Bookkeeping = HeaderSize + FooterSize

	// MinPayload is the smallest payload a block can carry. A free block
	// stores its two list links in this space, so it can never shrink
	// below two words.
	MinPayload = 8

	// MinBlock is the smallest legal block size, bookkeeping included.
	MinBlock = MinPayload + Bookkeeping

	// FreeBit is the low bit of the packed header word. Set means free.
	// Block sizes are multiples of Alignment, so the bit is recoverable.
	FreeBit = 0x1

	// SizeMask strips the free bit (and alignment slack) from a packed word.
	SizeMask = ^uint32(AlignmentMask)
)
