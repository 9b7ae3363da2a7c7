//go:build unix

package arena

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mmap is an Arena backed by an anonymous mapping. The full reservation is
// mapped PROT_NONE up front, so the region never moves; Extend commits
// pages by flipping them to read-write. This keeps Bytes stable across
// grows at the cost of a fixed upper bound chosen at construction.
type Mmap struct {
	region []byte // full reservation, page-aligned
	size   int    // committed prefix length in bytes
}

// NewMmap reserves max bytes of address space and returns an arena with
// nothing committed. max is rounded up to a whole page.
func NewMmap(max int) (*Mmap, error) {
	if max <= 0 {
		return nil, fmt.Errorf("arena: reservation must be positive (%d)", max)
	}
	page := os.Getpagesize()
	max = (max + page - 1) &^ (page - 1)

	region, err := unix.Mmap(-1, 0, max, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", max, err)
	}
	return &Mmap{region: region}, nil
}

// Bytes returns the committed region.
func (m *Mmap) Bytes() []byte { return m.region[:m.size] }

// Size returns the committed length in bytes.
func (m *Mmap) Size() int { return m.size }

// Extend commits n more bytes of the reservation.
func (m *Mmap) Extend(n int) error {
	if n < 0 {
		return fmt.Errorf("arena: negative extend (%d)", n)
	}
	if m.size+n > len(m.region) {
		return ErrExhausted
	}
	page := os.Getpagesize()
	lo := m.size &^ (page - 1)
	hi := (m.size + n + page - 1) &^ (page - 1)
	if hi > len(m.region) {
		hi = len(m.region)
	}
	if err := unix.Mprotect(m.region[lo:hi], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return fmt.Errorf("arena: commit %d bytes: %w", n, err)
	}
	m.size += n
	return nil
}

// Close releases the reservation. The arena must not be used afterwards.
func (m *Mmap) Close() error {
	if m.region == nil {
		return nil
	}
	err := unix.Munmap(m.region)
	m.region = nil
	m.size = 0
	return err
}
