//go:build !unix

package arena

// Mmap falls back to a capped slice arena on platforms without anonymous
// mappings. Bytes is not address-stable across Extend here, matching the
// Arena contract rather than the unix implementation's stronger guarantee.
type Mmap struct {
	Slice
}

// NewMmap returns a slice-backed arena capped at max bytes.
func NewMmap(max int) (*Mmap, error) {
	return &Mmap{Slice{limit: max}}, nil
}

// Close is a no-op for the fallback arena.
func (m *Mmap) Close() error { return nil }
