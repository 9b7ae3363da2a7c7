// Package arena provides the growable contiguous byte region the heap
// allocator manages. An Arena owns one region whose committed prefix only
// ever grows; the allocator treats Extend failure as out-of-memory and
// surfaces it to its caller without touching existing state.
package arena

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Extend when the arena cannot grow further.
var ErrExhausted = errors.New("arena: region exhausted")

// Arena is one contiguous, growable byte region.
//
// Bytes returns the committed region; the slice is invalidated by Extend,
// so callers must re-fetch it after every successful grow. Size reports
// the committed length (the region spans [0, Size) from its base).
type Arena interface {
	Bytes() []byte
	Size() int
	Extend(n int) error
}

// Slice is a heap-allocated Arena with an optional byte limit. A limit of
// zero means unbounded; a positive limit makes Extend fail with
// ErrExhausted once the region would outgrow it, which is how tests
// exercise the allocator's out-of-memory path.
type Slice struct {
	buf   []byte
	limit int
}

// NewSlice returns an empty slice-backed arena capped at limit bytes
// (0 = no cap).
func NewSlice(limit int) *Slice {
	return &Slice{limit: limit}
}

// Bytes returns the committed region.
func (s *Slice) Bytes() []byte { return s.buf }

// Size returns the committed length in bytes.
func (s *Slice) Size() int { return len(s.buf) }

// Extend grows the region by n zeroed bytes.
func (s *Slice) Extend(n int) error {
	if n < 0 {
		return fmt.Errorf("arena: negative extend (%d)", n)
	}
	if s.limit > 0 && len(s.buf)+n > s.limit {
		return ErrExhausted
	}
	s.buf = append(s.buf, make([]byte, n)...)
	return nil
}
