package heap

import "errors"

var (
	// ErrOutOfMemory indicates that no free block was large enough and the
	// underlying region could not be extended.
	ErrOutOfMemory = errors.New("heap: cannot extend region")

	// ErrInvalidSize indicates a negative size or count request.
	ErrInvalidSize = errors.New("heap: invalid size request")

	// ErrSizeOverflow indicates that size arithmetic (request rounding or
	// count*size) would overflow.
	ErrSizeOverflow = errors.New("heap: size arithmetic overflow")

	// ErrBadConfig indicates an invalid bin partition or tuning value.
	ErrBadConfig = errors.New("heap: invalid configuration")

	// ErrArenaInUse indicates the arena handed to New already holds data.
	ErrArenaInUse = errors.New("heap: arena already in use")
)
