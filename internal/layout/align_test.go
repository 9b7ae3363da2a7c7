package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign8(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, 0},
		{"one", 1, 8},
		{"seven", 7, 8},
		{"exact", 8, 8},
		{"nine", 9, 16},
		{"exact large", 4096, 4096},
		{"large plus one", 4097, 4104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Align8(tt.in))
		})
	}
}

func TestAligned8(t *testing.T) {
	assert.True(t, Aligned8(0))
	assert.True(t, Aligned8(8))
	assert.True(t, Aligned8(400))
	assert.False(t, Aligned8(4))
	assert.False(t, Aligned8(9))
}

func TestMinBlockIsAligned(t *testing.T) {
	assert.True(t, Aligned8(MinBlock))
	assert.Equal(t, MinBlock, MinPayload+Bookkeeping)
}
