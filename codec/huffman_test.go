package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vSIS-Codec/bitstream"
)

// isPrefixFree checks every pair of codes.
func isPrefixFree(h *HuffmanCode) bool {
	for a := 0; a < h.Len(); a++ {
		ca, la := h.Code(a)
		if la == 0 {
			continue
		}
		for b := 0; b < h.Len(); b++ {
			cb, lb := h.Code(b)
			if a == b || lb == 0 || lb < la {
				continue
			}
			if cb>>(lb-la) == ca {
				return false
			}
		}
	}
	return true
}

func TestHuffmanCanonicalAssignment(t *testing.T) {
	h, err := NewHuffmanCodeFromLengths([]uint8{2, 1, 3, 3, 0})
	require.NoError(t, err)
	want := []struct {
		code uint32
		len  uint8
	}{{0b10, 2}, {0b0, 1}, {0b110, 3}, {0b111, 3}, {0, 0}}
	for s, w := range want {
		c, l := h.Code(s)
		assert.Equal(t, w.len, l, "symbol %d", s)
		if l > 0 {
			assert.Equal(t, w.code, c, "symbol %d", s)
		}
	}
}

func TestHuffmanPrefixFreeAndRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(17)
		freqs := make([]uint32, n)
		for i := range freqs {
			if rng.Intn(4) != 0 {
				freqs[i] = uint32(rng.Intn(1000))
			}
		}
		freqs[rng.Intn(n)]++
		h, err := NewHuffmanCode(freqs)
		require.NoError(t, err)
		require.True(t, isPrefixFree(h), "trial %d", trial)

		var syms []int
		for s, f := range freqs {
			if f > 0 {
				syms = append(syms, s, s)
			}
		}
		rng.Shuffle(len(syms), func(i, j int) { syms[i], syms[j] = syms[j], syms[i] })
		w := bitstream.NewWriter(len(syms)*MaxHuffmanLen/8 + 1)
		for _, s := range syms {
			require.NoError(t, h.Encode(w, s))
		}
		rd := bitstream.NewReader(w.Finish())
		for i, want := range syms {
			got, err := h.Decode(rd)
			require.NoError(t, err)
			if got != want {
				t.Fatalf("trial %d symbol %d: got %d want %d", trial, i, got, want)
			}
		}

		// The decoder side only sees lengths.
		h2, err := NewHuffmanCodeFromLengths(h.Lengths())
		require.NoError(t, err)
		for s := range freqs {
			c1, l1 := h.Code(s)
			c2, l2 := h2.Code(s)
			assert.Equal(t, l1, l2)
			assert.Equal(t, c1, c2)
		}
	}
}

func TestHuffmanSingleSymbol(t *testing.T) {
	h, err := NewHuffmanCode([]uint32{0, 0, 7, 0})
	require.NoError(t, err)
	c, l := h.Code(2)
	assert.Equal(t, uint8(1), l)
	assert.Equal(t, uint32(0), c)

	w := bitstream.NewWriter(1)
	require.NoError(t, h.Encode(w, 2))
	require.NoError(t, h.Encode(w, 2))
	rd := bitstream.NewReader(w.Finish())
	for i := 0; i < 2; i++ {
		s, err := h.Decode(rd)
		require.NoError(t, err)
		assert.Equal(t, 2, s)
	}
	_, err = h.Decode(bitstream.NewReader([]byte{0x80}))
	assert.ErrorIs(t, err, ErrCorruptBitstream)
}

func TestHuffmanSkewedLengthsAreCapped(t *testing.T) {
	// Fibonacci weights produce a maximally unbalanced tree.
	freqs := make([]uint32, 24)
	a, b := uint32(1), uint32(1)
	for i := range freqs {
		freqs[i] = a
		a, b = b, a+b
	}
	h, err := NewHuffmanCode(freqs)
	require.NoError(t, err)
	for s, l := range h.Lengths() {
		assert.LessOrEqual(t, int(l), MaxHuffmanLen, "symbol %d", s)
		assert.NotZero(t, l)
	}
	assert.True(t, isPrefixFree(h))
}

func TestHuffmanRejectsBadInput(t *testing.T) {
	_, err := NewHuffmanCode([]uint32{0, 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewHuffmanCodeFromLengths([]uint8{1, 1, 1})
	assert.ErrorIs(t, err, ErrCorruptCodebook)
	_, err = NewHuffmanCodeFromLengths([]uint8{0, 0})
	assert.ErrorIs(t, err, ErrCorruptCodebook)
	_, err = NewHuffmanCodeFromLengths([]uint8{17, 1})
	assert.ErrorIs(t, err, ErrCorruptCodebook)

	h, err := NewHuffmanCodeFromLengths([]uint8{1, 0, 1})
	require.NoError(t, err)
	assert.ErrorIs(t, h.Encode(bitstream.NewWriter(1), 1), ErrCorruptCodebook)

	_, err = h.Decode(bitstream.NewReader(nil))
	assert.ErrorIs(t, err, ErrCorruptBitstream)
}
