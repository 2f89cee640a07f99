package bitstream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterMSBFirst(t *testing.T) {
	w := NewWriter(4)
	require.NoError(t, w.WriteBit(1))
	require.NoError(t, w.WriteBits(0b011, 3))
	require.NoError(t, w.WriteBits(0x3, 16))
	assert.Equal(t, 20, w.BitLen())
	assert.Equal(t, []byte{0xB0, 0x00, 0x30}, w.Finish())
}

func TestWriterCapacity(t *testing.T) {
	w := NewWriter(1)
	require.NoError(t, w.WriteBits(0x7F, 7))
	require.NoError(t, w.WriteBit(1))
	assert.ErrorIs(t, w.WriteBit(1), ErrOutOfBounds)
	assert.ErrorIs(t, w.WriteBits(1, 2), ErrOutOfBounds)
	assert.ErrorIs(t, w.WriteByte(0), ErrOutOfBounds)
	assert.Equal(t, []byte{0xFF}, w.Finish())
}

func TestAlignAndBytes(t *testing.T) {
	w := NewWriter(8)
	require.NoError(t, w.WriteBits(0b101, 3))
	assert.ErrorIs(t, w.WriteByte(0xAA), ErrNotAligned)
	w.Align()
	require.NoError(t, w.WriteByte(0xAA))
	require.NoError(t, w.WriteBytes([]byte{1, 2, 3}))
	out := w.Finish()
	assert.Equal(t, []byte{0xA0, 0xAA, 1, 2, 3}, out)

	r := NewReader(out)
	v, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0b101), v)
	_, err = r.ReadByte()
	assert.ErrorIs(t, err, ErrNotAligned)
	r.Align()
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)
	rest, err := r.Rest()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, rest)
	_, err = r.ReadBit()
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRandomFieldsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	type field struct {
		v uint64
		k uint
	}
	fields := make([]field, 2000)
	total := 0
	for i := range fields {
		k := uint(rng.Intn(65))
		v := rng.Uint64()
		if k < 64 {
			v &= 1<<k - 1
		}
		fields[i] = field{v, k}
		total += int(k)
	}
	w := NewWriter((total + 7) / 8)
	for _, f := range fields {
		require.NoError(t, w.WriteBits(f.v, f.k))
	}
	assert.Equal(t, total, w.BitLen())
	r := NewReader(w.Finish())
	for i, f := range fields {
		got, err := r.ReadBits(f.k)
		require.NoError(t, err)
		if got != f.v {
			t.Fatalf("field %d: got %x want %x (k=%d)", i, got, f.v, f.k)
		}
	}
	assert.Less(t, r.Remaining(), 8)
}

func TestReaderOutOfBounds(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := r.ReadBits(9)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	v, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFF), v)
	assert.Equal(t, 0, r.Remaining())
}
