package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vSIS-Codec/bitstream"
)

func riceRoundTrip(t *testing.T, values []uint32, r uint) {
	t.Helper()
	bits := 0
	for _, v := range values {
		bits += RiceLen(v, r)
	}
	w := bitstream.NewWriter((bits + 7) / 8)
	for _, v := range values {
		require.NoError(t, WriteRice(w, v, r))
	}
	require.Equal(t, bits, w.BitLen())
	rd := bitstream.NewReader(w.Finish())
	for i, want := range values {
		got, err := ReadRice(rd, r, 1<<20)
		require.NoError(t, err)
		if got != want {
			t.Fatalf("r=%d value %d: got %d want %d", r, i, got, want)
		}
	}
}

func TestRiceRoundTripUpTo2Pow20(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for r := uint(0); r <= MaxRiceParam; r++ {
		values := []uint32{0, 1, 2, 15, 16, 17, 63, 64, 65, 1 << r, 1<<20 - 1, 1 << 20}
		// Unary runs at r=0 are long; keep the random sample small there.
		n := 200
		if r == 0 {
			n = 20
		}
		for i := 0; i < n; i++ {
			values = append(values, uint32(rng.Intn(1<<20+1)))
		}
		riceRoundTrip(t, values, r)
	}
}

func TestRiceExactBits(t *testing.T) {
	w := bitstream.NewWriter(2)
	require.NoError(t, WriteRice(w, 37, 4)) // q=2: 110 0101
	assert.Equal(t, 7, w.BitLen())
	assert.Equal(t, []byte{0b11001010}, w.Finish())
}

func TestRiceQuotientCap(t *testing.T) {
	w := bitstream.NewWriter(512)
	require.NoError(t, WriteRice(w, (RiceMaxQuotient+1)<<2, 2))
	_, err := ReadRice(bitstream.NewReader(w.Finish()), 2, RiceMaxQuotient)
	assert.ErrorIs(t, err, ErrCorruptBitstream)

	w = bitstream.NewWriter(512)
	require.NoError(t, WriteRice(w, RiceMaxQuotient<<2|3, 2))
	v, err := ReadRice(bitstream.NewReader(w.Finish()), 2, RiceMaxQuotient)
	require.NoError(t, err)
	assert.Equal(t, uint32(RiceMaxQuotient<<2|3), v)
}

func TestRiceTruncated(t *testing.T) {
	_, err := ReadRice(bitstream.NewReader([]byte{0xFF}), 3, RiceMaxQuotient)
	assert.ErrorIs(t, err, ErrCorruptBitstream)
	assert.ErrorIs(t, err, bitstream.ErrOutOfBounds)
	_, err = ReadRice(bitstream.NewReader([]byte{0x00}), 8, RiceMaxQuotient)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRiceParamFor(t *testing.T) {
	assert.Equal(t, uint(4), riceParamFor(100, 4))
	assert.Equal(t, uint(4), riceParamFor(RiceMaxQuotient<<4|15, 4))
	assert.Equal(t, uint(5), riceParamFor((RiceMaxQuotient+1)<<4, 4))
	assert.Equal(t, uint(6), riceParamFor(65534, 4))
}
