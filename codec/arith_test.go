package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vSIS-Codec/bitstream"
)

func TestAdaptiveModelRescales(t *testing.T) {
	m := newAdaptiveModel(3)
	for i := 0; i < 5000; i++ {
		m.update(1)
	}
	assert.LessOrEqual(t, m.total, uint32(adaptiveLimit))
	var s uint32
	for _, f := range m.freq {
		assert.NotZero(t, f)
		s += f
	}
	assert.Equal(t, m.total, s)
	lo, hi := m.span(2)
	assert.Equal(t, uint64(m.total), hi)
	sym, flo, fhi := m.find(lo)
	assert.Equal(t, 2, sym)
	assert.Equal(t, lo, flo)
	assert.Equal(t, hi, fhi)
}

func TestArithRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		nsym := 1 + rng.Intn(30)
		uni := uint64(1 + rng.Intn(70000))
		n := rng.Intn(3000)
		syms := make([]int, n)
		raw := make([]uint64, n)
		for i := range syms {
			// Skewed towards low symbols so the model has something to learn.
			syms[i] = rng.Intn(1+rng.Intn(nsym)) % nsym
			raw[i] = uint64(rng.Int63n(int64(uni)))
		}

		w := bitstream.NewWriter(8 + n*8)
		require.NoError(t, w.WriteBits(0b101, 3))
		enc := newArithEncoder(w)
		m := newAdaptiveModel(nsym)
		for i := range syms {
			require.NoError(t, enc.encodeSymbol(m, syms[i]))
			require.NoError(t, enc.encodeUniform(raw[i], uni))
		}
		require.NoError(t, enc.close())

		rd := bitstream.NewReader(w.Finish())
		hdr, err := rd.ReadBits(3)
		require.NoError(t, err)
		require.Equal(t, uint64(0b101), hdr)
		dec, err := newArithDecoder(rd)
		require.NoError(t, err)
		dm := newAdaptiveModel(nsym)
		for i := range syms {
			s, err := dec.decodeSymbol(dm)
			require.NoError(t, err)
			require.Equal(t, syms[i], s, "trial %d symbol %d", trial, i)
			v, err := dec.decodeUniform(uni)
			require.NoError(t, err)
			require.Equal(t, raw[i], v, "trial %d raw %d", trial, i)
		}
	}
}

func TestArithCompressesSkewedInput(t *testing.T) {
	w := bitstream.NewWriter(1 << 12)
	enc := newArithEncoder(w)
	m := newAdaptiveModel(4)
	for i := 0; i < 4000; i++ {
		sym := 0
		if i%50 == 0 {
			sym = 3
		}
		require.NoError(t, enc.encodeSymbol(m, sym))
	}
	require.NoError(t, enc.close())
	// Two bits per symbol uncoded; the adaptive model should do far better.
	assert.Less(t, w.Len(), 200)
}

func TestArithOverrun(t *testing.T) {
	dec, err := newArithDecoder(bitstream.NewReader(nil))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		if _, err = dec.decodeUniform(256); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrCorruptBitstream)
}
