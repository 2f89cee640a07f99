package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vSIS-Codec/measure"
)

func randomSparse(rng *rand.Rand, dim, weight, bound int) []int8 {
	v := make([]int8, dim)
	for _, p := range rng.Perm(dim)[:weight] {
		x := 0
		for x == 0 {
			x = rng.Intn(2*bound+1) - bound
		}
		v[p] = int8(x)
	}
	return v
}

func TestSparseScenario(t *testing.T) {
	v := []int8{0, 3, 0, 0, -2, 0, 0, 0, 0, 5, 0, 0}
	blob, err := EncodeSparse(v, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(blob), 2)
	assert.Equal(t, []byte{0x00, 0x03}, blob[:2])

	got, err := DecodeSparse(blob, len(v), nil)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestSparseAllZero(t *testing.T) {
	v := make([]int8, 40)
	blob, err := EncodeSparse(v, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, blob)
	got, err := DecodeSparse(blob, len(v), nil)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestSparseBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tests := []struct {
		name string
		v    []int8
	}{
		{"single non-zero", func() []int8 { v := make([]int8, 100); v[37] = -8; return v }()},
		{"single value", func() []int8 {
			v := make([]int8, 500)
			for i := 0; i < 500; i += 7 {
				v[i] = 1
			}
			return v
		}()},
		{"every value", func() []int8 {
			v := make([]int8, 17)
			for i := range v {
				v[i] = int8(i - 8)
			}
			return v
		}()},
		{"dense", randomSparse(rng, 256, 256, 8)},
		{"length one", []int8{-3}},
		{"max dimension", randomSparse(rng, MaxDimension, 300, 8)},
		{"far apart", func() []int8 {
			v := make([]int8, MaxDimension)
			v[0], v[MaxDimension-1] = 2, -2
			return v
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := EncodeSparse(tt.v, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(blob), MaxSparseSize(len(tt.v)))
			got, err := DecodeSparse(blob, len(tt.v), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.v, got)
		})
	}
}

func TestSparseRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for trial := 0; trial < 200; trial++ {
		dim := 1 + rng.Intn(4096)
		v := randomSparse(rng, dim, rng.Intn(dim+1)/4, 1+rng.Intn(8))
		blob, err := EncodeSparse(v, nil)
		require.NoError(t, err)
		got, err := DecodeSparse(blob, dim, nil)
		require.NoError(t, err)
		require.Equal(t, v, got, "trial %d", trial)
	}
}

func TestSparseRejects(t *testing.T) {
	_, err := EncodeSparse(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = EncodeSparse([]int8{0, 9}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = EncodeSparse(make([]int8, MaxDimension+1), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = EncodeSparse([]int8{1}, &Options{SparseTotal: 512})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DecodeSparse([]byte{0, 0}, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSparseCorruptInput(t *testing.T) {
	v := []int8{0, 3, 0, 0, -2, 0, 0, 0, 0, 5, 0, 0}
	blob, err := EncodeSparse(v, nil)
	require.NoError(t, err)

	_, err = DecodeSparse(blob[:1], len(v), nil)
	assert.ErrorIs(t, err, ErrCorruptBitstream)
	_, err = DecodeSparse(blob[:4], len(v), nil)
	assert.ErrorIs(t, err, ErrCorruptBitstream)

	// The last non-zero sits at 9; a shorter vector cannot hold it.
	_, err = DecodeSparse(blob, 9, nil)
	assert.ErrorIs(t, err, ErrCorruptBitstream)
	// More non-zeros than entries.
	_, err = DecodeSparse(blob, 2, nil)
	assert.ErrorIs(t, err, ErrCorruptBitstream)
}

func TestSparseRecordsSections(t *testing.T) {
	rec := measure.NewRecorder()
	v := randomSparse(rand.New(rand.NewSource(13)), 1024, 40, 4)
	blob, err := EncodeSparse(v, &Options{Measure: rec})
	require.NoError(t, err)

	header := rec.Get("codec/sparse/header")
	positions := rec.Get("codec/sparse/positions")
	values := rec.Get("codec/sparse/values")
	assert.NotZero(t, header)
	assert.NotZero(t, positions)
	assert.NotZero(t, values)
	assert.Equal(t, uint64(len(blob)*8), rec.Get("codec/sparse/total"))
	assert.LessOrEqual(t, header+positions+values, rec.Get("codec/sparse/total"))
	assert.Equal(t, uint64(1), rec.Get("codec/sparse/blobs"))
}
