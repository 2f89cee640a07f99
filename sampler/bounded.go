package sampler

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Bounds is an inclusive coefficient range.
type Bounds struct {
	Min int64
	Max int64
}

// SparseBounds is the value range of the sparse-single pipeline.
var SparseBounds = Bounds{Min: -8, Max: 8}

func (b Bounds) validate() error {
	if b.Max < b.Min {
		return fmt.Errorf("%w: bounds max < min (%d < %d)", ErrInvalidOpts, b.Max, b.Min)
	}
	if b.Max-b.Min+1 <= 0 {
		return fmt.Errorf("%w: bounds overflow", ErrInvalidOpts)
	}
	return nil
}

// NewPRNG returns a lattigo keyed PRNG for a 32-byte seed.
func NewPRNG(seed [32]byte) (utils.PRNG, error) {
	prng, err := utils.NewKeyedPRNG(seed[:])
	if err != nil {
		return nil, fmt.Errorf("keyed prng: %w", err)
	}
	return prng, nil
}

// uniformBelow draws a word uniformly from [0, n) by rejecting the biased
// top of the 64-bit range.
func uniformBelow(prng utils.PRNG, buf []byte, n uint64) (uint64, error) {
	threshold := (^uint64(0) / n) * n
	for {
		if _, err := io.ReadFull(prng, buf[:8]); err != nil {
			return 0, fmt.Errorf("prng read: %w", err)
		}
		if w := binary.LittleEndian.Uint64(buf); w < threshold {
			return w % n, nil
		}
	}
}

// BoundedFromPRNG draws n coefficients uniformly from b.
func BoundedFromPRNG(prng utils.PRNG, n int, b Bounds) ([]int64, error) {
	if prng == nil {
		return nil, fmt.Errorf("%w: nil PRNG", ErrInvalidOpts)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidOpts, n)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	span := uint64(b.Max - b.Min + 1)
	buf := make([]byte, 8)
	out := make([]int64, n)
	for i := range out {
		w, err := uniformBelow(prng, buf, span)
		if err != nil {
			return nil, err
		}
		out[i] = int64(w) + b.Min
	}
	return out, nil
}

// ResiduesFromPRNG draws n residues uniformly from [0, modulus).
func ResiduesFromPRNG(prng utils.PRNG, n, modulus int) ([]uint16, error) {
	if modulus < 1 || modulus > 1<<16 {
		return nil, fmt.Errorf("%w: modulus %d", ErrInvalidOpts, modulus)
	}
	v, err := BoundedFromPRNG(prng, n, Bounds{Min: 0, Max: int64(modulus - 1)})
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i, x := range v {
		out[i] = uint16(x)
	}
	return out, nil
}

// SparseFromPRNG returns a vector of dim entries with exactly weight
// non-zeros, placed at uniformly chosen positions and drawn uniformly from
// the non-zero values of b. b must fit in int8.
func SparseFromPRNG(prng utils.PRNG, dim, weight int, b Bounds) ([]int8, error) {
	if prng == nil {
		return nil, fmt.Errorf("%w: nil PRNG", ErrInvalidOpts)
	}
	if dim < 0 || weight < 0 || weight > dim {
		return nil, fmt.Errorf("%w: weight %d in dimension %d", ErrInvalidOpts, weight, dim)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.Min < -128 || b.Max > 127 {
		return nil, fmt.Errorf("%w: bounds [%d,%d] exceed int8", ErrInvalidOpts, b.Min, b.Max)
	}
	var values []int8
	for x := b.Min; x <= b.Max; x++ {
		if x != 0 {
			values = append(values, int8(x))
		}
	}
	if weight > 0 && len(values) == 0 {
		return nil, fmt.Errorf("%w: bounds hold no non-zero value", ErrInvalidOpts)
	}

	// Partial Fisher–Yates over the positions.
	perm := make([]int, dim)
	for i := range perm {
		perm[i] = i
	}
	buf := make([]byte, 8)
	out := make([]int8, dim)
	for i := 0; i < weight; i++ {
		j, err := uniformBelow(prng, buf, uint64(dim-i))
		if err != nil {
			return nil, err
		}
		k := i + int(j)
		perm[i], perm[k] = perm[k], perm[i]
		v, err := uniformBelow(prng, buf, uint64(len(values)))
		if err != nil {
			return nil, err
		}
		out[perm[i]] = values[v]
	}
	return out, nil
}
