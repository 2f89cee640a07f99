package codec

import "math/bits"

// Worst-case blob sizes. Encoders size their writers with these; running
// past them is reported as ErrBufferOverflow.

// positionWidth is the bit width of a first-position field: 11 bits, or
// wider when the dimension needs it.
func positionWidth(dim int) uint {
	w := uint(bits.Len(uint(dim - 1)))
	if w < 11 {
		w = 11
	}
	return w
}

// valueWidth is ⌈log₂ modulus⌉, the width of a raw coefficient.
func valueWidth(modulus int) uint {
	return uint(bits.Len(uint(modulus - 1)))
}

// riceBound bounds the Rice-coded gaps of count positions inside dim.
func riceBound(dim, count int) int {
	// Gaps sum to less than dim; each also pays a terminator and r bits.
	return dim + count*(1+MaxRiceParam)
}

// ransBound bounds a rANS stream of count symbols: at most two bytes per
// symbol plus the final state.
func ransBound(count int) int {
	return 2*count + ransStateBytes
}

// MaxSparseSize is the largest sparse-single blob for a vector of dim
// entries.
func MaxSparseSize(dim int) int {
	header := 16 + 4 + 16*8 + 3 + int(positionWidth(dim))
	body := riceBound(dim, dim) + dim*(MaxHuffmanLen-1)
	return (header+body+7)/8 + 2
}

// MaxSparseBatchSize is the largest sparse-batch blob for n vectors of dim
// entries.
func MaxSparseBatchSize(n, dim int) int {
	count := n * dim
	if count > MaxVectors {
		count = MaxVectors
	}
	header := 3*16 + 2*8 + 256 + 255*12 + 3
	perVector := n*(16+int(positionWidth(dim))) + n*riceBound(dim, dim)
	return (header+perVector+7)/8 + ransBound(count)
}

// MaxDenseRangeSize is the largest dense-range blob for dim coefficients.
func MaxDenseRangeSize(dim int) int {
	// Each coefficient costs at most 16 bits for its class and 16 for its
	// payload, plus rounding slack of the coder.
	return 5 + dim*5 + 8
}

// MaxDenseBatchSize is the largest dense-batch blob for n vectors of dim
// coefficients below modulus, normalised to total.
func MaxDenseBatchSize(n, dim, modulus int, total uint32) int {
	unique := int(total)
	if modulus < unique {
		unique = modulus
	}
	header := 4*16 + unique*(int(valueWidth(modulus))+int(totalBits(total)))
	return (header+7)/8 + ransBound(n*dim)
}
