package codec

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

func validTotal(m uint32) bool {
	return m == 256 || m == 1024 || m == 4096
}

// totalBits returns log2 of a valid normalisation total.
func totalBits(m uint32) uint {
	return uint(bits.Len32(m) - 1)
}

// argmax returns the index of the largest element, the lowest index on ties.
func argmax[T constraints.Integer](xs []T) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

// histogram counts xs into bins indexed by x - lo.
func histogram[T constraints.Integer](xs []T, lo T, bins int) []uint32 {
	h := make([]uint32, bins)
	for _, x := range xs {
		h[int(x)-int(lo)]++
	}
	return h
}

// Normalize scales counts so they sum to total while every positive count
// stays positive. Each count becomes ⌊f·total/T⌋, counts that dropped to zero
// are lifted to one, and the current maximum (lowest index on ties) absorbs
// the remaining surplus or deficit one unit at a time.
func Normalize(counts []uint32, total uint32) ([]uint32, error) {
	if total == 0 {
		return nil, invalidf("normalisation total is zero")
	}
	var sum uint64
	positive := 0
	for _, c := range counts {
		sum += uint64(c)
		if c > 0 {
			positive++
		}
	}
	if sum == 0 {
		return nil, invalidf("histogram is empty")
	}
	if positive > int(total) {
		return nil, invalidf("%d used symbols exceed normalisation total %d", positive, total)
	}
	out := make([]uint32, len(counts))
	var s uint64
	for i, c := range counts {
		if c == 0 {
			continue
		}
		n := uint64(c) * uint64(total) / sum
		if n == 0 {
			n = 1
		}
		out[i] = uint32(n)
		s += n
	}
	for s > uint64(total) {
		out[argmax(out)]--
		s--
	}
	for s < uint64(total) {
		out[argmax(out)]++
		s++
	}
	return out, nil
}

// FreqTable is a normalised frequency table with cumulative starts and a
// slot-to-symbol lookup for decoding.
type FreqTable struct {
	freq  []uint32
	cum   []uint32
	total uint32
	slot  []uint16
}

// NewFreqTable validates freq against total and builds the lookup tables.
func NewFreqTable(freq []uint32, total uint32) (*FreqTable, error) {
	if !validTotal(total) {
		return nil, fmt.Errorf("%w: normalisation total %d", ErrCorruptCodebook, total)
	}
	if len(freq) == 0 || len(freq) > int(total) {
		return nil, fmt.Errorf("%w: alphabet of %d symbols for total %d", ErrCorruptCodebook, len(freq), total)
	}
	t := &FreqTable{
		freq:  append([]uint32(nil), freq...),
		cum:   make([]uint32, len(freq)+1),
		total: total,
	}
	var s uint64
	for i, f := range freq {
		t.cum[i] = uint32(s)
		s += uint64(f)
	}
	if s != uint64(total) {
		return nil, fmt.Errorf("%w: frequencies sum to %d, want %d", ErrCorruptCodebook, s, total)
	}
	t.cum[len(freq)] = total
	t.slot = make([]uint16, total)
	for i, f := range freq {
		for k := t.cum[i]; k < t.cum[i]+f; k++ {
			t.slot[k] = uint16(i)
		}
	}
	return t, nil
}

// Len returns the alphabet size.
func (t *FreqTable) Len() int { return len(t.freq) }

// Total returns the normalisation total M.
func (t *FreqTable) Total() uint32 { return t.total }

// Freq returns the frequency of sym.
func (t *FreqTable) Freq(sym int) uint32 { return t.freq[sym] }

// Cum returns the cumulative start of sym.
func (t *FreqTable) Cum(sym int) uint32 { return t.cum[sym] }

// Lookup returns the symbol owning slot, slot < Total().
func (t *FreqTable) Lookup(slot uint32) int { return int(t.slot[slot]) }
