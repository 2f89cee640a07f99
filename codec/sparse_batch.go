package codec

import (
	"fmt"

	"vSIS-Codec/bitstream"
)

// Sparse-batch blob layout, every field MSB-first:
//
//	num_vectors     16
//	dimension       16
//	global_count    16
//	min_val+128      8
//	max_val+128      8
//	presence         max_val-min_val+1 bits
//	freq-1           log₂M bits per present value
//	rice param       3
//	per vector: count 16, first pos 11 (or wider), Rice gaps
//	<byte align>
//	rANS stream over every non-zero value, batch order
//
// A batch without non-zeros stops after global_count.

func checkBatch[T any](vs [][]T) (n, dim int, err error) {
	n = len(vs)
	if n == 0 {
		return 0, 0, invalidf("empty batch")
	}
	dim = len(vs[0])
	for i, v := range vs {
		if len(v) != dim {
			return 0, 0, invalidf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return n, dim, checkShape(n, dim)
}

// sparseRiceNominal picks 4 for sparse gaps and 3 otherwise.
func sparseRiceNominal(gapSum, gapCount int) uint {
	if gapCount > 0 && gapSum >= 16*gapCount {
		return 4
	}
	return 3
}

// EncodeSparseBatch compresses vectors of equal dimension with signed 8-bit
// entries. Positions are Rice-coded per vector; all values share one
// frequency table and one rANS stream.
func EncodeSparseBatch(vs [][]int8, opts *Options) ([]byte, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	n, dim, err := checkBatch(vs)
	if err != nil {
		return nil, err
	}
	nzs := make([]nonZeros, n)
	var values []int8
	gapSum, gapCount := 0, 0
	var widest uint32
	for i, v := range vs {
		nzs[i] = scanNonZeros(v)
		values = append(values, nzs[i].val...)
		if c := len(nzs[i].pos); c > 1 {
			gapSum += nzs[i].pos[c-1] - nzs[i].pos[0] - (c - 1)
			gapCount += c - 1
			if g := maxGap(nzs[i].pos); g > widest {
				widest = g
			}
		}
	}
	if len(values) > MaxVectors {
		return nil, invalidf("%d non-zeros exceed the 16-bit global count", len(values))
	}

	sz := newSizes(o, "sparse_batch")
	w := bitstream.NewWriter(MaxSparseBatchSize(n, dim))
	for _, f := range []uint64{uint64(n), uint64(dim), uint64(len(values))} {
		if err := w.WriteBits(f, 16); err != nil {
			return nil, writeErr("header", err)
		}
	}
	if len(values) == 0 {
		sz.add("header", w.BitLen())
		blob := w.Finish()
		sz.commit(len(blob))
		return blob, nil
	}

	lo, hi := values[0], values[0]
	for _, x := range values {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	hist := histogram(values, lo, int(hi)-int(lo)+1)
	// Alphabet symbols are the present values in ascending order.
	var counts []uint32
	index := make([]int, len(hist))
	for i, c := range hist {
		if c > 0 {
			index[i] = len(counts)
			counts = append(counts, c)
		}
	}
	freq, err := Normalize(counts, o.SparseTotal)
	if err != nil {
		return nil, err
	}
	ft, err := NewFreqTable(freq, o.SparseTotal)
	if err != nil {
		return nil, err
	}

	if err := w.WriteBits(uint64(int(lo)+128), 8); err != nil {
		return nil, writeErr("min value", err)
	}
	if err := w.WriteBits(uint64(int(hi)+128), 8); err != nil {
		return nil, writeErr("max value", err)
	}
	for _, c := range hist {
		bit := uint(0)
		if c > 0 {
			bit = 1
		}
		if err := w.WriteBit(bit); err != nil {
			return nil, writeErr("presence", err)
		}
	}
	fb := totalBits(o.SparseTotal)
	for _, f := range freq {
		if err := w.WriteBits(uint64(f-1), fb); err != nil {
			return nil, writeErr("frequencies", err)
		}
	}
	r := riceParamFor(widest, sparseRiceNominal(gapSum, gapCount))
	if err := w.WriteBits(uint64(r), 3); err != nil {
		return nil, writeErr("rice parameter", err)
	}
	mark := w.BitLen()
	sz.add("header", mark)

	width := positionWidth(dim)
	for i, nz := range nzs {
		if err := w.WriteBits(uint64(len(nz.pos)), 16); err != nil {
			return nil, writeErr("vector count", err)
		}
		if len(nz.pos) == 0 {
			continue
		}
		if err := writePositions(w, nz.pos, width, r); err != nil {
			return nil, writeErr(fmt.Sprintf("positions of vector %d", i), err)
		}
	}
	w.Align()
	sz.add("positions", w.BitLen()-mark)

	syms := make([]int, len(values))
	for i, x := range values {
		syms[i] = index[int(x)-int(lo)]
	}
	stream, err := EncodeRans(ft, syms)
	if err != nil {
		return nil, err
	}
	if err := w.WriteBytes(stream); err != nil {
		return nil, writeErr("rans stream", err)
	}
	sz.add("values", len(stream)*8)

	blob := w.Finish()
	sz.commit(len(blob))
	dbg("[sparse-batch] encode n=%d dim=%d count=%d alphabet=%d r=%d bytes=%d\n",
		n, dim, len(values), len(freq), r, len(blob))
	return blob, nil
}

// DecodeSparseBatch reverses EncodeSparseBatch for n vectors of dim entries.
func DecodeSparseBatch(blob []byte, n, dim int, opts *Options) ([][]int8, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkShape(n, dim); err != nil {
		return nil, err
	}
	rd := bitstream.NewReader(blob)
	var hdr [3]uint64
	for i := range hdr {
		if hdr[i], err = rd.ReadBits(16); err != nil {
			return nil, readErr("header", err)
		}
	}
	if int(hdr[0]) != n || int(hdr[1]) != dim {
		return nil, shapef("blob holds %d×%d, want %d×%d", hdr[0], hdr[1], n, dim)
	}
	global := int(hdr[2])
	out := make([][]int8, n)
	flat := make([]int8, n*dim)
	for i := range out {
		out[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	if global == 0 {
		return out, nil
	}
	if global > n*dim {
		return nil, corruptf("%d non-zeros in %d coefficients", global, n*dim)
	}

	lohi, err := rd.ReadBits(16)
	if err != nil {
		return nil, readErr("value range", err)
	}
	lo, hi := int(lohi>>8)-128, int(lohi&0xFF)-128
	if lo > hi {
		return nil, fmt.Errorf("%w: value range [%d,%d]", ErrCorruptCodebook, lo, hi)
	}
	var alphabet []int8
	for x := lo; x <= hi; x++ {
		bit, err := rd.ReadBit()
		if err != nil {
			return nil, readErr("presence", err)
		}
		if bit == 0 {
			continue
		}
		if x == 0 {
			return nil, fmt.Errorf("%w: zero marked present", ErrCorruptCodebook)
		}
		alphabet = append(alphabet, int8(x))
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("%w: no value present", ErrCorruptCodebook)
	}
	fb := totalBits(o.SparseTotal)
	freq := make([]uint32, len(alphabet))
	for i := range freq {
		f, err := rd.ReadBits(fb)
		if err != nil {
			return nil, readErr("frequencies", err)
		}
		freq[i] = uint32(f) + 1
	}
	ft, err := NewFreqTable(freq, o.SparseTotal)
	if err != nil {
		return nil, err
	}
	r, err := rd.ReadBits(3)
	if err != nil {
		return nil, readErr("rice parameter", err)
	}

	width := positionWidth(dim)
	positions := make([][]int, n)
	seen := 0
	for i := range positions {
		c, err := rd.ReadBits(16)
		if err != nil {
			return nil, readErr("vector count", err)
		}
		if c == 0 {
			continue
		}
		if int(c) > dim || seen+int(c) > global {
			return nil, corruptf("vector %d claims %d non-zeros", i, c)
		}
		seen += int(c)
		positions[i] = make([]int, c)
		if err := readPositions(rd, positions[i], dim, width, uint(r)); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	if seen != global {
		return nil, corruptf("vector counts sum to %d, header says %d", seen, global)
	}
	rd.Align()
	stream, err := rd.Rest()
	if err != nil {
		return nil, readErr("rans stream", err)
	}
	syms, err := DecodeRans(ft, stream, global)
	if err != nil {
		return nil, err
	}
	k := 0
	for i, pos := range positions {
		for _, p := range pos {
			out[i][p] = alphabet[syms[k]]
			k++
		}
	}
	dbg("[sparse-batch] decode n=%d dim=%d count=%d r=%d\n", n, dim, global, r)
	return out, nil
}
