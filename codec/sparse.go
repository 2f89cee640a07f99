package codec

import (
	"fmt"

	"vSIS-Codec/bitstream"
)

// Sparse-single blob layout, every field MSB-first:
//
//	count        16
//	n_unique-1    4   \
//	offset        4    | per used value, ascending offset
//	length-1      4   /
//	rice param    3
//	first pos    11 (wider when the dimension needs it)
//	gaps         Rice, count-1 of them
//	values       Huffman, count of them
//
// An all-zero vector is a zero count and two zero bytes.

// SparseMaxValue bounds |v| for the sparse-single pipeline.
const SparseMaxValue = 8

const sparseRiceParam = 4

// sparseOffset maps a non-zero value in [-8,8] to a 4-bit offset.
func sparseOffset(v int8) int {
	if v < 0 {
		return int(v) + 8
	}
	return int(v) + 7
}

func sparseValue(off int) int8 {
	if off < 8 {
		return int8(off - 8)
	}
	return int8(off - 7)
}

type nonZeros struct {
	pos []int
	val []int8
}

func scanNonZeros(v []int8) nonZeros {
	var nz nonZeros
	for i, x := range v {
		if x != 0 {
			nz.pos = append(nz.pos, i)
			nz.val = append(nz.val, x)
		}
	}
	return nz
}

// maxGap returns the largest gap between consecutive positions.
func maxGap(pos []int) uint32 {
	var m uint32
	for i := 1; i < len(pos); i++ {
		if g := uint32(pos[i] - pos[i-1] - 1); g > m {
			m = g
		}
	}
	return m
}

// writePositions writes the first position and the Rice-coded gaps.
func writePositions(w *bitstream.Writer, pos []int, width, r uint) error {
	if err := w.WriteBits(uint64(pos[0]), width); err != nil {
		return err
	}
	for i := 1; i < len(pos); i++ {
		if err := WriteRice(w, uint32(pos[i]-pos[i-1]-1), r); err != nil {
			return err
		}
	}
	return nil
}

// readPositions reads count positions and checks that they stay below dim.
func readPositions(rd *bitstream.Reader, pos []int, dim int, width, r uint) error {
	first, err := rd.ReadBits(width)
	if err != nil {
		return readErr("first position", err)
	}
	if first >= uint64(dim) {
		return corruptf("first position %d outside dimension %d", first, dim)
	}
	pos[0] = int(first)
	for i := 1; i < len(pos); i++ {
		gap, err := ReadRice(rd, r, RiceMaxQuotient)
		if err != nil {
			return fmt.Errorf("gap %d: %w", i, err)
		}
		p := pos[i-1] + int(gap) + 1
		if p >= dim {
			return corruptf("position %d outside dimension %d", p, dim)
		}
		pos[i] = p
	}
	return nil
}

// EncodeSparse compresses a vector with entries in [-8,8] by coding the
// positions of its non-zero entries as Rice gaps and their values with a
// Huffman code.
func EncodeSparse(v []int8, opts *Options) ([]byte, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 || len(v) > MaxDimension {
		return nil, invalidf("dimension %d outside [1,%d]", len(v), MaxDimension)
	}
	for i, x := range v {
		if x < -SparseMaxValue || x > SparseMaxValue {
			return nil, invalidf("entry %d = %d outside [-%d,%d]", i, x, SparseMaxValue, SparseMaxValue)
		}
	}
	sz := newSizes(o, "sparse")
	nz := scanNonZeros(v)
	count := len(nz.pos)
	if count == 0 {
		sz.add("header", 32)
		sz.commit(4)
		return []byte{0, 0, 0, 0}, nil
	}

	w := bitstream.NewWriter(MaxSparseSize(len(v)))
	if err := w.WriteBits(uint64(count), 16); err != nil {
		return nil, writeErr("count", err)
	}
	var freqs [16]uint32
	for _, x := range nz.val {
		freqs[sparseOffset(x)]++
	}
	code, err := NewHuffmanCode(freqs[:])
	if err != nil {
		return nil, err
	}
	if err := writeHuffmanDescriptor(w, code); err != nil {
		return nil, writeErr("huffman descriptor", err)
	}
	r := riceParamFor(maxGap(nz.pos), sparseRiceParam)
	if err := w.WriteBits(uint64(r), 3); err != nil {
		return nil, writeErr("rice parameter", err)
	}
	mark := w.BitLen()
	sz.add("header", mark)

	if err := writePositions(w, nz.pos, positionWidth(len(v)), r); err != nil {
		return nil, writeErr("positions", err)
	}
	sz.add("positions", w.BitLen()-mark)
	mark = w.BitLen()

	for _, x := range nz.val {
		if err := code.Encode(w, sparseOffset(x)); err != nil {
			return nil, writeErr("values", err)
		}
	}
	sz.add("values", w.BitLen()-mark)

	blob := w.Finish()
	sz.commit(len(blob))
	dbg("[sparse] encode dim=%d count=%d r=%d bytes=%d\n", len(v), count, r, len(blob))
	return blob, nil
}

func writeHuffmanDescriptor(w *bitstream.Writer, code *HuffmanCode) error {
	lengths := code.Lengths()
	used := 0
	for _, l := range lengths {
		if l > 0 {
			used++
		}
	}
	if err := w.WriteBits(uint64(used-1), 4); err != nil {
		return err
	}
	for off, l := range lengths {
		if l == 0 {
			continue
		}
		if err := w.WriteBits(uint64(off), 4); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(l-1), 4); err != nil {
			return err
		}
	}
	return nil
}

func readHuffmanDescriptor(rd *bitstream.Reader) (*HuffmanCode, error) {
	n, err := rd.ReadBits(4)
	if err != nil {
		return nil, readErr("huffman descriptor", err)
	}
	lengths := make([]uint8, 16)
	prev := -1
	for i := 0; i <= int(n); i++ {
		pair, err := rd.ReadBits(8)
		if err != nil {
			return nil, readErr("huffman descriptor", err)
		}
		off := int(pair >> 4)
		if off <= prev {
			return nil, fmt.Errorf("%w: huffman offsets not ascending", ErrCorruptCodebook)
		}
		prev = off
		lengths[off] = uint8(pair&0xF) + 1
	}
	return NewHuffmanCodeFromLengths(lengths)
}

// DecodeSparse reverses EncodeSparse for a vector of dim entries.
func DecodeSparse(blob []byte, dim int, opts *Options) ([]int8, error) {
	if _, err := resolveOptions(opts); err != nil {
		return nil, err
	}
	if err := checkShape(1, dim); err != nil {
		return nil, err
	}
	rd := bitstream.NewReader(blob)
	count, err := rd.ReadBits(16)
	if err != nil {
		return nil, readErr("count", err)
	}
	out := make([]int8, dim)
	if count == 0 {
		return out, nil
	}
	if count > uint64(dim) {
		return nil, corruptf("%d non-zeros in dimension %d", count, dim)
	}
	code, err := readHuffmanDescriptor(rd)
	if err != nil {
		return nil, err
	}
	r, err := rd.ReadBits(3)
	if err != nil {
		return nil, readErr("rice parameter", err)
	}
	pos := make([]int, count)
	if err := readPositions(rd, pos, dim, positionWidth(dim), uint(r)); err != nil {
		return nil, err
	}
	for _, p := range pos {
		off, err := code.Decode(rd)
		if err != nil {
			return nil, err
		}
		out[p] = sparseValue(off)
	}
	dbg("[sparse] decode dim=%d count=%d r=%d\n", dim, count, r)
	return out, nil
}
