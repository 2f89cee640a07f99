package codec

import (
	"fmt"

	"vSIS-Codec/bitstream"
)

// Dense-batch blob layout, every field MSB-first:
//
//	num_vectors   16
//	dimension     16
//	modulus       16 (65536 stored as 0)
//	n_unique      16
//	alphabet      ⌈log₂ modulus⌉ bits per entry, ascending
//	freq-1        log₂M bits per entry
//	<byte align>
//	rANS stream over every coefficient, vector-major scan order

// EncodeDenseBatch compresses vectors of residues in [0, modulus) that share
// one compact alphabet and one rANS stream.
func EncodeDenseBatch(vs [][]uint16, modulus int, opts *Options) ([]byte, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	n, dim, err := checkBatch(vs)
	if err != nil {
		return nil, err
	}
	hist := make([]uint32, modulus)
	for i, v := range vs {
		for j, x := range v {
			if int(x) >= modulus {
				return nil, invalidf("vector %d entry %d = %d not below modulus %d", i, j, x, modulus)
			}
			hist[x]++
		}
	}
	var alphabet []int
	var counts []uint32
	index := make([]int, modulus)
	for x, c := range hist {
		if c > 0 {
			index[x] = len(alphabet)
			alphabet = append(alphabet, x)
			counts = append(counts, c)
		}
	}
	if len(alphabet) > int(o.DenseTotal) {
		return nil, invalidf("%d distinct values exceed normalisation total %d", len(alphabet), o.DenseTotal)
	}
	freq, err := Normalize(counts, o.DenseTotal)
	if err != nil {
		return nil, err
	}
	ft, err := NewFreqTable(freq, o.DenseTotal)
	if err != nil {
		return nil, err
	}

	sz := newSizes(o, "dense_batch")
	w := bitstream.NewWriter(MaxDenseBatchSize(n, dim, modulus, o.DenseTotal))
	if err := w.WriteBits(uint64(n), 16); err != nil {
		return nil, writeErr("header", err)
	}
	if err := w.WriteBits(uint64(dim), 16); err != nil {
		return nil, writeErr("header", err)
	}
	if err := writeModulus(w, modulus); err != nil {
		return nil, writeErr("header", err)
	}
	if err := w.WriteBits(uint64(len(alphabet)), 16); err != nil {
		return nil, writeErr("header", err)
	}
	vw := valueWidth(modulus)
	for _, x := range alphabet {
		if err := w.WriteBits(uint64(x), vw); err != nil {
			return nil, writeErr("alphabet", err)
		}
	}
	fb := totalBits(o.DenseTotal)
	for _, f := range freq {
		if err := w.WriteBits(uint64(f-1), fb); err != nil {
			return nil, writeErr("frequencies", err)
		}
	}
	w.Align()
	sz.add("header", w.BitLen())

	syms := make([]int, 0, n*dim)
	for _, v := range vs {
		for _, x := range v {
			syms = append(syms, index[x])
		}
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
	dbg("[dense-batch] encode n=%d dim=%d mod=%d alphabet=%d bytes=%d\n",
		n, dim, modulus, len(alphabet), len(blob))
	return blob, nil
}

// DecodeDenseBatch reverses EncodeDenseBatch for n vectors of dim
// coefficients.
func DecodeDenseBatch(blob []byte, n, dim, modulus int, opts *Options) ([][]uint16, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	if err := checkShape(n, dim); err != nil {
		return nil, err
	}
	rd := bitstream.NewReader(blob)
	var hdr [2]uint64
	for i := range hdr {
		if hdr[i], err = rd.ReadBits(16); err != nil {
			return nil, readErr("header", err)
		}
	}
	m, err := readModulus(rd)
	if err != nil {
		return nil, err
	}
	if int(hdr[0]) != n || int(hdr[1]) != dim || m != modulus {
		return nil, shapef("blob holds %d×%d mod %d, want %d×%d mod %d", hdr[0], hdr[1], m, n, dim, modulus)
	}
	unique, err := rd.ReadBits(16)
	if err != nil {
		return nil, readErr("alphabet size", err)
	}
	if unique == 0 || unique > uint64(o.DenseTotal) || unique > uint64(modulus) {
		return nil, fmt.Errorf("%w: alphabet of %d values", ErrCorruptCodebook, unique)
	}
	vw := valueWidth(modulus)
	alphabet := make([]uint16, unique)
	for i := range alphabet {
		x, err := rd.ReadBits(vw)
		if err != nil {
			return nil, readErr("alphabet", err)
		}
		if x >= uint64(modulus) || (i > 0 && x <= uint64(alphabet[i-1])) {
			return nil, fmt.Errorf("%w: alphabet entry %d = %d", ErrCorruptCodebook, i, x)
		}
		alphabet[i] = uint16(x)
	}
	fb := totalBits(o.DenseTotal)
	freq := make([]uint32, unique)
	for i := range freq {
		f, err := rd.ReadBits(fb)
		if err != nil {
			return nil, readErr("frequencies", err)
		}
		freq[i] = uint32(f) + 1
	}
	ft, err := NewFreqTable(freq, o.DenseTotal)
	if err != nil {
		return nil, err
	}
	rd.Align()
	stream, err := rd.Rest()
	if err != nil {
		return nil, readErr("rans stream", err)
	}
	syms, err := DecodeRans(ft, stream, n*dim)
	if err != nil {
		return nil, err
	}
	flat := make([]uint16, n*dim)
	for i, s := range syms {
		flat[i] = alphabet[s]
	}
	out := make([][]uint16, n)
	for i := range out {
		out[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	dbg("[dense-batch] decode n=%d dim=%d mod=%d alphabet=%d\n", n, dim, modulus, unique)
	return out, nil
}
