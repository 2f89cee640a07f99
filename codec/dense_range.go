package codec

import "vSIS-Codec/bitstream"

// Dense-range blob layout:
//
//	dimension   16
//	modulus     16 (65536 stored as 0)
//	max_bits     8 (⌈log₂ modulus⌉)
//	arithmetic-coded (class, payload) per coefficient, unaligned
//
// Classes split [0,modulus) into [0,3], [4,15], [16,255] and
// [256,modulus). Class and payload symbols are coded with adaptive models
// that encoder and decoder grow in lockstep, so no table is stored. Class 3
// payloads are uniform over [0, modulus-256).

// MaxModulus is the largest modulus the 16-bit header field can carry.
const MaxModulus = 1 << 16

var classBase = [4]int{0, 4, 16, 256}

func denseClass(v int) int {
	switch {
	case v < 4:
		return 0
	case v < 16:
		return 1
	case v < 256:
		return 2
	}
	return 3
}

// denseModels holds the class model and the payload models of the classes
// a modulus can reach.
type denseModels struct {
	class   *adaptiveModel
	payload [3]*adaptiveModel
	modulus int
}

func newDenseModels(modulus int) *denseModels {
	m := &denseModels{modulus: modulus}
	classes := denseClass(modulus-1) + 1
	m.class = newAdaptiveModel(classes)
	for c := 0; c < classes && c < 3; c++ {
		size := min(classBase[c+1], modulus) - classBase[c]
		m.payload[c] = newAdaptiveModel(size)
	}
	return m
}

func checkModulus(modulus int) error {
	if modulus < 1 || modulus > MaxModulus {
		return invalidf("modulus %d outside [1,%d]", modulus, MaxModulus)
	}
	return nil
}

func writeModulus(w *bitstream.Writer, modulus int) error {
	return w.WriteBits(uint64(modulus)&0xFFFF, 16)
}

func readModulus(rd *bitstream.Reader) (int, error) {
	m, err := rd.ReadBits(16)
	if err != nil {
		return 0, readErr("modulus", err)
	}
	if m == 0 {
		return MaxModulus, nil
	}
	return int(m), nil
}

// EncodeDenseRange compresses one vector of residues in [0, modulus)
// without a stored frequency table.
func EncodeDenseRange(v []uint16, modulus int, opts *Options) ([]byte, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	if len(v) == 0 || len(v) > MaxDimension {
		return nil, invalidf("dimension %d outside [1,%d]", len(v), MaxDimension)
	}
	for i, x := range v {
		if int(x) >= modulus {
			return nil, invalidf("entry %d = %d not below modulus %d", i, x, modulus)
		}
	}

	sz := newSizes(o, "dense_range")
	w := bitstream.NewWriter(MaxDenseRangeSize(len(v)))
	if err := w.WriteBits(uint64(len(v)), 16); err != nil {
		return nil, writeErr("dimension", err)
	}
	if err := writeModulus(w, modulus); err != nil {
		return nil, writeErr("modulus", err)
	}
	if err := w.WriteBits(uint64(valueWidth(modulus)), 8); err != nil {
		return nil, writeErr("max bits", err)
	}
	sz.add("header", w.BitLen())
	mark := w.BitLen()

	models := newDenseModels(modulus)
	enc := newArithEncoder(w)
	for _, x := range v {
		c := denseClass(int(x))
		if err := enc.encodeSymbol(models.class, c); err != nil {
			return nil, writeErr("class", err)
		}
		p := int(x) - classBase[c]
		if c < 3 {
			err = enc.encodeSymbol(models.payload[c], p)
		} else {
			err = enc.encodeUniform(uint64(p), uint64(modulus-256))
		}
		if err != nil {
			return nil, writeErr("payload", err)
		}
	}
	if err := enc.close(); err != nil {
		return nil, writeErr("arithmetic flush", err)
	}
	sz.add("values", w.BitLen()-mark)

	blob := w.Finish()
	sz.commit(len(blob))
	dbg("[dense-range] encode dim=%d mod=%d bytes=%d\n", len(v), modulus, len(blob))
	return blob, nil
}

// DecodeDenseRange reverses EncodeDenseRange for dim coefficients.
func DecodeDenseRange(blob []byte, dim, modulus int, opts *Options) ([]uint16, error) {
	if _, err := resolveOptions(opts); err != nil {
		return nil, err
	}
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	if err := checkShape(1, dim); err != nil {
		return nil, err
	}
	rd := bitstream.NewReader(blob)
	d, err := rd.ReadBits(16)
	if err != nil {
		return nil, readErr("dimension", err)
	}
	m, err := readModulus(rd)
	if err != nil {
		return nil, err
	}
	if int(d) != dim || m != modulus {
		return nil, shapef("blob holds dim %d mod %d, want dim %d mod %d", d, m, dim, modulus)
	}
	mb, err := rd.ReadBits(8)
	if err != nil {
		return nil, readErr("max bits", err)
	}
	if uint(mb) != valueWidth(modulus) {
		return nil, corruptf("max bits %d for modulus %d", mb, modulus)
	}

	models := newDenseModels(modulus)
	dec, err := newArithDecoder(rd)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, dim)
	for i := range out {
		c, err := dec.decodeSymbol(models.class)
		if err != nil {
			return nil, err
		}
		var p uint64
		if c < 3 {
			var s int
			s, err = dec.decodeSymbol(models.payload[c])
			p = uint64(s)
		} else {
			p, err = dec.decodeUniform(uint64(modulus - 256))
		}
		if err != nil {
			return nil, err
		}
		out[i] = uint16(classBase[c] + int(p))
	}
	dbg("[dense-range] decode dim=%d mod=%d\n", dim, modulus)
	return out, nil
}
