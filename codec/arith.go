package codec

import "vSIS-Codec/bitstream"

// Binary arithmetic coder with 32-bit interval precision and deferred
// underflow bits. It codes the dense-range pipeline, whose adaptive models
// need no frequency table in the blob.
const (
	arithBits         = 32
	arithMax   uint64 = 1<<arithBits - 1
	arithHalf  uint64 = 1 << (arithBits - 1)
	arithQuart uint64 = 1 << (arithBits - 2)
)

const (
	adaptiveInc   = 32
	adaptiveLimit = 1 << 16
)

// adaptiveModel is a frequency-count model that starts uniform and learns
// from every coded symbol. Counts are halved once the total exceeds
// adaptiveLimit.
type adaptiveModel struct {
	freq  []uint32
	total uint32
}

func newAdaptiveModel(n int) *adaptiveModel {
	m := &adaptiveModel{freq: make([]uint32, n), total: uint32(n)}
	for i := range m.freq {
		m.freq[i] = 1
	}
	return m
}

func (m *adaptiveModel) span(sym int) (lo, hi uint64) {
	var c uint32
	for _, f := range m.freq[:sym] {
		c += f
	}
	return uint64(c), uint64(c + m.freq[sym])
}

// find returns the symbol whose span holds target.
func (m *adaptiveModel) find(target uint64) (sym int, lo, hi uint64) {
	var c uint64
	for s, f := range m.freq {
		if target < c+uint64(f) {
			return s, c, c + uint64(f)
		}
		c += uint64(f)
	}
	return -1, 0, 0
}

func (m *adaptiveModel) update(sym int) {
	m.freq[sym] += adaptiveInc
	m.total += adaptiveInc
	if m.total <= adaptiveLimit {
		return
	}
	m.total = 0
	for i, f := range m.freq {
		m.freq[i] = (f + 1) / 2
		m.total += m.freq[i]
	}
}

type arithEncoder struct {
	w       *bitstream.Writer
	low     uint64
	high    uint64
	pending int
}

func newArithEncoder(w *bitstream.Writer) *arithEncoder {
	return &arithEncoder{w: w, high: arithMax}
}

func (e *arithEncoder) emit(bit uint) error {
	if err := e.w.WriteBit(bit); err != nil {
		return err
	}
	for ; e.pending > 0; e.pending-- {
		if err := e.w.WriteBit(bit ^ 1); err != nil {
			return err
		}
	}
	return nil
}

// encode narrows the interval to [lo, hi) out of total.
func (e *arithEncoder) encode(lo, hi, total uint64) error {
	r := e.high - e.low + 1
	e.high = e.low + r*hi/total - 1
	e.low = e.low + r*lo/total
	for {
		switch {
		case e.high < arithHalf:
			if err := e.emit(0); err != nil {
				return err
			}
		case e.low >= arithHalf:
			if err := e.emit(1); err != nil {
				return err
			}
			e.low -= arithHalf
			e.high -= arithHalf
		case e.low >= arithQuart && e.high < 3*arithQuart:
			e.pending++
			e.low -= arithQuart
			e.high -= arithQuart
		default:
			return nil
		}
		e.low = e.low << 1 & arithMax
		e.high = e.high<<1&arithMax | 1
	}
}

func (e *arithEncoder) encodeSymbol(m *adaptiveModel, sym int) error {
	lo, hi := m.span(sym)
	if err := e.encode(lo, hi, uint64(m.total)); err != nil {
		return err
	}
	m.update(sym)
	return nil
}

// encodeUniform codes v in [0, n) with equal probabilities.
func (e *arithEncoder) encodeUniform(v, n uint64) error {
	return e.encode(v, v+1, n)
}

// close writes enough bits to pin a value inside the final interval. The
// decoder pads the missing tail with zero bits.
func (e *arithEncoder) close() error {
	e.pending++
	if e.low < arithQuart {
		return e.emit(0)
	}
	return e.emit(1)
}

type arithDecoder struct {
	rd      *bitstream.Reader
	low     uint64
	high    uint64
	value   uint64
	overrun int
}

func newArithDecoder(rd *bitstream.Reader) (*arithDecoder, error) {
	d := &arithDecoder{rd: rd, high: arithMax}
	for i := 0; i < arithBits; i++ {
		bit, err := d.bit()
		if err != nil {
			return nil, err
		}
		d.value = d.value<<1 | uint64(bit)
	}
	return d, nil
}

// bit reads the next bit, padding with zeros past the end of the input. The
// encoder never leaves more than one state width of bits implicit.
func (d *arithDecoder) bit() (uint, error) {
	if d.rd.Remaining() > 0 {
		b, err := d.rd.ReadBit()
		return b, readErr("arithmetic code", err)
	}
	d.overrun++
	if d.overrun > arithBits {
		return 0, corruptf("arithmetic code overruns input by %d bits", d.overrun)
	}
	return 0, nil
}

// target returns the scaled position of the value inside the interval.
func (d *arithDecoder) target(total uint64) (uint64, error) {
	if d.value < d.low || d.value > d.high {
		return 0, corruptf("arithmetic value outside interval")
	}
	r := d.high - d.low + 1
	t := ((d.value-d.low+1)*total - 1) / r
	if t >= total {
		return 0, corruptf("arithmetic target %d >= %d", t, total)
	}
	return t, nil
}

func (d *arithDecoder) consume(lo, hi, total uint64) error {
	r := d.high - d.low + 1
	d.high = d.low + r*hi/total - 1
	d.low = d.low + r*lo/total
	for {
		switch {
		case d.high < arithHalf:
		case d.low >= arithHalf:
			d.low -= arithHalf
			d.high -= arithHalf
			d.value -= arithHalf
		case d.low >= arithQuart && d.high < 3*arithQuart:
			d.low -= arithQuart
			d.high -= arithQuart
			d.value -= arithQuart
		default:
			return nil
		}
		bit, err := d.bit()
		if err != nil {
			return err
		}
		d.low = d.low << 1 & arithMax
		d.high = d.high<<1&arithMax | 1
		d.value = d.value<<1&arithMax | uint64(bit)
	}
}

func (d *arithDecoder) decodeSymbol(m *adaptiveModel) (int, error) {
	t, err := d.target(uint64(m.total))
	if err != nil {
		return 0, err
	}
	sym, lo, hi := m.find(t)
	if sym < 0 {
		return 0, corruptf("arithmetic target %d outside model", t)
	}
	if err := d.consume(lo, hi, uint64(m.total)); err != nil {
		return 0, err
	}
	m.update(sym)
	return sym, nil
}

func (d *arithDecoder) decodeUniform(n uint64) (uint64, error) {
	t, err := d.target(n)
	if err != nil {
		return 0, err
	}
	return t, d.consume(t, t+1, n)
}
